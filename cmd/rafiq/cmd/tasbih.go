package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/app"
	"github.com/sevencode7/rafiq/internal/catalog"
	"github.com/sevencode7/rafiq/internal/tasbih"
)

var tasbihCmd = &cobra.Command{
	Use:   "tasbih",
	Short: "Show the tasbih count, points and level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		printTasbih(cmd, a)
		return nil
	},
}

var tasbihTapCmd = &cobra.Command{
	Use:   "tap [n]",
	Short: "Count one or n tasbihat",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid count: %s", args[0])
			}
			n = v
		}

		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		for range n {
			a.Tasbih.Tap()
		}
		printTasbih(cmd, a)
		return nil
	},
}

var tasbihResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero the count; points are kept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		a.Tasbih.Reset()
		printTasbih(cmd, a)
		return nil
	},
}

func printTasbih(cmd *cobra.Command, a *app.App) {
	count, points := a.Tasbih.Count(), a.Tasbih.Points()
	dhikr := catalog.Dhikr[count%len(catalog.Dhikr)]
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nالعدد: %d\nالنقاط: %d\nالمستوى: %s\n", dhikr, count, points, tasbih.Level(points))
}

func init() {
	tasbihCmd.AddCommand(tasbihTapCmd, tasbihResetCmd)
	rootCmd.AddCommand(tasbihCmd)
}
