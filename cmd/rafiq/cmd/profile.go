package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/storage"
	"github.com/sevencode7/rafiq/internal/tasbih"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile shared with the assistant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		p := tasbih.LoadProfile(a.Store)
		fmt.Fprintf(cmd.OutOrStdout(), "الاسم: %s\n", p.Name)
		return nil
	},
}

var profileNameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Set your name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		p := tasbih.SaveProfile(a.Store, tasbih.Profile{Name: strings.Join(args, " ")})
		fmt.Fprintf(cmd.OutOrStdout(), "الاسم: %s\n", p.Name)
		return nil
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show the notes the assistant remembers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), storage.LoadMemory(a.Store).Notes)
		return nil
	},
}

var memorySetCmd = &cobra.Command{
	Use:   "set <notes>",
	Short: "Replace the notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		storage.SaveMemory(a.Store, storage.Memory{Notes: strings.Join(args, " ")})
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		storage.SaveMemory(a.Store, storage.Memory{})
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileNameCmd)
	memoryCmd.AddCommand(memorySetCmd, memoryClearCmd)
	rootCmd.AddCommand(profileCmd, memoryCmd)
}
