package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/storage"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show reminder settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		printSettings(cmd, storage.LoadSettings(a.Store))
		return nil
	},
}

// toggleCmd builds a subcommand that switches one reminder setting.
func toggleCmd(name, short string, field func(*storage.Settings) *bool) *cobra.Command {
	return &cobra.Command{
		Use:       name + " on|off",
		Short:     short,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := clientApp(cmd.Context())
			if err != nil {
				return err
			}
			s := storage.LoadSettings(a.Store)
			*field(&s) = args[0] == "on"
			storage.SaveSettings(a.Store, s)
			printSettings(cmd, s)
			return nil
		},
	}
}

func printSettings(cmd *cobra.Command, s storage.Settings) {
	fmt.Fprintf(cmd.OutOrStdout(), "prayers\t%s\nazkar\t%s\n", onOff(s.Reminders.Prayers), onOff(s.Reminders.Azkar))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	settingsCmd.AddCommand(
		toggleCmd("prayers", "Turn prayer reminders on or off", func(s *storage.Settings) *bool { return &s.Reminders.Prayers }),
		toggleCmd("azkar", "Turn azkar reminders on or off", func(s *storage.Settings) *bool { return &s.Reminders.Azkar }),
	)
	rootCmd.AddCommand(settingsCmd)
}
