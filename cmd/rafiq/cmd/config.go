package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/config"
	"github.com/sevencode7/rafiq/internal/storage"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the rafiq configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			p, err := storage.NewPathManager().ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			path = p
		}

		if err := config.WriteDefault(path, configForce); err != nil {
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w: %s (use --force to overwrite)", err, path)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		file := cfg.FileUsed()
		if file == "" {
			file = "(defaults and environment only)"
		}
		fmt.Fprintf(out, "# file: %s\n", file)

		info := storage.NewPathManager().PlatformInfo()
		for _, k := range slices.Sorted(maps.Keys(info)) {
			fmt.Fprintf(out, "# %s: %s\n", k, info[k])
		}
		fmt.Fprintln(out)

		return toml.NewEncoder(out).Encode(masked(cfg))
	},
}

func masked(c *config.Config) *config.Config {
	m := *c
	for _, s := range []*string{&m.Auth.SessionSecret, &m.Gemini.APIKey, &m.Assistant.GeminiAPIKey} {
		if *s != "" {
			*s = "********"
		}
	}
	return &m
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
