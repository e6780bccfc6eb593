package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/app"
	"github.com/sevencode7/rafiq/internal/config"
	"github.com/sevencode7/rafiq/internal/storage"
)

var (
	debug      bool
	configFile string
	logFile    *os.File // For cleanup
)

var (
	cfg      *config.Config
	rafiqApp *app.App
)

// setupLogging sends log output to ~/.rafiq/logs/rafiq.log. In debug mode
// it stays on stderr.
func setupLogging(debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
		return nil
	}

	logDir, err := storage.NewPathManager().LogsDir()
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err = os.OpenFile(filepath.Join(logDir, "rafiq.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(logFile)
	return nil
}

// cleanupLogging closes the log file if it was opened
func cleanupLogging() {
	if logFile != nil {
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

// clientApp builds the client application on first use. serve and config
// never need it.
func clientApp(ctx context.Context) (*app.App, error) {
	if rafiqApp != nil {
		return rafiqApp, nil
	}
	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rafiq: %w", err)
	}
	rafiqApp = a
	return a, nil
}

func closeApp() {
	if rafiqApp == nil {
		return
	}
	if err := rafiqApp.Close(); err != nil {
		log.Warn("Failed to close client", "err", err)
	}
	rafiqApp = nil
}

var rootCmd = &cobra.Command{
	Use:   "rafiq [message]",
	Short: "Islamic companion: prayer reminders, tasbih and an assistant",
	Long: `Rafiq is a companion for daily worship with a chat assistant.

Usage:
  rafiq                      # Chat with the assistant
  rafiq "your question"      # Ask once in the active chat
  rafiq serve                # Run the backend
  rafiq remind --lat --lon   # Prayer reminders for a location`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(debug); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		loaded, err := config.Load(config.Options{File: configFile, Debug: debug})
		if err != nil {
			return err
		}
		cfg = loaded

		if !debug {
			if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
				log.SetLevel(level)
			}
		}
		log.Debug("Config loaded", "file", cfg.FileUsed())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return askOnce(cmd, args)
		}
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log to stderr at debug level")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ~/.rafiq/config.toml)")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	defer func() {
		closeApp()
		cleanupLogging()
	}()

	if args == nil {
		args = []string{}
	}
	setContext(rootCmd, ctx)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stdout)
	return rootCmd.ExecuteContext(ctx)
}

// setContext hands ctx to every command. cobra only fills in a subcommand's
// context when it has none, so a previous run's context would otherwise stick.
func setContext(c *cobra.Command, ctx context.Context) {
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		setContext(sub, ctx)
	}
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
