package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/app"
	"github.com/sevencode7/rafiq/internal/events"
	"github.com/sevencode7/rafiq/internal/markdown"
	"github.com/sevencode7/rafiq/internal/notifications"
	"github.com/sevencode7/rafiq/internal/prayer"
	"github.com/sevencode7/rafiq/internal/reminder"
)

var (
	remindLat float64
	remindLon float64
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Poll today's prayer times and notify at each one",
	Long: `Stores the location given by --lat/--lon (or reuses the last one), then
prints the next prayer and a reminder when each prayer time is reached.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := locatedApp(cmd)
		if err != nil {
			return err
		}
		r, err := markdown.NewRenderer(markdown.DefaultWidth)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		reminders := a.Bus.SubscribeReminders(cmd.Context())

		switch err := a.StartReminders(); {
		case errors.Is(err, reminder.ErrPermissionDenied):
			fmt.Fprintln(out, r.Notice("التنبيهات غير مفعّلة. فعّل reminders.notifications في الإعدادات."))
			return nil
		case errors.Is(err, reminder.ErrRemindersDisabled):
			fmt.Fprintln(out, r.Notice("تذكير الصلوات متوقف. شغّله بـ: rafiq settings prayers on"))
			return nil
		case err != nil:
			return err
		}

		var lastLabel string
		for ev := range reminders {
			switch ev.Type {
			case events.ReminderNextPrayer:
				if ev.Payload.Title != lastLabel {
					lastLabel = ev.Payload.Title
					fmt.Fprintln(out, r.Notice("الصلاة القادمة: "+lastLabel))
				}
			case events.ReminderFired:
				fmt.Fprintf(out, "%s\n%s\n", r.Title(ev.Payload.Title), ev.Payload.Body)
			}
		}
		return nil
	},
}

var remindTimesCmd = &cobra.Command{
	Use:   "times",
	Short: "Print today's prayer times",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := locatedApp(cmd)
		if err != nil {
			return err
		}
		times, _ := a.PrayerTimes()
		printTimes(cmd, times)
		return nil
	},
}

var remindNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next prayer today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := locatedApp(cmd)
		if err != nil {
			return err
		}
		times, _ := a.PrayerTimes()
		next, ok := reminder.Next(times, time.Now())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "لا صلوات متبقية اليوم")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), next.Label())
		return nil
	},
}

var remindTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Raise a test notification",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		n, err := a.Notifications.Raise(notifications.KindTest, "رفيق", "هذا تنبيه تجريبي")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", n.Title, n.Body)
		return nil
	},
}

// locatedApp returns the client app after applying --lat/--lon. Without
// the flags a stored location is required.
func locatedApp(cmd *cobra.Command) (*app.App, error) {
	a, err := clientApp(cmd.Context())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")
	switch {
	case latSet && lonSet:
		if remindLat < -90 || remindLat > 90 || remindLon < -180 || remindLon > 180 {
			return nil, fmt.Errorf("invalid coordinates: %v, %v", remindLat, remindLon)
		}
		a.Locate(remindLat, remindLon)
	case latSet || lonSet:
		return nil, errors.New("--lat and --lon must be given together")
	default:
		if _, ok := a.PrayerTimes(); !ok {
			return nil, errors.New("no location stored; pass --lat and --lon")
		}
	}
	return a, nil
}

func printTimes(cmd *cobra.Command, times []prayer.Time) {
	for _, t := range times {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Name, t.Time)
	}
}

func init() {
	remindCmd.PersistentFlags().Float64Var(&remindLat, "lat", 0, "Latitude")
	remindCmd.PersistentFlags().Float64Var(&remindLon, "lon", 0, "Longitude")
	remindCmd.AddCommand(remindTimesCmd, remindNextCmd, remindTestCmd)
	rootCmd.AddCommand(remindCmd)
}
