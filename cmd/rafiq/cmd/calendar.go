package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/sevencode7/rafiq/internal/prayer"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print today's Hijri and Gregorian dates and the Ramadan countdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		start := prayer.NextRamadanStart(now)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, prayer.FormatHijri(now, language.Arabic))
		fmt.Fprintln(out, prayer.FormatGregorian(now, language.Arabic))
		fmt.Fprintf(out, "رمضان: %s (%s)\n", start.Format(time.DateOnly), prayer.Countdown(now, start, language.Arabic))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
