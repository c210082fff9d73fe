package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taslimamindia/inboxpilot/internal/calendar"
	"github.com/taslimamindia/inboxpilot/internal/scheduling"
)

func newSlotsCmd() *cobra.Command {
	var (
		account    string
		calendarID string
		date       string
		startDate  string
		endDate    string
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Find free calendar slots",
		Long: `Query the calendar for free slots within business hours.

Without flags the next available business days are searched. With --date a
single day is searched, falling back to the following business days when the
day is fully booked. With --from and --to an explicit range is searched.

Dates accept RFC 3339 or local forms like "2025-06-02" and
"2025-06-02 14:00".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := calendar.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
			}

			engine, err := scheduling.NewEngine(client, scheduling.Config{CalendarID: calendarID})
			if err != nil {
				return fmt.Errorf("failed to create scheduling engine: %w", err)
			}

			var avail scheduling.Availability
			switch {
			case date != "":
				day, err := engine.ParseLocal(date)
				if err != nil {
					return fmt.Errorf("invalid --date value: %w", err)
				}
				avail, err = engine.FindAvailableBySpecificDate(ctx, day)
				if err != nil {
					return fmt.Errorf("availability query failed: %w", err)
				}
			case startDate != "" || endDate != "":
				if startDate == "" || endDate == "" {
					return fmt.Errorf("--from and --to must be given together")
				}
				from, err := engine.ParseLocal(startDate)
				if err != nil {
					return fmt.Errorf("invalid --from value: %w", err)
				}
				to, err := engine.ParseLocal(endDate)
				if err != nil {
					return fmt.Errorf("invalid --to value: %w", err)
				}
				avail = engine.FindAvailableByDateRange(ctx, from, to)
			default:
				avail = engine.FindAvailableWithoutDate(ctx)
			}

			if !avail.HasSlots() {
				fmt.Println(avail.Message)
				return nil
			}
			for i, slot := range avail.Slots {
				fmt.Printf("%d. %s - %s\n", i+1, slot.Start, slot.End)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar ID to query")
	cmd.Flags().StringVar(&date, "date", "", "Specific day to search")
	cmd.Flags().StringVar(&startDate, "from", "", "Range start (requires --to)")
	cmd.Flags().StringVar(&endDate, "to", "", "Range end (requires --from)")

	return cmd
}
