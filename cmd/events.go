package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mindcheck/mindcheck/internal/store"
)

func newEventsCmd(c *cli) *cobra.Command {
	var (
		assessmentID string
		after        int64
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List attempt lifecycle events (start, resume, submit, abandon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{
				AssessmentID: assessmentID,
				After:        after,
				Limit:        limit,
			})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(w, "No events found.")
				return nil
			}

			headStyle.Fprintf(w, "%-5s  %-19s  %-8s  %-12s  %-8s  %8s  %5s\n",
				"Seq", "Timestamp", "Action", "Assessment", "Attempt", "Answered", "Score")
			rule(w, 78)
			for _, e := range events {
				score := "-"
				if e.TotalScore != nil {
					score = strconv.Itoa(*e.TotalScore)
				}
				fmt.Fprintf(w, "%-5d  %-19s  %-8s  %-12s  %-8s  %8d  %5s\n",
					e.Sequence,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Action,
					e.AssessmentID,
					truncate(e.AttemptID, 8),
					e.Answered,
					score,
				)
			}
			if limit > 0 && len(events) == limit {
				dimStyle.Fprintf(w, "\nMore may follow: --after %d\n", events[len(events)-1].Sequence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assessmentID, "assessment", "", "Only show this assessment")
	cmd.Flags().Int64Var(&after, "after", 0, "Only events with a sequence number above this")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events")
	return cmd
}
