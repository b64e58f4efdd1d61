package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindcheck/mindcheck/internal/checkin"
	"github.com/mindcheck/mindcheck/internal/store"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var (
		assessmentID string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print stored results, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if assessmentID != "" && !c.catalog.Has(assessmentID) {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %q is not in the current catalog\n", assessmentID)
			}
			if limit <= 0 {
				limit = c.cfg.History.Limit
			}

			st, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			results, err := st.ResultRepo().List(ctx, store.QueryOpts{AssessmentID: assessmentID, Limit: limit})
			if err != nil {
				return fmt.Errorf("list results: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(w, "No results yet. Run `mindcheck` to take a questionnaire.")
				return nil
			}

			headStyle.Fprintf(w, "%-16s  %-28s  %7s  %-20s  %s\n", "Date", "Assessment", "Score", "Level", "Note")
			rule(w, 92)
			for _, r := range results {
				title := r.AssessmentID
				if c.catalog.Has(r.AssessmentID) {
					title = c.catalog.Get(r.AssessmentID).Title
				}
				fmt.Fprintf(w, "%-16s  %-28s  %7s  ",
					r.TakenAt.Local().Format("2006-01-02 15:04"),
					truncate(title, 28),
					fmt.Sprintf("%d/%d", r.TotalScore, r.MaxScore))
				levelColor(r.LevelRank, bandCount(c.catalog, r.AssessmentID)).Fprintf(w, "%-20s", truncate(r.LevelLabel, 20))
				fmt.Fprintf(w, "  %s\n", truncate(r.Note, 30))
			}

			now := c.now()
			sum, err := checkin.Load(ctx, st.ResultRepo(), c.catalog, now)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Streak: %d day(s), best %d. Next milestone: %d.\n",
				sum.Streak.Current, sum.Streak.Longest, checkin.NextMilestone(sum.Streak.Current))
			if due := sum.Due(now); len(due) > 0 {
				titles := make([]string, len(due))
				for i, r := range due {
					titles[i] = r.Title
				}
				fmt.Fprintf(w, "Due for a check-in: %s\n", strings.Join(titles, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assessmentID, "assessment", "", "Only show this assessment")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (default from config)")
	return cmd
}
