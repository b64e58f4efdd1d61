package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available questionnaires",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			headStyle.Fprintf(w, "%-12s  %-28s  %9s  %5s  %-16s  %s\n",
				"ID", "Title", "Questions", "Max", "Direction", "Recheck")
			rule(w, 92)

			for _, a := range c.catalog.All() {
				id := a.ID
				if id == c.catalog.DefaultID() {
					id += "*"
				}
				recheck := "-"
				if a.RecheckDays > 0 {
					recheck = fmt.Sprintf("%dd", a.RecheckDays)
				}
				fmt.Fprintf(w, "%-12s  %-28s  %9d  %5d  %-16s  %s\n",
					id, truncate(a.Title, 28), len(a.Questions), a.MaxScore, a.Scoring.Direction, recheck)
			}

			fmt.Fprintf(w, "\n%d questionnaires (* default)\n", c.catalog.Len())
			return nil
		},
	}
}
