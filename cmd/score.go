package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/session"
)

func newScoreCmd(c *cli) *cobra.Command {
	var (
		answers string
		save    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "score <assessment>",
		Short: "Score a list of answers without the TUI",
		Long: `Score answers given in question order, e.g.

  mindcheck score gad7 --answers 1,0,2,1,0,1,2

Each value must be one of the question's option values. Use --save to keep
the result in your history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			values, err := parseAnswers(answers)
			if err != nil {
				return err
			}
			at, err := answerAll(a, values)
			if err != nil {
				return err
			}
			res, err := at.Submit()
			if err != nil {
				return err
			}

			if save {
				st, path, err := c.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				lock, err := lockDB(path)
				if err != nil {
					return err
				}
				defer lock.Release()
				if err := saveAttempt(cmd.Context(), st, at, res); err != nil {
					return fmt.Errorf("save result: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(scoreOutput{AttemptID: at.ID(), Saved: save, Result: res})
			}
			printResult(w, a, res)
			if save {
				dimStyle.Fprintf(w, "Saved as %s.\n", at.ID())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answers, "answers", "", "Comma-separated option values in question order (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the result in the history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

type scoreOutput struct {
	AttemptID string                       `json:"attempt_id"`
	Saved     bool                         `json:"saved"`
	Result    scoring.ResultInterpretation `json:"result"`
}

// parseAnswers reads "1,0,2" into option values.
func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("answer %d is empty", i+1)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, p)
		}
		out = append(out, v)
	}
	return out, nil
}

// answerAll walks a new attempt forward, answering one question per value.
// Fewer values than questions leave the attempt incomplete, so Submit
// reports which questions are missing.
func answerAll(a assessment.Assessment, values []int) (*session.Attempt, error) {
	at := session.New(a)
	if len(values) > at.Total() {
		return nil, fmt.Errorf("got %d answers but %s has %d questions", len(values), a.ID, at.Total())
	}
	for i, v := range values {
		if err := at.SelectAnswer(at.Current().ID, v); err != nil {
			return nil, err
		}
		if i < len(values)-1 {
			if err := at.Next(); err != nil {
				return nil, err
			}
		}
	}
	return at, nil
}
