package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
)

var errInputClosed = errors.New("input closed before the questionnaire was finished")

func newAskCmd(c *cli) *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "ask <assessment>",
		Short: "Answer a questionnaire line by line, without the TUI",
		Long: `Ask the questions one at a time on plain standard input and output.

Type the number of an option to answer, press Enter to keep the current
answer, b to go back and q to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.resolve(cmd, args[0])
			if err != nil {
				return err
			}

			var st *store.Store
			if !noSave {
				var path string
				st, path, err = c.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				lock, err := lockDB(path)
				if err != nil {
					return err
				}
				defer lock.Release()
			}
			return runAsk(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a, st)
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not store the result")
	return cmd
}

// runAsk drives one attempt from line input. st may be nil, in which case
// nothing is recorded.
func runAsk(ctx context.Context, in io.Reader, out io.Writer, a assessment.Assessment, st *store.Store) error {
	at := session.New(a)
	record := func(action string) {
		if st == nil {
			return
		}
		err := st.EventRepo().AppendSessionEvent(ctx, store.SessionEventData{
			AttemptID:    at.ID(),
			AssessmentID: a.ID,
			Action:       action,
			Answered:     at.AnsweredCount(),
		})
		if err != nil {
			logger.Get().Warn("append session event", zap.String("action", action), zap.Error(err))
		}
	}
	record(store.ActionStart)

	headStyle.Fprintln(out, a.Title)
	if a.Description != "" {
		fmt.Fprintln(out, a.Description)
	}
	dimStyle.Fprintf(out, "%d questions. Number to answer, Enter to keep, b back, q stop.\n\n", at.Total())

	scanner := bufio.NewScanner(in)
	for {
		q := at.Current()
		chosen, answered := at.Selected()

		fmt.Fprintf(out, "── Question %d/%d ──\n", at.Index()+1, at.Total())
		fmt.Fprintln(out, q.Text)
		for j, o := range q.Options {
			mark := ""
			if answered && o.Value == chosen {
				mark = " ✓"
			}
			fmt.Fprintf(out, "  %d) %s%s\n", j+1, o.Text, mark)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			record(store.ActionAbandon)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return errInputClosed
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "q":
			record(store.ActionAbandon)
			fmt.Fprintln(out, "Stopped. Nothing was saved.")
			return nil
		case "b":
			_ = at.Previous()
			fmt.Fprintln(out)
			continue
		case "":
			// keep the current answer
		default:
			n, err := strconv.Atoi(input)
			if err != nil {
				alertText.Fprintf(out, "Please type a number between 1 and %d.\n\n", len(q.Options))
				continue
			}
			if err := at.SelectOption(n - 1); err != nil {
				alertText.Fprintf(out, "%v\n\n", err)
				continue
			}
		}

		if at.IsLast() && at.Complete() {
			break
		}
		if err := at.Next(); err != nil {
			alertText.Fprintf(out, "%v\n\n", err)
			continue
		}
		fmt.Fprintln(out)
	}

	res, err := at.Submit()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printResult(out, a, res)

	if st != nil {
		if err := saveAttempt(ctx, st, at, res); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		dimStyle.Fprintln(out, "Saved to your history.")
	}
	return nil
}
