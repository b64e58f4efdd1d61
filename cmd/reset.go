package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/filelock"
	"github.com/mindcheck/mindcheck/internal/logger"
)

func newResetCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored results, saved attempts and events",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, path, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			lock := filelock.ForDatabase(path)
			if err := lock.Acquire(); err != nil {
				if errors.Is(err, filelock.ErrLocked) {
					return fmt.Errorf("%w; close it before resetting", err)
				}
				return err
			}
			defer lock.Release()

			ctx := cmd.Context()
			count, err := st.ResultRepo().Count(ctx)
			if err != nil {
				return fmt.Errorf("count results: %w", err)
			}

			w := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(w, "Delete %d result(s), saved attempts and events from %s? This cannot be undone. [y/N]: ", count, path)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "y", "yes":
				default:
					fmt.Fprintln(w, "Cancelled.")
					return nil
				}
			}

			if err := st.Reset(ctx); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			logger.Get().Info("data reset", zap.String("db", path), zap.Int("results", count))
			fmt.Fprintln(w, "All data deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
