// Package cmd holds the mindcheck command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/config"
	"github.com/mindcheck/mindcheck/internal/filelock"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/store"
)

// cli carries flag values and what setup derives from them to every
// subcommand.
type cli struct {
	dbFlag     string
	configFlag string
	logLevel   string
	noColor    bool

	cfg     *config.Config
	catalog *assessment.Catalog

	// now is the clock used for streaks and reminders; tests pin it.
	now func() time.Time
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}

	root := &cobra.Command{
		Use:   "mindcheck",
		Short: "Mental-wellness self-check questionnaires in your terminal",
		Long: `mindcheck runs short, well-known self-check questionnaires (GAD-7, PHQ-9,
perceived stress, wellbeing, self-esteem), scores them and keeps your results
in a local SQLite file so you can follow how you are doing over time.

Results are not a diagnosis.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd, nil)
		},
	}

	root.PersistentFlags().StringVar(&c.dbFlag, "db", "", "Path to SQLite database file (overrides MINDCHECK_DB)")
	root.PersistentFlags().StringVar(&c.configFlag, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		newTakeCmd(c),
		newAskCmd(c),
		newListCmd(c),
		newScoreCmd(c),
		newHistoryCmd(c),
		newEventsCmd(c),
		newExportCmd(c),
		newResetCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, starts logging and builds the catalog.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configFlag)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = strings.ToLower(c.logLevel)
	}
	if c.dbFlag != "" {
		cfg.DB = c.dbFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Initialize(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	var extra []assessment.Assessment
	if cfg.Catalog.Dir != "" {
		extra, err = assessment.LoadDir(cfg.Catalog.Dir)
		if err != nil {
			return fmt.Errorf("load catalog dir: %w", err)
		}
	}
	cat, err := assessment.NewBuiltinCatalog(cfg.Catalog.Default, extra...)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	if c.noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	c.cfg = cfg
	c.catalog = cat
	return nil
}

// dbPath returns the database path: --db, then the db config key (which
// MINDCHECK_DB also sets), then the default XDG path.
func (c *cli) dbPath() (string, error) {
	if c.cfg.DB != "" {
		return c.cfg.DB, store.EnsureDir(c.cfg.DB)
	}
	return store.DefaultDBPath()
}

func (c *cli) openStore() (*store.Store, string, error) {
	path, err := c.dbPath()
	if err != nil {
		return nil, "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, path, nil
}

// lockDB takes the lock beside the database at path so only one mindcheck
// process writes to it at a time.
func lockDB(path string) (*filelock.Lock, error) {
	lock := filelock.ForDatabase(path)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("%w (lock file %s)", err, lock.Path())
		}
		return nil, err
	}
	return lock, nil
}

// resolve looks an assessment up honouring catalog.strict. In lenient
// mode an unknown id falls back to the default with a warning on stderr.
func (c *cli) resolve(cmd *cobra.Command, id string) (assessment.Assessment, error) {
	a, err := c.catalog.Resolve(id, c.cfg.Catalog.Strict)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("%w (known: %s)", err, strings.Join(c.catalog.IDs(), ", "))
	}
	if a.ID != id {
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown assessment %q, using %s\n", id, a.ID)
	}
	return a, nil
}

func (c *cli) env(st *store.Store) *screen.Env {
	return &screen.Env{
		Catalog:      c.catalog,
		Results:      st.ResultRepo(),
		Snapshots:    st.SnapshotRepo(),
		Events:       st.EventRepo(),
		Strict:       c.cfg.Catalog.Strict,
		HistoryLimit: c.cfg.History.Limit,
		SnapshotKeep: c.cfg.Snapshot.Keep,
		Now:          c.now,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
