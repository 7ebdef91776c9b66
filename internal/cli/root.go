package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/shell"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tui"
	"github.com/spf13/cobra"
)

// app carries the state shared by every command: flags, the loaded config
// and the open repository.
type app struct {
	configPath string
	dbPath     string
	backend    string

	now func() time.Time // nil means the wall clock

	cfg     config.Config
	logger  *slog.Logger
	repo    *habit.Repository
	closers []io.Closer
}

type habitStore interface {
	habit.Store
	io.Closer
}

// Execute runs the habitr command tree against os.Args.
func Execute() error {
	a := &app{}
	defer a.close()
	return newRootCommand(a).Execute()
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "habitr",
		Short: "Track recurring habits, their cycles and streaks",
		Long: `habitr keeps a list of habits, each with a cycle length in days and a
goal of completions per cycle. Meeting the goal in consecutive cycles
builds a streak.

Run without a subcommand for the interactive interface.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.NoArgs,
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return a.open() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.close() },
		RunE:               a.runInteractive,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/habitr/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path, overrides db_path")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "storage backend: sqlite or badger")

	root.AddCommand(
		a.addCommand(),
		a.listCommand(),
		a.doneCommand(),
		a.editCommand(),
		a.removeCommand(),
		a.menuCommand(),
		a.exportCommand(),
	)
	return root
}

// open loads the config, applies flag overrides and opens the store.
func (a *app) open() error {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, logFile, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, logFile)

	s, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("open store failed", "backend", cfg.Backend, "err", err)
		return err
	}
	a.closers = append(a.closers, s)

	opts := []habit.Option{habit.WithLogger(logger)}
	if a.now != nil {
		opts = append(opts, habit.WithClock(a.now))
	}
	a.repo = habit.NewRepository(s, opts...)
	return nil
}

func openStore(cfg config.Config, logger *slog.Logger) (habitStore, error) {
	path := cfg.ResolvedDBPath()
	switch cfg.Backend {
	case config.BackendBadger:
		return store.OpenBadger(path, store.WithLogger(logger))
	default:
		return store.New(path, store.WithLogger(logger))
	}
}

// close releases the store and then the log file. Safe to call twice.
func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	if !a.useTUI() {
		return shell.New(a.repo, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
	}
	a.logger.Debug("starting tui")
	p := tea.NewProgram(tui.NewApp(a.repo), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func (a *app) useTUI() bool {
	switch a.cfg.Interface {
	case config.InterfaceMenu:
		return false
	case config.InterfaceTUI:
		return true
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
