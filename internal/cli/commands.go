package cli

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/shell"
	"github.com/spf13/cobra"
)

// userError carries the message shown to the user while keeping the
// underlying error kind for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func describe(err error, name string) error {
	return &userError{msg: habit.ErrorMessage(err, name), err: err}
}

func (a *app) addCommand() *cobra.Command {
	var every, goal int
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.repo.Add(args[0], every, goal)
			if err != nil {
				return describe(err, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' added successfully!\n", h.Name)
			return nil
		},
	}
	cmd.Flags().IntVar(&every, "every", 1, "cycle length in days")
	cmd.Flags().IntVar(&goal, "goal", 1, "completions needed per cycle")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their progress and streaks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			habits, err := a.repo.List()
			if err != nil {
				return describe(err, "")
			}
			shell.RenderHabits(cmd.OutOrStdout(), habits, a.repo.Today())
			return nil
		},
	}
}

func (a *app) doneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done NAME",
		Short: "Record one completion of a habit for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.repo.MarkDone(args[0])
			if err != nil {
				return describe(err, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message())
			return nil
		},
	}
}

func (a *app) editCommand() *cobra.Command {
	var (
		name        string
		every, goal int
	)
	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Change a habit's name, frequency or goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e habit.Edit
			if cmd.Flags().Changed("name") {
				e.Name = &name
			}
			if cmd.Flags().Changed("every") {
				e.Frequency = &every
			}
			if cmd.Flags().Changed("goal") {
				e.Goal = &goal
			}
			if e.Empty() {
				return describe(fmt.Errorf("%w: pass --name, --every or --goal", habit.ErrInvalidInput), args[0])
			}
			h, err := a.repo.Edit(args[0], e)
			if err != nil {
				target := args[0]
				if e.Name != nil {
					target = name
				}
				return describe(err, target)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved '%s': every %d day(s), goal %d, progress %d/%d.\n",
				h.Name, h.Frequency, h.Goal, h.Progress, h.Goal)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVar(&every, "every", 0, "new cycle length in days (resets progress when changed)")
	cmd.Flags().IntVar(&goal, "goal", 0, "new completions per cycle")
	return cmd
}

func (a *app) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a habit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := habit.NormalizeName(args[0])
			n, err := a.repo.Remove(name)
			if err != nil {
				return describe(err, name)
			}
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No habit named '%s'; nothing removed.\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' removed successfully!\n", name)
			return nil
		},
	}
}

func (a *app) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the numbered text menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shell.New(a.repo, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all habits to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			habits, err := a.repo.List()
			if err != nil {
				return describe(err, "")
			}
			path := out
			if path == "" {
				path = filepath.Join(".", fmt.Sprintf("habitr-export-%s.%s", a.repo.Today(), format))
			}
			if format == "csv" {
				err = export.ToCSV(habits, path)
			} else {
				err = export.ToJSON(habits, path)
			}
			if err != nil {
				a.logger.Error("export failed", "format", format, "path", path, "err", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d habit(s) to %s\n", len(habits), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default habitr-export-<date>.<format>)")
	return cmd
}
