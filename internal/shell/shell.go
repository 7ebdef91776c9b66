// Package shell implements the numbered text menu front end.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sadopc/habitr/internal/habit"
)

// Shell reads menu choices from in and writes prompts and results to out.
type Shell struct {
	repo *habit.Repository
	in   *bufio.Reader
	out  io.Writer
}

func New(repo *habit.Repository, in io.Reader, out io.Writer) *Shell {
	return &Shell{repo: repo, in: bufio.NewReader(in), out: out}
}

// Run loops over the main menu until Exit or end of input.
func (s *Shell) Run() error {
	for {
		s.printMenu()
		line, err := s.readLine("Choose: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		cmd, ok := ParseCommand(line)
		if !ok {
			fmt.Fprint(s.out, "Invalid choice. Try again.\n\n")
			continue
		}
		exit, err := s.Dispatch(cmd)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

func (s *Shell) printMenu() {
	for c := CmdAdd; c <= CmdExit; c++ {
		fmt.Fprintf(s.out, "%d. %s\n", int(c), c)
	}
}

// Dispatch runs one command. Operation failures are reported to the user
// and swallowed; only input errors are returned.
func (s *Shell) Dispatch(cmd Command) (exit bool, err error) {
	switch cmd {
	case CmdAdd:
		return false, s.add()
	case CmdView:
		return false, s.view()
	case CmdMarkDone:
		return false, s.markDone()
	case CmdEdit:
		return false, s.edit()
	case CmdRemove:
		return false, s.remove()
	case CmdExit:
		return true, nil
	}
	return false, fmt.Errorf("unknown command %d", int(cmd))
}

func (s *Shell) add() error {
	name, err := s.readName("Enter habit name: ")
	if err != nil {
		return err
	}
	frequency, err := s.readInt("Enter frequency in days: ")
	if err != nil {
		return err
	}
	goal, err := s.readInt("Enter your goal (times per cycle): ")
	if err != nil {
		return err
	}
	h, err := s.repo.Add(name, frequency, goal)
	if err != nil {
		s.report(err, name)
		return nil
	}
	fmt.Fprintf(s.out, "Habit '%s' added successfully!\n\n", h.Name)
	return nil
}

func (s *Shell) view() error {
	habits, err := s.repo.List()
	if err != nil {
		s.report(err, "")
		return nil
	}
	RenderHabits(s.out, habits, s.repo.Today())
	return nil
}

func (s *Shell) markDone() error {
	name, err := s.readName("Enter habit name: ")
	if err != nil {
		return err
	}
	res, err := s.repo.MarkDone(name)
	if err != nil {
		s.report(err, name)
		return nil
	}
	fmt.Fprintln(s.out, res.Message())
	fmt.Fprint(s.out, "Update saved.\n\n")
	return nil
}

func (s *Shell) remove() error {
	name, err := s.readName("Enter habit name: ")
	if err != nil {
		return err
	}
	n, err := s.repo.Remove(name)
	if err != nil {
		s.report(err, name)
		return nil
	}
	if n == 0 {
		fmt.Fprintf(s.out, "No habit named '%s'; nothing removed.\n\n", name)
		return nil
	}
	fmt.Fprintf(s.out, "Habit '%s' removed successfully!\n\n", name)
	return nil
}

// edit runs the edit sub-menu. Changes accumulate in a draft and are only
// written on save.
func (s *Shell) edit() error {
	name, err := s.readName("Enter habit name: ")
	if err != nil {
		return err
	}
	current, err := s.repo.Get(name)
	if err != nil {
		s.report(err, name)
		return nil
	}

	var pending habit.Edit
	draft := *current
	for {
		renderCurrent(s.out, draft)
		fmt.Fprint(s.out, "\nEdit:\n1. name\n2. frequency\n3. goal\n4. save and exit\n5. discard and exit\n")
		choice, err := s.readInt("Choose: ")
		if err != nil {
			return err
		}

		var change habit.Edit
		switch editChoice(choice) {
		case editName:
			v, err := s.readName("Enter new name: ")
			if err != nil {
				return err
			}
			change.Name = &v
		case editFrequency:
			v, err := s.readInt("Enter new frequency (days >= 1): ")
			if err != nil {
				return err
			}
			change.Frequency = &v
		case editGoal:
			v, err := s.readInt("Enter new goal (>= 1): ")
			if err != nil {
				return err
			}
			change.Goal = &v
		case editSave:
			if pending.Empty() {
				fmt.Fprint(s.out, "Nothing to save.\n\n")
				return nil
			}
			// Save the draft as shown, including the progress earlier
			// steps left behind.
			progress := draft.Progress
			pending.Progress = &progress
			if _, err := s.repo.Edit(current.Name, pending); err != nil {
				s.report(err, draftName(pending, current.Name))
				continue
			}
			fmt.Fprint(s.out, "Saved.\n\n")
			return nil
		case editDiscard:
			fmt.Fprint(s.out, "No changes saved.\n\n")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Select 1-5.")
			continue
		}

		next, err := habit.ApplyEdit(draft, change)
		if err != nil {
			s.report(err, draft.Name)
			continue
		}
		if change.Name != nil && next.Name != current.Name {
			if _, err := s.repo.Get(next.Name); err == nil {
				fmt.Fprintln(s.out, "That name already exists. Choose another.")
				continue
			}
		}
		draft = next
		pending = pending.Merge(change)
	}
}

func draftName(e habit.Edit, fallback string) string {
	if e.Name != nil {
		return *e.Name
	}
	return fallback
}

func (s *Shell) report(err error, name string) {
	fmt.Fprintln(s.out, habit.ErrorMessage(err, name))
	fmt.Fprintln(s.out)
}

func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	// ReadString has no line length limit, so oversized input reaches the
	// normal validation instead of aborting the menu.
	line, err := s.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) readName(prompt string) (string, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return "", err
	}
	return habit.NormalizeName(line), nil
}

// readInt re-prompts until the user enters a non-negative integer.
func (s *Shell) readInt(prompt string) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if isDigits(line) {
			if n, err := strconv.Atoi(line); err == nil {
				return n, nil
			}
		}
		fmt.Fprintln(s.out, "Please enter a positive number.")
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
