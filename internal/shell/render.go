package shell

import (
	"fmt"
	"io"

	"github.com/sadopc/habitr/internal/habit"
)

// RenderHabits writes the habit listing shown by the View command.
func RenderHabits(w io.Writer, habits []habit.Habit, today habit.Date) {
	if len(habits) == 0 {
		fmt.Fprint(w, "\nNo habits found.\n\n")
		return
	}

	fmt.Fprint(w, "\nYour Habits:\n\n")
	for _, h := range habits {
		fmt.Fprintf(w, "• %s\n", h.Name)
		fmt.Fprintf(w, "   Every %d day(s)\n", h.Frequency)
		fmt.Fprintf(w, "   Goal: %d time(s) per cycle\n", h.Goal)
		fmt.Fprintf(w, "   Streak: %d\n", h.Streak)
		fmt.Fprintf(w, "   Last done: %s\n", h.LastDoneString())
		fmt.Fprintf(w, "   Progress: %d/%d. Remaining: %d\n", h.Progress, h.Goal, h.Remaining())
		fmt.Fprintf(w, "   %s\n\n", cycleLine(habit.StatusOf(h, today)))
	}
}

func cycleLine(s habit.CycleStatus) string {
	switch {
	case !s.Started:
		return "Cycle: not started"
	case s.Lapsed:
		return "Cycle: ended, next completion starts a new one"
	default:
		return fmt.Sprintf("Cycle: %d day(s) left", s.DaysLeft)
	}
}

func renderCurrent(w io.Writer, h habit.Habit) {
	fmt.Fprintln(w, "\nCurrent values:")
	fmt.Fprintf(w, "  name: %s\n", h.Name)
	fmt.Fprintf(w, "  frequency (days): %d\n", h.Frequency)
	fmt.Fprintf(w, "  goal (per cycle): %d\n", h.Goal)
	fmt.Fprintf(w, "  streak: %d\n", h.Streak)
	fmt.Fprintf(w, "  progress: %d\n", h.Progress)
	fmt.Fprintf(w, "  last_done: %s\n", h.LastDoneString())
}
