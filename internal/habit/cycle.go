package habit

import "fmt"

// Outcome classifies what a mark-done action did, for display.
type Outcome int

const (
	OutcomeStarted Outcome = iota
	OutcomeProgress
	OutcomeGoalReached
	OutcomeAlreadyCompleted
	OutcomeNewCycle
)

var outcomeNames = map[Outcome]string{
	OutcomeStarted:          "started",
	OutcomeProgress:         "progress updated",
	OutcomeGoalReached:      "goal reached this cycle",
	OutcomeAlreadyCompleted: "already completed this cycle",
	OutcomeNewCycle:         "new cycle started",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Cycle holds the counters the engine reads and rewrites.
type Cycle struct {
	Progress int
	Streak   int
	LastDone *Date
}

// Advance applies one completion on today to a habit with the given
// frequency and goal. The same-cycle window is strictly elapsed < frequency
// and slides forward from the most recent completion. Streak only moves at a
// cycle boundary.
func Advance(today Date, frequency, goal int, c Cycle) (Cycle, Outcome, error) {
	if frequency < 1 || goal < 1 {
		return c, 0, fmt.Errorf("%w: frequency=%d goal=%d", ErrInvalidState, frequency, goal)
	}
	if c.Progress < 0 || c.Streak < 0 {
		return c, 0, fmt.Errorf("%w: progress=%d streak=%d", ErrInvalidState, c.Progress, c.Streak)
	}

	done := today
	if c.LastDone == nil {
		return Cycle{Progress: 1, Streak: c.Streak, LastDone: &done}, OutcomeStarted, nil
	}

	elapsed := max(0, today.DaysSince(*c.LastDone))

	if elapsed < frequency {
		next := Cycle{Progress: c.Progress, Streak: c.Streak, LastDone: &done}
		if c.Progress >= goal {
			return next, OutcomeAlreadyCompleted, nil
		}
		next.Progress++
		if next.Progress == goal {
			return next, OutcomeGoalReached, nil
		}
		return next, OutcomeProgress, nil
	}

	streak := 0
	if c.Progress >= goal {
		streak = c.Streak + 1
	}
	return Cycle{Progress: 1, Streak: streak, LastDone: &done}, OutcomeNewCycle, nil
}

// CycleStatus describes where a habit stands on a given day. It is derived
// for display only and never written back.
type CycleStatus struct {
	Started   bool // false when never completed
	Lapsed    bool // the next completion opens a new cycle
	DaysLeft  int  // days before the current window closes; 0 when lapsed
	Remaining int  // completions still needed in the current cycle
	AtRisk    bool // window open, goal not met
}

func StatusOf(h Habit, today Date) CycleStatus {
	if h.LastDone == nil {
		return CycleStatus{Remaining: h.Goal}
	}
	s := CycleStatus{Started: true}
	elapsed := max(0, today.DaysSince(*h.LastDone))
	if elapsed >= h.Frequency {
		s.Lapsed = true
		s.Remaining = h.Goal
		return s
	}
	s.DaysLeft = h.Frequency - elapsed
	s.Remaining = h.Remaining()
	s.AtRisk = s.Remaining > 0
	return s
}
