package habit

import (
	"strings"
	"time"
)

// Habit is a periodic goal: Goal completions every Frequency days.
type Habit struct {
	ID        int64
	Name      string
	Frequency int // cycle length in days
	Goal      int // completions per cycle
	Streak    int
	Progress  int
	LastDone  *Date // nil when never completed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns how many completions are still needed this cycle.
func (h Habit) Remaining() int {
	return max(0, h.Goal-h.Progress)
}

// LastDoneString returns the stored date text, or "Never".
func (h Habit) LastDoneString() string {
	if h.LastDone == nil {
		return "Never"
	}
	return h.LastDone.String()
}

// NormalizeName trims and lowercases a habit name for lookup and storage.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
