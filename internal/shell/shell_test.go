package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)

func newTestRepo(t *testing.T) *habit.Repository {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return habit.NewRepository(s, habit.WithClock(func() time.Time { return testNow }))
}

func run(t *testing.T, repo *habit.Repository, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(repo, strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	require.NoError(t, sh.Run())
	return out.String()
}

func TestParseCommand(t *testing.T) {
	c, ok := ParseCommand(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, CmdMarkDone, c)

	for _, bad := range []string{"", "0", "7", "x", "-1"} {
		_, ok := ParseCommand(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, "Exit", CmdExit.String())
}

func TestRunExitAndEOF(t *testing.T) {
	repo := newTestRepo(t)
	out := run(t, repo, "6")
	assert.Contains(t, out, "1. Add new habit")
	assert.Contains(t, out, "6. Exit")

	var buf bytes.Buffer
	require.NoError(t, New(repo, strings.NewReader(""), &buf).Run())
}

func TestInvalidChoiceReprompts(t *testing.T) {
	out := run(t, newTestRepo(t), "9", "abc", "6")
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Try again."))
}

func TestAddAndView(t *testing.T) {
	repo := newTestRepo(t)
	out := run(t, repo, "1", " Run ", "three", "3", "2", "2", "6")
	assert.Contains(t, out, "Please enter a positive number.")
	assert.Contains(t, out, "Habit 'run' added successfully!")
	assert.Contains(t, out, "• run")
	assert.Contains(t, out, "Every 3 day(s)")
	assert.Contains(t, out, "Goal: 2 time(s) per cycle")
	assert.Contains(t, out, "Last done: Never")
	assert.Contains(t, out, "Progress: 0/2. Remaining: 2")
}

func TestAddRejectsZero(t *testing.T) {
	repo := newTestRepo(t)
	out := run(t, repo, "1", "run", "0", "1", "6")
	assert.Contains(t, out, "Frequency must be >= 1.")
	habits, _ := repo.List()
	assert.Empty(t, habits)
}

func TestAddDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 1, 1)
	out := run(t, repo, "1", "RUN", "2", "2", "6")
	assert.Contains(t, out, "A habit with the name run already exists.")
}

func TestViewEmpty(t *testing.T) {
	out := run(t, newTestRepo(t), "2", "6")
	assert.Contains(t, out, "No habits found.")
}

func TestMarkDoneFlow(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 2)
	out := run(t, repo, "3", "run", "3", "Run", "3", "run", "6")
	assert.Contains(t, out, "Habit 'run' started: 1/2")
	assert.Contains(t, out, "Habit run goal reached for this cycle!")
	assert.Contains(t, out, "Habit run already completed this cycle")
	assert.Equal(t, 3, strings.Count(out, "Update saved."))

	h, err := repo.Get("run")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Progress)
	assert.Equal(t, "2024-03-01", h.LastDoneString())
}

func TestMarkDoneNotFound(t *testing.T) {
	out := run(t, newTestRepo(t), "3", "ghost", "6")
	assert.Contains(t, out, "Habit 'ghost' not found. :(")
	assert.NotContains(t, out, "Update saved.")
}

func TestRemove(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 2)
	out := run(t, repo, "5", "nothing", "5", "run", "6")
	assert.Contains(t, out, "No habit named 'nothing'; nothing removed.")
	assert.Contains(t, out, "Habit 'run' removed successfully!")
	habits, _ := repo.List()
	assert.Empty(t, habits)
}

func TestEditSave(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 2)
	repo.MarkDone("run")

	out := run(t, repo, "4", "run", "1", "Jog", "2", "7", "3", "1", "4", "6")
	assert.Contains(t, out, "Saved.")

	h, err := repo.Get("jog")
	require.NoError(t, err)
	assert.Equal(t, 7, h.Frequency)
	assert.Equal(t, 1, h.Goal)
	assert.Equal(t, 0, h.Progress)
}

func TestEditSaveKeepsDraftProgress(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 7, 3)
	repo.MarkDone("run")
	repo.MarkDone("run")

	// goal 3 -> 1 clamps the draft to 1; raising it to 5 keeps 1
	out := run(t, repo, "4", "run", "3", "1", "3", "5", "4", "6")
	assert.Contains(t, out, "Saved.")

	h, err := repo.Get("run")
	require.NoError(t, err)
	assert.Equal(t, 5, h.Goal)
	assert.Equal(t, 1, h.Progress)
}

func TestEditSaveFrequencyRoundTripResetsProgress(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 3)
	repo.MarkDone("run")
	repo.MarkDone("run")

	run(t, repo, "4", "run", "2", "7", "2", "3", "4", "6")

	h, err := repo.Get("run")
	require.NoError(t, err)
	assert.Equal(t, 3, h.Frequency)
	assert.Equal(t, 0, h.Progress)
}

func TestEditDiscard(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 2)
	out := run(t, repo, "4", "run", "2", "9", "5", "6")
	assert.Contains(t, out, "No changes saved.")
	h, _ := repo.Get("run")
	assert.Equal(t, 3, h.Frequency)
}

func TestEditRejectsTakenNameAndBadValues(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("run", 3, 2)
	repo.Add("swim", 7, 1)
	out := run(t, repo, "4", "run", "1", "swim", "3", "0", "8", "5", "6")
	assert.Contains(t, out, "That name already exists. Choose another.")
	assert.Contains(t, out, "Goal must be >= 1.")
	assert.Contains(t, out, "Invalid choice. Select 1-5.")
}

func TestEditNotFound(t *testing.T) {
	out := run(t, newTestRepo(t), "4", "ghost", "6")
	assert.Contains(t, out, "Habit 'ghost' not found. :(")
}

func TestRenderHabitsCycleLine(t *testing.T) {
	d := habit.NewDate(2024, time.March, 1)
	habits := []habit.Habit{
		{Name: "a", Frequency: 3, Goal: 1},
		{Name: "b", Frequency: 3, Goal: 2, Progress: 1, LastDone: &d},
	}
	var buf bytes.Buffer
	RenderHabits(&buf, habits, d.AddDays(1))
	out := buf.String()
	assert.Contains(t, out, "Cycle: not started")
	assert.Contains(t, out, "Cycle: 2 day(s) left")

	buf.Reset()
	RenderHabits(&buf, habits[1:], d.AddDays(4))
	assert.Contains(t, buf.String(), "Cycle: ended")
}

func TestOversizedLineDoesNotEndMenu(t *testing.T) {
	repo := newTestRepo(t)
	long := strings.Repeat("a", 200*1024)

	out := run(t, repo, long, "1", long, "1", "1", "6")
	assert.Contains(t, out, "Invalid choice. Try again.")
	assert.Contains(t, out, "Name must be at most 64 characters.")

	habits, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, habits)
}
