package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/store"
)

var testNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *habit.Repository {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return habit.NewRepository(s, habit.WithClock(func() time.Time { return testNow }))
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, repo *habit.Repository) habitsDataMsg {
	t.Helper()
	msg, ok := loadHabits(repo)().(habitsDataMsg)
	if !ok {
		t.Fatal("loadHabits should produce habitsDataMsg")
	}
	if msg.err != nil {
		t.Fatal(msg.err)
	}
	return msg
}

func daysAgo(n int) *habit.Date {
	d := habit.DateOf(testNow).AddDays(-n)
	return &d
}

// ============================================================
// Helpers
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"read", 10, "read"},
		{"meditation", 5, "medi…"},
		{"ab", 1, "a"},
		{"çalışmak", 4, "çal…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "day", "days") != "day" {
		t.Fatal("1 should be singular")
	}
	if plural(0, "day", "days") != "days" || plural(3, "day", "days") != "days" {
		t.Fatal("0 and 3 should be plural")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 view names, got %d", len(viewNames))
	}
	expected := []string{"Today", "Habits", "Streaks"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewToday != 0 || viewHabits != 1 || viewStreaks != 2 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Commands
// ============================================================

func TestLoadHabits(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)
	repo.Add("gym", 2, 3)

	msg := loaded(t, repo)
	if len(msg.habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(msg.habits))
	}
	if msg.habits[0].Name != "gym" {
		t.Fatal("habits should be ordered by name")
	}
	if msg.today.String() != "2024-03-10" {
		t.Fatalf("today = %s", msg.today)
	}
}

func TestMarkDoneCmd(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 2)

	msg := markDone(repo, "read")()
	changed, ok := msg.(habitChangedMsg)
	if !ok {
		t.Fatalf("expected habitChangedMsg, got %T", msg)
	}
	if changed.text != "Habit 'read' started: 1/2" {
		t.Fatalf("unexpected text %q", changed.text)
	}
}

func TestMarkDoneCmdNotFound(t *testing.T) {
	repo := newTestRepo(t)

	msg := markDone(repo, "ghost")()
	st, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if !st.isError || !strings.Contains(st.text, "not found") {
		t.Fatalf("unexpected status %+v", st)
	}
}

// ============================================================
// Today view
// ============================================================

func TestTodayCounts(t *testing.T) {
	m := todayModel{
		today: habit.DateOf(testNow),
		habits: []habit.Habit{
			{Name: "new", Frequency: 1, Goal: 1},
			{Name: "met", Frequency: 3, Goal: 1, Progress: 1, LastDone: daysAgo(1)},
			{Name: "risk", Frequency: 3, Goal: 2, Progress: 1, LastDone: daysAgo(0)},
			{Name: "gone", Frequency: 2, Goal: 1, Progress: 1, LastDone: daysAgo(5)},
		},
	}
	due, done, lapsed := m.counts()
	if due != 2 || done != 1 || lapsed != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", due, done, lapsed)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status habit.CycleStatus
		want   string
	}{
		{habit.CycleStatus{Remaining: 1}, "not started"},
		{habit.CycleStatus{Started: true, Lapsed: true, Remaining: 1}, "cycle ended"},
		{habit.CycleStatus{Started: true, DaysLeft: 1, Remaining: 2, AtRisk: true}, "2 to go, 1 day left"},
		{habit.CycleStatus{Started: true, DaysLeft: 3}, "goal met, 3 days left"},
	}
	for _, tt := range tests {
		_, detail := statusText(tt.status)
		if !strings.Contains(detail, tt.want) {
			t.Errorf("statusText(%+v) = %q, want %q", tt.status, detail, tt.want)
		}
	}
}

func TestTodayCursorClampedOnReload(t *testing.T) {
	repo := newTestRepo(t)
	m := newTodayModel(repo)
	m.setData(habitsDataMsg{habits: []habit.Habit{{Name: "a"}, {Name: "b"}, {Name: "c"}}})
	m.cursor = 2

	m.setData(habitsDataMsg{habits: []habit.Habit{{Name: "a"}}})
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
}

func TestTodayMarkDoneKey(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)
	repo.Add("walk", 1, 1)

	m := newTodayModel(repo)
	m.setData(loaded(t, repo))
	m, _ = m.update(keyPress("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	_, cmd := m.update(keyPress("m"))
	if cmd == nil {
		t.Fatal("mark done key should return a command")
	}
	cmd()

	h, err := repo.Get("walk")
	if err != nil {
		t.Fatal(err)
	}
	if h.Progress != 1 || h.LastDone == nil {
		t.Fatalf("walk not marked done: %+v", h)
	}
}

func TestTodayViewEmpty(t *testing.T) {
	m := newTodayModel(newTestRepo(t))
	m.setSize(100, 30)
	if !strings.Contains(m.view(), "No habits yet") {
		t.Fatal("empty today view should prompt to create a habit")
	}
}

// ============================================================
// Habits view
// ============================================================

func TestHabitsShowAddForm(t *testing.T) {
	m := newHabitsModel(newTestRepo(t))
	m.setSize(100, 30)

	m, _ = m.update(keyPress("n"))
	if !m.formActive || m.formType != formAdd {
		t.Fatal("n should open the add form")
	}
	if *m.formFrequency != "1" || *m.formGoal != "1" {
		t.Fatal("add form should default frequency and goal to 1")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestHabitsEditFormPrefilled(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("gym", 2, 3)

	m := newHabitsModel(repo)
	m.setData(loaded(t, repo))
	m, _ = m.update(keyPress("e"))

	if !m.formActive || m.formType != formEdit {
		t.Fatal("e should open the edit form")
	}
	if *m.formName != "gym" || *m.formFrequency != "2" || *m.formGoal != "3" {
		t.Fatalf("edit form not prefilled: %q %q %q", *m.formName, *m.formFrequency, *m.formGoal)
	}
}

func TestHabitsEditWithoutSelection(t *testing.T) {
	m := newHabitsModel(newTestRepo(t))
	m, cmd := m.update(keyPress("e"))
	if m.formActive || cmd != nil {
		t.Fatal("edit with no habits should do nothing")
	}
}

func TestHabitsSubmitAdd(t *testing.T) {
	repo := newTestRepo(t)
	m := newHabitsModel(repo)
	m.formType = formAdd
	*m.formName = "  Read  "
	*m.formFrequency = "2"
	*m.formGoal = " 3 "

	msg := m.submit()()
	if _, ok := msg.(habitChangedMsg); !ok {
		t.Fatalf("expected habitChangedMsg, got %#v", msg)
	}

	h, err := repo.Get("read")
	if err != nil {
		t.Fatal(err)
	}
	if h.Frequency != 2 || h.Goal != 3 {
		t.Fatalf("unexpected habit %+v", h)
	}
}

func TestHabitsSubmitAddDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)

	m := newHabitsModel(repo)
	m.formType = formAdd
	*m.formName = "read"
	*m.formFrequency = "1"
	*m.formGoal = "1"

	st, ok := m.submit()().(statusMsg)
	if !ok || !st.isError {
		t.Fatal("duplicate add should report an error status")
	}
	if !strings.Contains(st.text, "already exists") {
		t.Fatalf("unexpected text %q", st.text)
	}
}

func TestHabitsSubmitEdit(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 2)
	repo.MarkDone("read")

	m := newHabitsModel(repo)
	m.formType = formEdit
	m.editingName = "read"
	*m.formName = "reading"
	*m.formFrequency = "1"
	*m.formGoal = "2"

	if _, ok := m.submit()().(habitChangedMsg); !ok {
		t.Fatal("edit should succeed")
	}
	h, err := repo.Get("reading")
	if err != nil {
		t.Fatal(err)
	}
	if h.Progress != 1 {
		t.Fatalf("unchanged frequency should keep progress, got %d", h.Progress)
	}
}

func TestHabitsSubmitRemove(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)

	m := newHabitsModel(repo)
	m.formType = formRemove
	m.editingName = "read"

	*m.formConfirm = false
	if st, ok := m.submit()().(statusMsg); !ok || st.isError {
		t.Fatal("declined removal should be a plain status")
	}
	if _, err := repo.Get("read"); err != nil {
		t.Fatal("declined removal should keep the habit")
	}

	*m.formConfirm = true
	if _, ok := m.submit()().(habitChangedMsg); !ok {
		t.Fatal("confirmed removal should succeed")
	}
	if _, err := repo.Get("read"); err == nil {
		t.Fatal("habit should be gone")
	}
}

func TestHabitsRenderList(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 3, 2)
	repo.MarkDone("read")

	m := newHabitsModel(repo)
	m.setSize(120, 30)
	m.setData(loaded(t, repo))

	out := m.view()
	for _, want := range []string{"read", "3d", "1/2", "2024-03-10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q:\n%s", want, out)
		}
	}
}

func TestValidatePositive(t *testing.T) {
	v := validatePositive("goal")
	for _, ok := range []string{"1", " 7 ", "30"} {
		if err := v(ok); err != nil {
			t.Errorf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "-2", "abc", "1.5"} {
		if err := v(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := validateName("read"); err != nil {
		t.Fatal(err)
	}
	if err := validateName("   "); err == nil {
		t.Fatal("blank name should be rejected")
	}
}

// ============================================================
// Streaks view
// ============================================================

func TestStreaksBest(t *testing.T) {
	m := newStreaksModel()
	if _, ok := m.best(); ok {
		t.Fatal("no best habit without data")
	}

	m.setData(habitsDataMsg{habits: []habit.Habit{
		{Name: "a", Streak: 2},
		{Name: "b", Streak: 9},
		{Name: "c", Streak: 4},
	}})
	top, ok := m.best()
	if !ok || top.Name != "b" {
		t.Fatalf("best = %+v, want b", top)
	}
}

func TestStreaksView(t *testing.T) {
	m := newStreaksModel()
	m.setSize(100, 30)
	if !strings.Contains(m.view(), "No habits yet") {
		t.Fatal("empty streaks view should say so")
	}

	m.setData(habitsDataMsg{habits: []habit.Habit{
		{Name: "read", Streak: 5, Progress: 1, Goal: 1},
	}})
	out := m.view()
	if !strings.Contains(out, "best: read (5)") {
		t.Fatalf("streaks view missing best line:\n%s", out)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(newTestRepo(t))

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestRepo(t))
	// Width 0 means not yet sized
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(newTestRepo(t))
	app.width = 120
	app.height = 40

	for _, v := range []viewState{viewToday, viewHabits, viewStreaks} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := NewApp(newTestRepo(t))
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := NewApp(newTestRepo(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppTabSwitching(t *testing.T) {
	app := NewApp(newTestRepo(t))

	model, cmd := app.Update(keyPress("3"))
	app = model.(App)
	if app.activeView != viewStreaks {
		t.Fatal("3 should switch to streaks")
	}
	if cmd == nil {
		t.Fatal("switching tabs should reload habits")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(App).activeView != viewToday {
		t.Fatal("tab should wrap around to today")
	}
}

func TestAppRoutesHabitsData(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)

	app := NewApp(repo)
	model, _ := app.Update(loaded(t, repo))
	app = model.(App)

	if len(app.today.habits) != 1 || len(app.habits.habits) != 1 || len(app.streaks.habits) != 1 {
		t.Fatal("habits data should reach every view")
	}
}

func TestAppHabitChangedReloads(t *testing.T) {
	app := NewApp(newTestRepo(t))

	model, cmd := app.Update(habitChangedMsg{text: "saved"})
	app = model.(App)
	if app.status != "saved" || app.isErr {
		t.Fatalf("unexpected status %q (err=%v)", app.status, app.isErr)
	}
	if cmd == nil {
		t.Fatal("a change should trigger a reload")
	}
}

func TestAppExport(t *testing.T) {
	repo := newTestRepo(t)
	repo.Add("read", 1, 1)

	app := NewApp(repo)
	app.exportDir = t.TempDir()

	model, _ := app.Update(keyPress("x"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("x should open the export picker")
	}

	model, _ = app.Update(keyPress("j"))
	app = model.(App)
	if app.exportCursor != 1 {
		t.Fatal("down should move to JSON")
	}

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and start the export")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("export should finish with exportDoneMsg")
	}
	if !strings.HasSuffix(done.path, "habitr-export-2024-03-10.json") {
		t.Fatalf("unexpected export path %q", done.path)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	groups := keys.FullHelp()
	if len(groups) != 3 {
		t.Fatalf("expected 3 help groups, got %d", len(groups))
	}
}
