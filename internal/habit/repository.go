package habit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Store is the persistence contract the repository needs. Names passed in
// are already normalized. Mutate must run lookup, fn and the write-back as
// one atomic unit; if fn returns an error nothing is written.
type Store interface {
	Get(name string) (*Habit, error)
	Insert(h Habit) (*Habit, error)
	Mutate(name string, fn func(h *Habit) error) (*Habit, error)
	Delete(name string) (int64, error)
	List() ([]Habit, error)
}

// Result is what a mark-done action reports back.
type Result struct {
	Habit    Habit
	Outcome  Outcome
	Previous Cycle
}

type Repository struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Repository)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

func NewRepository(s Store, opts ...Option) *Repository {
	r := &Repository{
		store:  s,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today is the local calendar date according to the repository clock.
func (r *Repository) Today() Date {
	return DateOf(r.now())
}

func (r *Repository) Add(name string, frequency, goal int) (*Habit, error) {
	in, err := NewHabit{Name: name, Frequency: frequency, Goal: goal}.Validate()
	if err != nil {
		return nil, err
	}
	h, err := r.store.Insert(Habit{Name: in.Name, Frequency: in.Frequency, Goal: in.Goal})
	if err != nil {
		r.logFailure("add", in.Name, err)
		return nil, fmt.Errorf("add %q: %w", in.Name, err)
	}
	r.logger.Debug("habit added", "name", h.Name, "id", h.ID, "frequency", h.Frequency, "goal", h.Goal)
	return h, nil
}

func (r *Repository) Get(name string) (*Habit, error) {
	h, err := r.store.Get(NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", NormalizeName(name), err)
	}
	return h, nil
}

func (r *Repository) List() ([]Habit, error) {
	habits, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// MarkDone records one completion today.
func (r *Repository) MarkDone(name string) (*Result, error) {
	return r.MarkDoneOn(name, r.Today())
}

// MarkDoneOn records one completion on the given date.
func (r *Repository) MarkDoneOn(name string, today Date) (*Result, error) {
	name = NormalizeName(name)
	var res Result
	h, err := r.store.Mutate(name, func(h *Habit) error {
		prev := Cycle{Progress: h.Progress, Streak: h.Streak, LastDone: h.LastDone}
		next, outcome, err := Advance(today, h.Frequency, h.Goal, prev)
		if err != nil {
			return err
		}
		h.Progress, h.Streak, h.LastDone = next.Progress, next.Streak, next.LastDone
		res.Outcome, res.Previous = outcome, prev
		return nil
	})
	if err != nil {
		r.logFailure("mark done", name, err)
		return nil, fmt.Errorf("mark done %q: %w", name, err)
	}
	res.Habit = *h
	r.logger.Debug("habit marked done",
		"name", name, "outcome", res.Outcome.String(),
		"progress", h.Progress, "streak", h.Streak, "last_done", h.LastDoneString(),
		"prev_progress", res.Previous.Progress, "prev_streak", res.Previous.Streak)
	return &res, nil
}

// Edit applies field changes under the same rules as Add.
func (r *Repository) Edit(name string, e Edit) (*Habit, error) {
	name = NormalizeName(name)
	h, err := r.store.Mutate(name, func(h *Habit) error {
		next, err := ApplyEdit(*h, e)
		if err != nil {
			return err
		}
		*h = next
		return nil
	})
	if err != nil {
		r.logFailure("edit", name, err)
		return nil, fmt.Errorf("edit %q: %w", name, err)
	}
	r.logger.Debug("habit edited", "name", name, "new_name", h.Name,
		"frequency", h.Frequency, "goal", h.Goal, "progress", h.Progress)
	return h, nil
}

// Remove deletes a habit. Removing an absent habit is not an error; the
// returned count is zero.
func (r *Repository) Remove(name string) (int64, error) {
	name = NormalizeName(name)
	n, err := r.store.Delete(name)
	if err != nil {
		r.logFailure("remove", name, err)
		return 0, fmt.Errorf("remove %q: %w", name, err)
	}
	r.logger.Debug("habit removed", "name", name, "rows", n)
	return n, nil
}

func (r *Repository) logFailure(op, name string, err error) {
	level := slog.LevelError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrInvalidInput) {
		level = slog.LevelInfo
	}
	r.logger.Log(context.Background(), level, op+" failed", "name", name, "err", err)
}
