package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/habitr/internal/habit"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const habitColumns = `id, name, frequency, goal, streak, progress, last_done, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanHabit(row rowScanner) (habit.Habit, error) {
	var h habit.Habit
	var lastDone sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.Name, &h.Frequency, &h.Goal, &h.Streak, &h.Progress, &lastDone, &createdAt, &updatedAt); err != nil {
		return h, err
	}
	h.LastDone = parseLastDone(s.logger, h.Name, lastDone)
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return h, nil
}

func (s *Store) Get(name string) (*habit.Habit, error) {
	h, err := s.scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("get habit %q: %w", name, mapErr(err))
	}
	return &h, nil
}

func (s *Store) Insert(h habit.Habit) (*habit.Habit, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO habits (name, frequency, goal, streak, progress, last_done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, h.Frequency, h.Goal, h.Streak, h.Progress, formatLastDone(h.LastDone), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", mapErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	created, err := s.scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get habit %d: %w", id, mapErr(err))
	}
	return &created, nil
}

// Mutate loads the habit, lets fn change it, and writes it back by id in a
// single transaction. Nothing is written if fn fails.
func (s *Store) Mutate(name string, fn func(h *habit.Habit) error) (*habit.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	h, err := s.scanHabit(tx.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("get habit %q: %w", name, mapErr(err))
	}
	id := h.ID
	if err := fn(&h); err != nil {
		return nil, err
	}
	h.ID = id
	h.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := updateHabit(tx, h); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &h, nil
}

func updateHabit(tx *sql.Tx, h habit.Habit) error {
	res, err := tx.Exec(
		`UPDATE habits SET name = ?, frequency = ?, goal = ?, streak = ?, progress = ?, last_done = ?, updated_at = ?
		 WHERE id = ?`,
		h.Name, h.Frequency, h.Goal, h.Streak, h.Progress, formatLastDone(h.LastDone),
		h.UpdatedAt.Format(time.RFC3339), h.ID,
	)
	if err != nil {
		return fmt.Errorf("update habit %d: %w", h.ID, mapErr(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update habit %d: %w", h.ID, habit.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(name string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM habits WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("delete habit %q: %w", name, err)
	}
	return res.RowsAffected()
}

func (s *Store) List() ([]habit.Habit, error) {
	rows, err := s.db.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []habit.Habit
	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// mapErr translates driver conditions into habit error kinds.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return habit.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", habit.ErrAlreadyExists, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %v", habit.ErrInvalidInput, err)
		}
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", habit.ErrAlreadyExists, err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", habit.ErrInvalidInput, err)
	}
	return err
}
