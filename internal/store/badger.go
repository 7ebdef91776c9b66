package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sadopc/habitr/internal/habit"
)

const (
	badgerIDPrefix   = "habit:id:"
	badgerNamePrefix = "habit:name:"
	badgerSeqKey     = "habit:seq"
)

// BadgerStore keeps habits in an embedded Badger key-value database.
// Records live under habit:id:<id>; habit:name:<name> indexes them by name.
type BadgerStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger

	// mu serializes read-modify-write transactions so concurrent callers
	// queue instead of failing with badger.ErrConflict.
	mu sync.Mutex
}

// badgerRecord is the stored JSON shape of a habit.
type badgerRecord struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Frequency int     `json:"frequency"`
	Goal      int     `json:"goal"`
	Streak    int     `json:"streak"`
	Progress  int     `json:"progress"`
	LastDone  *string `json:"last_done"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string, opts ...Option) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir), dir, opts)
}

// NewBadgerMemory creates an in-memory Badger store for testing.
func NewBadgerMemory(opts ...Option) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), ":memory:", opts)
}

func openBadger(bopts badger.Options, dir string, opts []Option) (*BadgerStore, error) {
	o := buildOptions(opts)
	db, err := badger.Open(bopts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte(badgerSeqKey), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	o.logger.Info("badger store opened", "path", dir)
	return &BadgerStore{db: db, seq: seq, logger: o.logger}, nil
}

func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return fmt.Errorf("release sequence: %w", err)
	}
	return s.db.Close()
}

func idKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%016x", badgerIDPrefix, id))
}

func nameKey(name string) []byte {
	return []byte(badgerNamePrefix + name)
}

func (s *BadgerStore) toHabit(r badgerRecord) habit.Habit {
	h := habit.Habit{
		ID:        r.ID,
		Name:      r.Name,
		Frequency: r.Frequency,
		Goal:      r.Goal,
		Streak:    r.Streak,
		Progress:  r.Progress,
	}
	if r.LastDone != nil {
		h.LastDone = parseLastDone(s.logger, r.Name, sqlNullString(*r.LastDone))
	}
	h.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339, r.UpdatedAt)
	return h
}

func fromHabit(h habit.Habit) badgerRecord {
	r := badgerRecord{
		ID:        h.ID,
		Name:      h.Name,
		Frequency: h.Frequency,
		Goal:      h.Goal,
		Streak:    h.Streak,
		Progress:  h.Progress,
		CreatedAt: h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: h.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if h.LastDone != nil {
		v := h.LastDone.String()
		r.LastDone = &v
	}
	return r
}

func readRecord(item *badger.Item) (badgerRecord, error) {
	var r badgerRecord
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &r)
	})
	return r, err
}

func (s *BadgerStore) lookup(txn *badger.Txn, name string) (badgerRecord, error) {
	item, err := txn.Get(nameKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return badgerRecord{}, habit.ErrNotFound
	}
	if err != nil {
		return badgerRecord{}, err
	}
	idBytes, err := item.ValueCopy(nil)
	if err != nil {
		return badgerRecord{}, err
	}
	item, err = txn.Get(idBytes)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return badgerRecord{}, fmt.Errorf("%w: dangling name index %q", habit.ErrNotFound, name)
	}
	if err != nil {
		return badgerRecord{}, err
	}
	return readRecord(item)
}

func putRecord(txn *badger.Txn, r badgerRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	key := idKey(r.ID)
	if err := txn.Set(key, data); err != nil {
		return err
	}
	return txn.Set(nameKey(r.Name), key)
}

func (s *BadgerStore) Get(name string) (*habit.Habit, error) {
	var r badgerRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		r, err = s.lookup(txn, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get habit %q: %w", name, err)
	}
	h := s.toHabit(r)
	return &h, nil
}

func (s *BadgerStore) Insert(h habit.Habit) (*habit.Habit, error) {
	id, err := s.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("next id: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	// Sequences start at zero; ids start at one like the SQLite store.
	h.ID = int64(id) + 1
	h.CreatedAt, h.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey(h.Name)); err == nil {
			return habit.ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return putRecord(txn, fromHabit(h))
	})
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return &h, nil
}

// Mutate runs lookup, fn and the write-back inside one Badger transaction.
func (s *BadgerStore) Mutate(name string, fn func(h *habit.Habit) error) (*habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out habit.Habit
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := s.lookup(txn, name)
		if err != nil {
			return fmt.Errorf("get habit %q: %w", name, err)
		}
		h := s.toHabit(r)
		if err := fn(&h); err != nil {
			return err
		}
		h.ID = r.ID
		h.UpdatedAt = time.Now().UTC().Truncate(time.Second)

		if h.Name != r.Name {
			if _, err := txn.Get(nameKey(h.Name)); err == nil {
				return fmt.Errorf("rename to %q: %w", h.Name, habit.ErrAlreadyExists)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete(nameKey(r.Name)); err != nil {
				return err
			}
		}
		if err := putRecord(txn, fromHabit(h)); err != nil {
			return fmt.Errorf("update habit %d: %w", h.ID, err)
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BadgerStore) Delete(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := s.lookup(txn, name)
		if errors.Is(err, habit.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(idKey(r.ID)); err != nil {
			return err
		}
		n = 1
		return txn.Delete(nameKey(name))
	})
	if err != nil {
		return 0, fmt.Errorf("delete habit %q: %w", name, err)
	}
	return n, nil
}

func (s *BadgerStore) List() ([]habit.Habit, error) {
	var habits []habit.Habit
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(badgerIDPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			r, err := readRecord(it.Item())
			if err != nil {
				return err
			}
			habits = append(habits, s.toHabit(r))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}
