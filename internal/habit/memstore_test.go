package habit

import "sort"

// memStore is a map-backed Store for repository tests.
type memStore struct {
	nextID int64
	byID   map[int64]Habit
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[int64]Habit)}
}

func (m *memStore) find(name string) (Habit, bool) {
	for _, h := range m.byID {
		if h.Name == name {
			return h, true
		}
	}
	return Habit{}, false
}

func (m *memStore) Get(name string) (*Habit, error) {
	h, ok := m.find(name)
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m *memStore) Insert(h Habit) (*Habit, error) {
	if _, ok := m.find(h.Name); ok {
		return nil, ErrAlreadyExists
	}
	m.nextID++
	h.ID = m.nextID
	m.byID[h.ID] = h
	return &h, nil
}

func (m *memStore) Mutate(name string, fn func(*Habit) error) (*Habit, error) {
	h, ok := m.find(name)
	if !ok {
		return nil, ErrNotFound
	}
	draft := h
	if err := fn(&draft); err != nil {
		return nil, err
	}
	if other, ok := m.find(draft.Name); ok && other.ID != h.ID {
		return nil, ErrAlreadyExists
	}
	draft.ID = h.ID
	m.byID[h.ID] = draft
	return &draft, nil
}

func (m *memStore) Delete(name string) (int64, error) {
	h, ok := m.find(name)
	if !ok {
		return 0, nil
	}
	delete(m.byID, h.ID)
	return 1, nil
}

func (m *memStore) List() ([]Habit, error) {
	var out []Habit
	for _, h := range m.byID {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
