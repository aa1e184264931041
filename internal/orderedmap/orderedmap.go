package orderedmap

import (
	"iter"

	"github.com/pkg/errors"
)

var ErrDuplicateEntry = errors.New("duplicate entry")

// Map remembers the order in which keys were first set.
type Map[K comparable, V any] struct {
	entries []K
	keys    map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		entries: make([]K, 0),
		keys:    make(map[K]V),
	}
}

// Set adds a new entry. Setting a key that already exists is an error
// and leaves the map untouched.
func (m *Map[K, V]) Set(key K, value V) error {
	_, exists := m.keys[key]
	if exists {
		return ErrDuplicateEntry
	}
	m.entries = append(m.entries, key)
	m.keys[key] = value
	return nil
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.keys[key]
	return v, ok
}

func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Reset empties the map, keeping allocated storage.
func (m *Map[K, V]) Reset() {
	m.entries = m.entries[:0]
	clear(m.keys)
}

func (m *Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.entries {
			v := m.keys[k]
			if !yield(k, v) {
				break
			}
		}
	}
}
