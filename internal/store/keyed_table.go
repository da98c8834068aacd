package store

import "sync"

// KeyedTable is Table[T]'s counterpart for rows addressed by an
// externally-assigned key rather than an auto-incremented ID — spec.md
// §3.1 singles out Player as the one entity kind keyed by external
// identity instead of a store-assigned primary key; ActiveEquipment (one
// row per player) shares that same addressing. Locking, naming, and the
// Tx undo-log integration are identical to Table[T]; only the key type
// and the absence of allocID differ.
type KeyedTable[K comparable, T any] struct {
	mu   sync.RWMutex
	name string
	rows map[K]T
}

// NewKeyedTable creates an empty keyed table with the given name.
func NewKeyedTable[K comparable, T any](name string) *KeyedTable[K, T] {
	return &KeyedTable[K, T]{name: name, rows: make(map[K]T)}
}

func (t *KeyedTable[K, T]) Name() string    { return t.name }
func (t *KeyedTable[K, T]) Lock()           { t.mu.Lock() }
func (t *KeyedTable[K, T]) Unlock()         { t.mu.Unlock() }
func (t *KeyedTable[K, T]) RLock()          { t.mu.RLock() }
func (t *KeyedTable[K, T]) RUnlock()        { t.mu.RUnlock() }

// Len returns the number of rows currently in the table.
func (t *KeyedTable[K, T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Snapshot returns a defensive copy of every row, keyed by K.
func (t *KeyedTable[K, T]) Snapshot() map[K]T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[K]T, len(t.rows))
	for k, row := range t.rows {
		out[k] = row
	}
	return out
}

func (t *KeyedTable[K, T]) get(k K) (T, bool) {
	row, ok := t.rows[k]
	return row, ok
}

func (t *KeyedTable[K, T]) put(k K, row T) {
	t.rows[k] = row
}

func (t *KeyedTable[K, T]) delete(k K) {
	delete(t.rows, k)
}

// GetKeyed reads a row by key. Caller must hold the table's lock via a Tx.
func GetKeyed[K comparable, T any](tx *Tx, t *KeyedTable[K, T], k K) (T, bool) {
	return t.get(k)
}

// PutKeyed writes (inserts or overwrites) a row at k, recording an undo
// step that restores the prior value (or absence) on rollback.
func PutKeyed[K comparable, T any](tx *Tx, t *KeyedTable[K, T], k K, row T) {
	prev, existed := t.get(k)
	t.put(k, row)
	if existed {
		tx.track(func() { t.put(k, prev) })
	} else {
		tx.track(func() { t.delete(k) })
	}
}

// DeleteKeyed removes a row by key, recording an undo step that restores it.
func DeleteKeyed[K comparable, T any](tx *Tx, t *KeyedTable[K, T], k K) {
	prev, existed := t.get(k)
	if !existed {
		return
	}
	t.delete(k)
	tx.track(func() { t.put(k, prev) })
}

// RangeKeyed iterates every row in unspecified order, stopping early if f
// returns false.
func RangeKeyed[K comparable, T any](tx *Tx, t *KeyedTable[K, T], f func(k K, row T) bool) {
	for k, row := range t.rows {
		if !f(k, row) {
			return
		}
	}
}
