package memory

import (
	"sync"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table is a mutex-guarded map of documents keyed by id. Rows are cloned on
// the way in and out so callers never share memory with the store.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]*T
	clone func(*T) *T
	key   func(*T) (time.Time, primitive.ObjectID)
}

func newTable[T any](clone func(*T) *T, key func(*T) (time.Time, primitive.ObjectID)) *table[T] {
	return &table[T]{rows: map[primitive.ObjectID]*T{}, clone: clone, key: key}
}

func (t *table[T]) insert(id primitive.ObjectID, row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = t.clone(row)
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[T]) replace(id primitive.ObjectID, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	t.rows[id] = t.clone(row)
	return nil
}

func (t *table[T]) update(id primitive.ObjectID, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(row)
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// find returns matching rows newest first
func (t *table[T]) find(match func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []*T{}
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, t.clone(row))
		}
	}
	newestFirst(out, t.key)
	return out
}

// first returns the first row satisfying match
func (t *table[T]) first(match func(*T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			return t.clone(row), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (t *table[T]) count(match func(*T) bool) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, row := range t.rows {
		if match == nil || match(row) {
			n++
		}
	}
	return n
}

func shallow[T any](row *T) *T {
	out := *row
	return &out
}
