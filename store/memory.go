package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// recordPtr ties a row type to its pointer so the memory table can reach
// the embedded RowMeta generically.
type recordPtr[R any] interface {
	*R
	Record
}

// MemoryTable is an in-memory Table implementation with the same
// server-side behaviour as the Postgres one (id/timestamp assignment,
// owner scoping, newest-first selects). It backs the test suites; nothing
// in the production wiring uses it.
type MemoryTable[R any, PR recordPtr[R]] struct {
	mu   sync.Mutex
	rows []R

	// FailWith, when set, makes every call return that error. Tests use
	// it to simulate remote-store outages.
	FailWith error
}

// NewMemoryTable returns an empty in-memory table.
func NewMemoryTable[R any, PR recordPtr[R]]() *MemoryTable[R, PR] {
	return &MemoryTable[R, PR]{}
}

func (t *MemoryTable[R, PR]) Select(ctx context.Context, f Filter) ([]R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return nil, t.FailWith
	}
	var out []R
	// rows are kept insertion-ordered; walk backwards for newest-first
	for i := len(t.rows) - 1; i >= 0; i-- {
		row := t.rows[i]
		meta := PR(&row).Meta()
		if meta.OwnerID != f.OwnerID.String() {
			continue
		}
		if f.ID != uuid.Nil && meta.ID != f.ID.String() {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (t *MemoryTable[R, PR]) Insert(ctx context.Context, row R) (R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return row, t.FailWith
	}
	PR(&row).Meta().EnsureDefaults()
	t.rows = append(t.rows, row)
	return row, nil
}

func (t *MemoryTable[R, PR]) Update(ctx context.Context, f Filter, patch Patch) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return t.FailWith
	}
	for i := range t.rows {
		meta := PR(&t.rows[i]).Meta()
		if meta.ID == f.ID.String() && meta.OwnerID == f.OwnerID.String() {
			patched, err := applyPatch(t.rows[i], patch)
			if err != nil {
				return &RemoteError{Op: "update", Table: "memory", Code: CodeGeneric, Err: err}
			}
			t.rows[i] = patched
			PR(&t.rows[i]).Meta().UpdatedAt = Now()
			return nil
		}
	}
	return &RemoteError{Op: "update", Table: "memory", Code: CodeNotFound}
}

func (t *MemoryTable[R, PR]) Delete(ctx context.Context, f Filter) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return t.FailWith
	}
	for i := range t.rows {
		meta := PR(&t.rows[i]).Meta()
		if meta.ID == f.ID.String() && meta.OwnerID == f.OwnerID.String() {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return &RemoteError{Op: "delete", Table: "memory", Code: CodeNotFound}
}

// applyPatch merges a wire patch into a row. Patch keys are wire column
// names, which match the rows' json tags, so a JSON round trip does the
// field-by-field merge for us.
func applyPatch[R any](row R, patch Patch) (R, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return row, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return row, err
	}
	for k, v := range patch {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return row, err
	}
	var out R
	if err := json.Unmarshal(merged, &out); err != nil {
		return row, err
	}
	return out, nil
}

// Len reports the stored row count across all owners.
func (t *MemoryTable[R, PR]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// All returns a copy of every stored row regardless of owner.
func (t *MemoryTable[R, PR]) All() []R {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]R, len(t.rows))
	copy(out, t.rows)
	return out
}
