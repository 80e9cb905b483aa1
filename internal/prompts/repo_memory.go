package prompts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo used for local development and tests.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	seq   int64
	now   func() time.Time
}

type memoryEntry struct {
	tpl Template
	seq int64
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]memoryEntry), now: time.Now}
}

// NewSeededMemoryRepo constructs a MemoryRepo holding the global default template.
func NewSeededMemoryRepo() *MemoryRepo {
	r := NewMemoryRepo()
	r.put(GlobalDefault(r.now().UTC()))
	return r
}

func (r *MemoryRepo) put(t Template) {
	r.seq++
	r.items[t.ID] = memoryEntry{tpl: t, seq: r.seq}
}

func (r *MemoryRepo) Create(ctx context.Context, t Template) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := r.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.IsDefault {
		r.clearDefaultsLocked(t.Owner(), t.ID, now)
	}
	r.put(t)
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, ownerID, id string, patch Patch) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	t := entry.tpl
	if t.IsGlobal() {
		return Template{}, ErrForbidden
	}
	if t.Owner() != ownerID {
		return Template{}, ErrNotFound
	}

	now := r.now().UTC()
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Body != nil {
		t.Body = *patch.Body
	}
	if patch.IsDefault != nil {
		if *patch.IsDefault {
			r.clearDefaultsLocked(ownerID, t.ID, now)
		}
		t.IsDefault = *patch.IsDefault
	}
	t.UpdatedAt = now
	r.items[id] = memoryEntry{tpl: t, seq: entry.seq}
	return t, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if entry.tpl.IsGlobal() {
		return ErrForbidden
	}
	if entry.tpl.Owner() != ownerID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return entry.tpl, nil
}

func (r *MemoryRepo) ListVisible(ctx context.Context, ownerID string) ([]Template, error) {
	return r.list(func(t Template) bool {
		return t.IsGlobal() || (ownerID != "" && t.Owner() == ownerID)
	}), nil
}

func (r *MemoryRepo) ListDefaults(ctx context.Context, ownerID string) ([]Template, error) {
	return r.list(func(t Template) bool {
		return t.IsDefault && t.Owner() == ownerID
	}), nil
}

func (r *MemoryRepo) list(keep func(Template) bool) []Template {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]memoryEntry, 0, len(r.items))
	for _, e := range r.items {
		if keep(e.tpl) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.tpl.CreatedAt.Equal(b.tpl.CreatedAt) {
			return a.tpl.CreatedAt.After(b.tpl.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Template, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.tpl)
	}
	return out
}

func (r *MemoryRepo) clearDefaultsLocked(ownerID, keepID string, now time.Time) {
	for id, e := range r.items {
		if id == keepID || !e.tpl.IsDefault || e.tpl.Owner() != ownerID {
			continue
		}
		e.tpl.IsDefault = false
		e.tpl.UpdatedAt = now
		r.items[id] = e
	}
}
