package resumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	seq   int64
	now   func() time.Time
}

type memoryEntry struct {
	res Resume
	seq int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]memoryEntry), now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := r.now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	if res.IsDefault {
		r.clearDefaultsLocked(res.UserID, res.ID, now)
	}
	r.seq++
	r.items[res.ID] = memoryEntry{res: res, seq: r.seq}
	return res, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok || entry.res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	now := r.now().UTC()
	res := entry.res
	if patch.IsDefault != nil {
		if *patch.IsDefault {
			r.clearDefaultsLocked(userID, id, now)
		}
		res.IsDefault = *patch.IsDefault
	}
	if patch.Text != nil {
		res.Text = *patch.Text
	}
	res.UpdatedAt = now
	r.items[id] = memoryEntry{res: res, seq: entry.seq}
	return res, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok || entry.res.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok || entry.res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return entry.res, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]Resume, int, error) {
	all := r.filter(func(res Resume) bool { return res.UserID == userID })
	total := len(all)
	if offset >= total {
		return []Resume{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryRepo) ListDefaults(ctx context.Context, userID string) ([]Resume, error) {
	return r.filter(func(res Resume) bool { return res.UserID == userID && res.IsDefault }), nil
}

func (r *MemoryRepo) filter(keep func(Resume) bool) []Resume {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]memoryEntry, 0, len(r.items))
	for _, e := range r.items {
		if keep(e.res) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.res.IsDefault != b.res.IsDefault {
			return a.res.IsDefault
		}
		if !a.res.CreatedAt.Equal(b.res.CreatedAt) {
			return a.res.CreatedAt.After(b.res.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]Resume, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.res)
	}
	return out
}

func (r *MemoryRepo) clearDefaultsLocked(userID, keepID string, now time.Time) {
	for id, e := range r.items {
		if id == keepID || !e.res.IsDefault || e.res.UserID != userID {
			continue
		}
		e.res.IsDefault = false
		e.res.UpdatedAt = now
		r.items[id] = e
	}
}
