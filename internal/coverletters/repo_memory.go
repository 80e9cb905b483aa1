package coverletters

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
}

type memoryEntry struct {
	cl  CoverLetter
	seq int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]memoryEntry)}
}

func (r *MemoryRepo) Create(ctx context.Context, cl CoverLetter) (CoverLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cl.CreatedAt, cl.UpdatedAt = now, now
	r.seq++
	r.items[cl.ID] = memoryEntry{cl: cl, seq: r.seq}
	return cl, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID, id string, patch Patch) (CoverLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok || entry.cl.UserID != userID {
		return CoverLetter{}, ErrNotFound
	}
	cl := entry.cl
	if patch.Title != nil {
		cl.Title = *patch.Title
	}
	if patch.Description != nil {
		cl.Description = *patch.Description
	}
	if patch.Content != nil {
		cl.Content = *patch.Content
	}
	cl.UpdatedAt = time.Now().UTC()
	r.items[id] = memoryEntry{cl: cl, seq: entry.seq}
	return cl, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok || entry.cl.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]CoverLetter, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []memoryEntry
	for _, e := range r.items {
		if e.cl.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].cl.CreatedAt.Equal(entries[j].cl.CreatedAt) {
			return entries[i].cl.CreatedAt.After(entries[j].cl.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	total := len(entries)
	out := []CoverLetter{}
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, entries[i].cl)
	}
	return out, total, nil
}
