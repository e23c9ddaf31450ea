// Package memory holds in-process repositories used when no database is
// configured and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// ResumeRepository implements resume.Repository over a map.
type ResumeRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]resume.Profile
	last  time.Time

	// FailUpdates makes UpdateForOwner return this error when set.
	FailUpdates error
}

func NewResumeRepository() *ResumeRepository {
	return &ResumeRepository{items: map[uuid.UUID]resume.Profile{}}
}

func (r *ResumeRepository) Create(_ context.Context, p resume.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.tick()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	r.items[p.ID] = clone(p)
	return nil
}

func (r *ResumeRepository) GetForOwner(_ context.Context, ownerID, id uuid.UUID) (resume.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok || p.OwnerID != ownerID {
		return resume.Profile{}, resume.ErrNotFound
	}
	return clone(p), nil
}

func (r *ResumeRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	var res []resume.Profile
	for _, p := range r.items {
		if p.OwnerID == ownerID {
			res = append(res, clone(p))
		}
	}
	r.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if offset >= len(res) {
		return []resume.Profile{}, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *ResumeRepository) UpdateForOwner(_ context.Context, ownerID, id uuid.UUID, patch resume.Patch, step *string) (resume.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailUpdates != nil {
		return resume.Profile{}, r.FailUpdates
	}
	p, ok := r.items[id]
	if !ok || p.OwnerID != ownerID {
		return resume.Profile{}, resume.ErrNotFound
	}
	p = clone(p)
	patch.Apply(&p.Content)
	if step != nil {
		p.IntakeStep = *step
	}
	p.UpdatedAt = r.tick()
	r.items[id] = p
	return clone(p), nil
}

func (r *ResumeRepository) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || p.OwnerID != ownerID {
		return resume.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// tick returns a strictly increasing timestamp; UpdatedAt versions cached renders.
// Callers hold mu.
func (r *ResumeRepository) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}

func clone(p resume.Profile) resume.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Certifications = append([]string{}, p.Certifications...)
	work := make([]resume.WorkEntry, len(p.WorkExperience))
	for i, w := range p.WorkExperience {
		w.Duties = append([]string{}, w.Duties...)
		work[i] = w
	}
	p.WorkExperience = work
	return p
}
