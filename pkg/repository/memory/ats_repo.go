package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/ats"
)

// ATSRepository implements ats.Repository over a slice.
type ATSRepository struct {
	mu    sync.RWMutex
	items []ats.Record
}

func NewATSRepository() *ATSRepository {
	return &ATSRepository{}
}

func (r *ATSRepository) Create(_ context.Context, rec ats.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, rec)
	return nil
}

func (r *ATSRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]ats.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	res := []ats.Record{}
	for _, rec := range r.items {
		if rec.OwnerID == ownerID {
			res = append(res, rec)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if offset >= len(res) {
		return []ats.Record{}, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
