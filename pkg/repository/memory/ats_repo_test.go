package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/ats"
)

func TestATSRepositoryListsNewestFirstPerOwner(t *testing.T) {
	repo := NewATSRepository()
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, repo.Create(ctx, ats.Record{ID: uuid.New(), OwnerID: owner, Filename: "cv.pdf", CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, repo.Create(ctx, ats.Record{ID: uuid.New(), OwnerID: uuid.New()}))

	got, err := repo.ListByOwner(ctx, owner, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base.Add(2*time.Hour), got[0].CreatedAt)

	got, err = repo.ListByOwner(ctx, owner, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
