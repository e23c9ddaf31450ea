package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	unlock, err := l.Lock(ctx, "resume:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Lock(ctx, "resume:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Lock(ctx, "resume:2", time.Minute)
	require.NoError(t, err)
	other()

	unlock()
	again, err := l.Lock(ctx, "resume:1", time.Minute)
	require.NoError(t, err)
	again()
}

func TestLocalLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }

	stale, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	// Releasing the expired lease must not drop the new holder.
	stale()
	_, err = l.Lock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, ErrLocked)
	fresh()
}
