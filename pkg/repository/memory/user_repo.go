package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/auth"
)

// UserRepository implements auth.UserRepository over a map.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]auth.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[uuid.UUID]auth.User{}}
}

func (r *UserRepository) Create(_ context.Context, u auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || (u.Phone != "" && existing.Phone == u.Phone) {
			return auth.ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (auth.User, error) {
	return r.find(func(u auth.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByPhone(_ context.Context, phone string) (auth.User, error) {
	if phone == "" {
		return auth.User{}, auth.ErrNotFound
	}
	return r.find(func(u auth.User) bool { return u.Phone == phone })
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) find(match func(auth.User) bool) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}
