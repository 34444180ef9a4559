package repository

import (
	"context"
	"sort"
	"sync"

	"userhub-backend/internal/models"
)

// Memory is an in-memory UserRepository keyed by id. It mirrors the
// uniqueness and ordering semantics of the Postgres implementation and is
// used in tests.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		users:  make(map[int64]models.User),
	}
}

func (r *Memory) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *Memory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.sortedIDs() {
		if u := r.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *Memory) GetByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.sortedIDs() {
		if u := r.users[id]; u.Username == username || u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *Memory) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, ErrDuplicate
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return user, nil
}

func (r *Memory) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, ErrNotFound
	}
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return nil, ErrDuplicate
		}
	}

	r.users[user.ID] = *user
	return user, nil
}

func (r *Memory) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *Memory) List(_ context.Context, limit, offset int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.sortedIDs()
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.users[id])
	}
	return out, nil
}

// sortedIDs returns all ids in insertion order. Callers must hold the lock.
func (r *Memory) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
