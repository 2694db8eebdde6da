package store

import (
	"context"
	"errors"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]User)}
}

// Create implements Store.
func (m *Memory) Create(ctx context.Context, in NewUser) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	user, err := newUser(in)
	if err != nil {
		return User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return User{}, ErrDuplicateEmail
	}
	m.byEmail[user.Email] = user
	return user, nil
}

// FindByEmail implements Store.
func (m *Memory) FindByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// CountByEmail implements Store.
func (m *Memory) CountByEmail(ctx context.Context, email string) (int64, error) {
	if _, err := m.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}
