package dbhelper

import (
	"context"
	"sync"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
)

// MemoryStore keeps users in process memory. It backs tests and the
// STORE_DRIVER=memory mode.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return utils.ErrDuplicateIdentity
	}
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	user := s.byID[id]
	return &user, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.byID[user.ID]
	if !ok {
		return utils.ErrNotFound
	}
	if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
		return utils.ErrDuplicateIdentity
	}
	delete(s.byEmail, prev.Email)
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}
