package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dvws-go/dvws/internal/store"
)

// Store implementa store.UserRepository en memoria.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]store.User
	byName map[string]string // username -> id
}

func New() *Store {
	return &Store{
		byID:   make(map[string]store.User),
		byName: make(map[string]string),
	}
}

func (s *Store) Create(_ context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[u.Username]; ok {
		return store.ErrDuplicate
	}
	if _, ok := s.byID[u.ID]; ok {
		return store.ErrDuplicate
	}
	s.byID[u.ID] = *u
	s.byName[u.Username] = u.ID
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *Store) Search(_ context.Context, q string, limit int) ([]store.User, error) {
	q = strings.ToLower(q)
	s.mu.RLock()
	out := make([]store.User, 0)
	for _, u := range s.byID {
		if strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}
