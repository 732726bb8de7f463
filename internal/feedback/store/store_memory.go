package store

import (
	"context"
	"sort"
	"sync"

	"matchday/internal/feedback/models"
	id "matchday/pkg/domain"
)

type requestKey struct {
	matchID id.MatchID
	userID  id.UserID
}

// InMemory keeps feedback requests in a map keyed by (match, user).
type InMemory struct {
	mu       sync.RWMutex
	requests map[requestKey]*models.Request
}

func NewInMemory() *InMemory {
	return &InMemory{requests: make(map[requestKey]*models.Request)}
}

func (s *InMemory) CreateIfAbsent(_ context.Context, r *models.Request) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := requestKey{matchID: r.MatchID, userID: r.UserID}
	if _, exists := s.requests[key]; exists {
		return false, nil
	}
	cp := *r
	s.requests[key] = &cp
	return true, nil
}

func (s *InMemory) ListByMatch(_ context.Context, matchID id.MatchID) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Request
	for key, r := range s.requests {
		if key.matchID == matchID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortRequests(out)
	return out, nil
}

func (s *InMemory) ListPendingByUser(_ context.Context, userID id.UserID) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Request
	for key, r := range s.requests {
		if key.userID == userID && r.IsPending() {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortRequests(out)
	return out, nil
}

func sortRequests(rs []*models.Request) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID.String() < rs[j].ID.String()
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}
