package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

var (
	// ErrNotFound is returned when no conditions are recorded for a spot.
	ErrNotFound = errors.New("no conditions for spot")
)

// conditionHistory holds a time-ordered list of condition snapshots for one
// spot.
type conditionHistory struct {
	snapshots []forecast.Conditions
}

// MemoryStore is a concurrency-safe in-memory history of collected surf
// conditions, keyed by spot name. It backs the latest/history API endpoints
// and the scheduler's refresh loop; pipeline runs never read from it.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*conditionHistory

	maxHistory int           // max snapshots per spot, <= 0 means unlimited
	maxAge     time.Duration // max snapshot age, 0 means unlimited
}

// NewMemoryStore creates a MemoryStore with the given retention limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*conditionHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveConditions appends a snapshot for its spot and enforces retention.
func (s *MemoryStore) SaveConditions(cond forecast.Conditions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[cond.Spot]
	if !ok {
		history = &conditionHistory{}
		s.data[cond.Spot] = history
	}

	history.snapshots = append(history.snapshots, cond)

	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// GetLatest returns the most recent snapshot for a spot.
func (s *MemoryStore) GetLatest(spot string) (forecast.Conditions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[spot]
	if !ok || len(history.snapshots) == 0 {
		return forecast.Conditions{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// GetRange returns all snapshots for a spot between from and to, inclusive.
func (s *MemoryStore) GetRange(spot string, from, to time.Time) ([]forecast.Conditions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[spot]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []forecast.Conditions
	for _, snap := range history.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
