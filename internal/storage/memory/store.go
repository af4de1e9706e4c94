// Package memory is an in-process ProjectStore used by tests and by the refresh command
// when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/storage"
)

// Store keeps projects in a map keyed by address.
type Store struct {
	mu       sync.RWMutex
	projects map[string]models.Project
	now      func() time.Time
	closed   bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{projects: make(map[string]models.Project), now: time.Now}
}

// InsertIfAbsent stores projects whose address is new. CreatedAt is stamped when unset.
func (s *Store) InsertIfAbsent(_ context.Context, projects []models.Project) (storage.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res storage.UpsertResult
	if s.closed {
		return res, storage.ErrClosed
	}
	for _, p := range projects {
		if p.Address == "" {
			return res, storage.ErrEmptyAddress
		}
		if _, ok := s.projects[p.Address]; ok {
			res.Existing++
			continue
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		s.projects[p.Address] = p
		res.Inserted++
	}
	return res, nil
}

// Find returns the matching projects in the requested order.
func (s *Store) Find(_ context.Context, filter storage.Filter, opts storage.FindOptions) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrClosed
	}

	var out []models.Project
	for _, p := range s.projects {
		if matches(p, filter) {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if opts.Sort == storage.SortYoungest {
			if a.AgeUnknown != b.AgeUnknown {
				return !a.AgeUnknown
			}
			if a.PairAgeHours != b.PairAgeHours {
				return a.PairAgeHours < b.PairAgeHours
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Address < b.Address
	})

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Count returns the number of matching projects.
func (s *Store) Count(_ context.Context, filter storage.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, storage.ErrClosed
	}

	var n int64
	for _, p := range s.projects {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

// Ping fails once the store is closed.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.ErrClosed
	}
	return nil
}

// Close marks the store unusable.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func matches(p models.Project, f storage.Filter) bool {
	if f.Chain != "" && p.Chain != f.Chain {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Risk != "" && p.RiskScore != f.Risk {
		return false
	}
	if f.ExcludeRisk != "" && p.RiskScore == f.ExcludeRisk {
		return false
	}
	if f.HasTelegram && p.Telegram == "" {
		return false
	}
	if f.MaxAgeHours > 0 && (p.AgeUnknown || p.PairAgeHours >= f.MaxAgeHours) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameContains)) {
		return false
	}
	return true
}
