package check

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// ErrProblemNotFound is returned when a session operation references a UID
// that is not (or no longer) present.
var ErrProblemNotFound = errors.New("problem not found")

// SuppressionFilter gates problem admission into a session.
type SuppressionFilter interface {
	// Matches returns true when the problem is suppressed by an
	// in-document directive and must not be admitted.
	Matches(p domain.Problem) bool
}

// WhitelistStore is the outbound port for the persisted key set.
type WhitelistStore interface {
	Contains(key string) bool
	Add(keys ...string) error
}

// Session owns the problem set of one checking run. Problems are keyed by
// their run-unique UID; two problems may legitimately share a semantic Key
// within a run and are then kept as separate entries until whitelist
// promotion cascades over them.
//
// A Session is not safe for concurrent use. The orchestrator merges module
// results only after all workers have joined, so session access stays on
// the orchestrating goroutine.
type Session struct {
	filter    SuppressionFilter
	whitelist WhitelistStore
	problems  map[string]domain.Problem
	order     []string // admission order of UIDs, for deterministic iteration
}

// NewSession creates an empty session. The filter may be nil, in which
// case every problem is admitted.
func NewSession(filter SuppressionFilter, whitelist WhitelistStore) *Session {
	return &Session{
		filter:    filter,
		whitelist: whitelist,
		problems:  make(map[string]domain.Problem),
	}
}

// Add admits a problem unless it matches the suppression filter.
// Returns true when the problem was admitted.
func (s *Session) Add(p domain.Problem) bool {
	if s.filter != nil && s.filter.Matches(p) {
		return false
	}
	if _, exists := s.problems[p.UID]; !exists {
		s.order = append(s.order, p.UID)
	}
	s.problems[p.UID] = p
	return true
}

// AddAll admits each problem in order, applying the suppression gate.
func (s *Session) AddAll(problems []domain.Problem) {
	for _, p := range problems {
		s.Add(p)
	}
}

// CheckWhitelist removes every problem whose key has been whitelisted.
// Idempotent: a second call on an unchanged whitelist removes nothing.
func (s *Session) CheckWhitelist() {
	if s.whitelist == nil {
		return
	}
	kept := s.order[:0]
	for _, uid := range s.order {
		if s.whitelist.Contains(s.problems[uid].Key) {
			delete(s.problems, uid)
			continue
		}
		kept = append(kept, uid)
	}
	s.order = kept
}

// PromoteToWhitelist persists the key of the problem addressed by uid,
// removes that problem and cascades removal over every other problem with
// the same key, so one user action clears all visible duplicates of the
// same underlying issue and the persisted key keeps future runs clean.
// Key matching is by string equality alone, including across checkers.
func (s *Session) PromoteToWhitelist(uid string) error {
	p, ok := s.problems[uid]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProblemNotFound, uid)
	}

	if s.whitelist != nil {
		if err := s.whitelist.Add(p.Key); err != nil {
			return fmt.Errorf("persist whitelist key %q: %w", p.Key, err)
		}
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if s.problems[id].Key == p.Key {
			delete(s.problems, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	return nil
}

// Get returns the problem addressed by uid.
func (s *Session) Get(uid string) (domain.Problem, bool) {
	p, ok := s.problems[uid]
	return p, ok
}

// Len returns the number of stored problems.
func (s *Session) Len() int { return len(s.order) }

// Problems returns the stored problems in admission order.
func (s *Session) Problems() []domain.Problem {
	out := make([]domain.Problem, 0, len(s.order))
	for _, uid := range s.order {
		out = append(out, s.problems[uid])
	}
	return out
}

// Sorted returns the stored problems ordered for presentation: most severe
// first, then by position.
func (s *Session) Sorted() []domain.Problem {
	out := s.Problems()
	sort.SliceStable(out, func(i, j int) bool { return domain.Less(out[i], out[j]) })
	return out
}
