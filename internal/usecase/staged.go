package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/domain"
)

// StagedChange is one pending, not-yet-persisted price update.
type StagedChange struct {
	Security *domain.Security
	// ReferenceSnapshot is the security's latest snapshot at staging time;
	// the relative rate is only advanced when the new date is at or past it.
	ReferenceSnapshot *domain.PriceSnapshot
	NewPrice          decimal.Decimal
	NewDateInt        int
}

// Session holds the staged price changes of one extraction run. Changes are
// applied to the ledger only on Commit and can be dropped without side
// effects by Forget. At most one change per security is kept: the first
// staged decision wins.
type Session struct {
	mu      sync.Mutex
	changes map[int64]*StagedChange
	order   []int64
}

// NewSession creates an empty staged-change session. One session is created
// per extraction run; sessions are never reused.
func NewSession() *Session {
	return &Session{changes: make(map[int64]*StagedChange)}
}

// Stage records a pending change. It reports false when a change for the
// same security is already staged, in which case the new one is dropped.
func (s *Session) Stage(change *StagedChange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := change.Security.ID
	if _, ok := s.changes[id]; ok {
		return false
	}
	s.changes[id] = change
	s.order = append(s.order, id)

	return true
}

// Staged reports whether a change is already held for the security.
func (s *Session) Staged(securityID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.changes[securityID]

	return ok
}

// IsModified reports whether any changes are pending. It drives whether the
// commit action is offered to the operator.
func (s *Session) IsModified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.changes) > 0
}

// Count returns the number of pending changes.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.changes)
}

// Commit applies every staged change in staging order: a new snapshot at the
// change's date with rate = 1/price, and, when the date is at or past the
// reference snapshot (or none existed), the security's relative rate. A
// store failure stops the pass; changes already applied stay applied. On
// success the staged set is cleared and a summary message returned.
func (s *Session) Commit(ctx context.Context, securities SecurityRepository) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		change := s.changes[id]
		rate := domain.PriceToRate(change.NewPrice)

		if err := securities.SetSnapshot(ctx, id, change.NewDateInt, rate); err != nil {
			return "", fmt.Errorf("storing snapshot for %s: %w", change.Security.Ticker, err)
		}
		if change.ReferenceSnapshot == nil || change.NewDateInt >= change.ReferenceSnapshot.DateInt {
			if err := securities.SetRelativeRate(ctx, id, rate); err != nil {
				return "", fmt.Errorf("updating relative rate for %s: %w", change.Security.Ticker, err)
			}
		}
	}

	n := len(s.changes)
	s.changes = make(map[int64]*StagedChange)
	s.order = nil

	return fmt.Sprintf("FWIMP07: Changed %d security price%s.", n, plural(n)), nil
}

// Forget drops all staged changes without touching the ledger.
func (s *Session) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changes = make(map[int64]*StagedChange)
	s.order = nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
