// Package urlstate keeps an interactive filter control in sync with the
// shareable location state. Rapid input (a dragged price slider) updates
// the local value immediately but is only committed to the location state
// after a quiescence window with no further input, so a drag produces one
// commit instead of dozens of history entries.
package urlstate

import (
	"net/url"
	"sync"
	"time"

	"ham-store/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultQuiescenceWindow is the delay after the last input before the
// pending value is committed
const DefaultQuiescenceWindow = 500 * time.Millisecond

// PriceRange is the slider's local value
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// PriceRangeSync owns one pending price range and the single cancellable
// timer that commits it. Each input replaces the timer, so at most one
// commit is in flight and only the final value of a rapid sequence is
// committed. Closing before the window elapses cancels the pending
// commit; no commit can occur after teardown.
type PriceRangeSync struct {
	mu      sync.Mutex
	window  time.Duration
	base    url.Values
	pending PriceRange
	timer   *time.Timer
	commit  func(url.Values)
	closed  bool
}

// NewPriceRangeSync creates a synchronizer seeded from the current
// location state. Absent or malformed keys fall back to the domain
// defaults, mirroring how criteria are parsed.
func NewPriceRangeSync(window time.Duration, base url.Values, commit func(url.Values)) *PriceRangeSync {
	if window <= 0 {
		window = DefaultQuiescenceWindow
	}

	criteria := domain.ParseFilterCriteria(base)
	pending := PriceRange{Min: domain.DefaultMinPrice, Max: domain.DefaultMaxPrice}
	if criteria.MinPrice.Valid {
		pending.Min = criteria.MinPrice.Decimal
	}
	if criteria.MaxPrice.Valid {
		pending.Max = criteria.MaxPrice.Decimal
	}

	return &PriceRangeSync{
		window:  window,
		base:    cloneValues(base),
		pending: pending,
		commit:  commit,
	}
}

// Range returns the current local value. It reflects the latest input
// immediately, whether or not it has been committed yet.
func (s *PriceRangeSync) Range() PriceRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Input records a new slider value and (re)arms the quiescence timer.
// Further input before the window elapses resets the timer.
func (s *PriceRangeSync) Input(min, max decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.pending = PriceRange{Min: min, Max: max}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.flush)
}

// Close cancels any pending commit. It is safe to call more than once.
func (s *PriceRangeSync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// flush serializes the pending range into the location state and commits
// it. Terms equal to the domain defaults are removed rather than written,
// keeping the shareable representation canonical and minimal.
func (s *PriceRangeSync) flush() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	values := cloneValues(s.base)

	if s.pending.Min.GreaterThan(domain.DefaultMinPrice) {
		values.Set("minPrice", s.pending.Min.String())
	} else {
		values.Del("minPrice")
	}

	if s.pending.Max.LessThan(domain.DefaultMaxPrice) {
		values.Set("maxPrice", s.pending.Max.String())
	} else {
		values.Del("maxPrice")
	}

	s.base = cloneValues(values)
	s.timer = nil

	// The lock is held through the commit so Close cannot interleave:
	// once Close returns, no commit will run. The commit callback must
	// not call back into the synchronizer.
	if s.commit != nil {
		s.commit(values)
	}
	s.mu.Unlock()
}

func cloneValues(values url.Values) url.Values {
	clone := url.Values{}
	for key, vals := range values {
		for _, v := range vals {
			clone.Add(key, v)
		}
	}
	return clone
}
