package leitner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/vocabox/internal/model"
)

// Filter selects which pool items enter a session.
type Filter int

const (
	FilterAll Filter = iota
	FilterDue
	FilterNew
)

var filterNames = [...]string{FilterAll: "all", FilterDue: "due", FilterNew: "new"}

func (f Filter) String() string {
	if f >= FilterAll && f <= FilterNew {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter accepts "all", "due" or "new" in any case.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range filterNames {
		if s == name {
			return Filter(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// Keep reports whether id passes the filter on today.
func (f Filter) Keep(st *ReviewState, id string, today Date) bool {
	switch f {
	case FilterDue:
		return IsDue(st, id, today)
	case FilterNew:
		return IsNew(st, id)
	default:
		return true
	}
}

// SessionState is the life-cycle stage of a Session.
type SessionState int

const (
	SessionEmpty SessionState = iota
	SessionBuilt
	SessionIterating
	SessionExhausted
)

func (s SessionState) String() string {
	switch s {
	case SessionEmpty:
		return "empty"
	case SessionBuilt:
		return "built"
	case SessionIterating:
		return "iterating"
	case SessionExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session is the shuffled working set of one practice run. Items are
// shuffled once at Build and consumed front to back.
type Session struct {
	rnd   *rand.Rand
	items []model.VocabItem
	seen  int
	total int
	state SessionState
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRand sets the shuffle source. Intended for tests.
func WithRand(rnd *rand.Rand) SessionOption {
	return func(s *Session) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// NewSession returns an empty session seeded with the current time.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build replaces the queue with the filtered, shuffled pool and returns its
// size. pool is not modified.
func (s *Session) Build(pool []model.VocabItem, filter Filter, st *ReviewState, today Date) int {
	items := make([]model.VocabItem, 0, len(pool))
	for _, item := range pool {
		if filter.Keep(st, item.ID, today) {
			items = append(items, item)
		}
	}
	s.rnd.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	s.items = items
	s.seen = 0
	s.total = len(items)
	s.state = SessionBuilt
	return s.total
}

// Next removes and returns the front item. It returns false once the queue
// is empty, which moves the session to SessionExhausted.
func (s *Session) Next() (model.VocabItem, bool) {
	if len(s.items) == 0 {
		s.state = SessionExhausted
		return model.VocabItem{}, false
	}
	item := s.items[0]
	s.items = s.items[1:]
	s.seen++
	s.state = SessionIterating
	return item, true
}

// Progress reports completed and queued counts. The item just drawn is
// still in progress, so seen is one less than the number of draws.
func (s *Session) Progress() (seen, total int) {
	if s.seen == 0 {
		return 0, s.total
	}
	return s.seen - 1, s.total
}

// Remaining returns the number of items not yet drawn.
func (s *Session) Remaining() int {
	return len(s.items)
}

// State returns the session's life-cycle stage.
func (s *Session) State() SessionState {
	return s.state
}
