package leitner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Grade is the learner's recall quality for one review.
type Grade int

const (
	Again Grade = iota // Not recalled.
	Hard               // Recalled with difficulty.
	Good               // Recalled.
	Easy               // Recalled effortlessly.
)

var gradeNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// IsValid reports whether g is one of Again, Hard, Good or Easy.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ParseGrade accepts a grade name (any case) or its ordinal 0-3.
func ParseGrade(s string) (Grade, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range gradeNames {
		if s == name {
			return Grade(g), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Grade(n).IsValid() {
		return Grade(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// GradeForKey maps the review keys 1-4 to Again..Easy.
func GradeForKey(key string) (Grade, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '4' {
		return 0, false
	}
	return Grade(key[0] - '1'), true
}

// NextBox returns the box an item moves to from box b after grade g.
func NextBox(b int, g Grade, maxBox int) int {
	switch g {
	case Again:
		return 0
	case Hard:
		return max(0, b)
	case Good:
		return min(b+1, maxBox)
	case Easy:
		return min(b+2, maxBox)
	}
	return b
}

// Apply grades id on today and updates st in place. Unknown ids start in
// box 0. The new due date is today plus the interval of the new box.
func Apply(st *ReviewState, id string, g Grade, today Date) (BoxRecord, error) {
	if !g.IsValid() {
		return BoxRecord{}, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	b := 0
	if rec, ok := st.Boxes[id]; ok {
		b = rec.Box
	}
	box := clampBox(NextBox(b, g, st.MaxBox()), st.MaxBox())
	table := st.intervals()
	days := table[min(box, len(table)-1)]
	rec := BoxRecord{Box: box, Due: today.AddDays(days)}
	st.set(id, rec)
	return rec, nil
}

// Grader applies grades and persists the result after every mutation.
type Grader struct {
	store *Store
}

// NewGrader returns a Grader that saves through store.
func NewGrader(store *Store) *Grader {
	return &Grader{store: store}
}

// Grade applies g to id and saves the whole state. The only error is
// ErrInvalidGrade; persistence failures are handled by the Store.
// Grades and saves through the same Store are serialized, so concurrent
// callers may share st as long as they mutate it only through Grade.
func (gr *Grader) Grade(ctx context.Context, st *ReviewState, id string, g Grade, today Date) (BoxRecord, error) {
	gr.store.mu.Lock()
	defer gr.store.mu.Unlock()
	rec, err := Apply(st, id, g, today)
	if err != nil {
		return BoxRecord{}, err
	}
	gr.store.save(ctx, st)
	return rec, nil
}
