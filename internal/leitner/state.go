// Package leitner implements Leitner-box scheduling: review state, due
// classification, grading and review sessions.
package leitner

// MaxBox is the highest box of the default interval table.
const MaxBox = 4

// DefaultIntervals maps box number to review interval in days.
var DefaultIntervals = []int{0, 1, 3, 7, 21}

// BoxRecord is the scheduling state of one reviewed item.
type BoxRecord struct {
	Box int
	Due Date
}

// ReviewState maps item ids to box records. Items without a record are new.
type ReviewState struct {
	Boxes     map[string]BoxRecord
	Intervals []int
}

// NewState returns an empty state with the default interval table.
func NewState() *ReviewState {
	return &ReviewState{
		Boxes:     map[string]BoxRecord{},
		Intervals: append([]int(nil), DefaultIntervals...),
	}
}

// MaxBox returns the highest box the interval table supports.
func (s *ReviewState) MaxBox() int {
	return len(s.intervals()) - 1
}

// intervals returns the state's table, or the default one when it is empty.
func (s *ReviewState) intervals() []int {
	if len(s.Intervals) == 0 {
		return DefaultIntervals
	}
	return s.Intervals
}

// Record returns the box record for id, if any.
func (s *ReviewState) Record(id string) (BoxRecord, bool) {
	rec, ok := s.Boxes[id]
	return rec, ok
}

func (s *ReviewState) set(id string, rec BoxRecord) {
	if s.Boxes == nil {
		s.Boxes = map[string]BoxRecord{}
	}
	rec.Box = clampBox(rec.Box, s.MaxBox())
	s.Boxes[id] = rec
}

func clampBox(box, maxBox int) int {
	if box < 0 {
		return 0
	}
	if box > maxBox {
		return maxBox
	}
	return box
}
