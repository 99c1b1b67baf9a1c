package leitner

import (
	"encoding/json"
	"fmt"
	"time"
)

// dueLayout matches the ISO-8601 form the state blob has always used.
const dueLayout = "2006-01-02T15:04:05.000Z07:00"

type wireState struct {
	Boxes     map[string]wireBox `json:"boxes"`
	Intervals []int              `json:"intervals"`
}

type wireBox struct {
	Box int    `json:"box"`
	Due string `json:"due,omitempty"`
}

// encodeState renders st as the persisted JSON blob. Due dates are written
// as midnight in loc, converted to UTC.
func encodeState(st *ReviewState, loc *time.Location) ([]byte, error) {
	w := wireState{
		Boxes:     make(map[string]wireBox, len(st.Boxes)),
		Intervals: st.Intervals,
	}
	for id, rec := range st.Boxes {
		wb := wireBox{Box: rec.Box}
		if !rec.Due.IsZero() {
			wb.Due = rec.Due.Midnight(loc).UTC().Format(dueLayout)
		}
		w.Boxes[id] = wb
	}
	return json.Marshal(w)
}

// decodeState parses a persisted blob. A missing or negative interval table
// falls back to the default; records with an unreadable due date are due now.
func decodeState(blob []byte, loc *time.Location) (*ReviewState, error) {
	var w wireState
	if err := json.Unmarshal(blob, &w); err != nil {
		return nil, fmt.Errorf("decode review state: %w", err)
	}
	st := NewState()
	if validIntervals(w.Intervals) {
		st.Intervals = w.Intervals
	}
	for id, wb := range w.Boxes {
		rec := BoxRecord{Box: wb.Box}
		if wb.Due != "" {
			if t, err := time.Parse(time.RFC3339Nano, wb.Due); err == nil {
				rec.Due = DateOf(t.In(loc))
			}
		}
		st.set(id, rec)
	}
	return st, nil
}

func validIntervals(intervals []int) bool {
	if len(intervals) == 0 {
		return false
	}
	for _, v := range intervals {
		if v < 0 {
			return false
		}
	}
	return true
}
