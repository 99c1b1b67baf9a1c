package leitner

// IsDue reports whether id should be reviewed on today. Items never reviewed
// are always due; otherwise the due date must be on or before today.
func IsDue(st *ReviewState, id string, today Date) bool {
	rec, ok := st.Boxes[id]
	if !ok {
		return true
	}
	return !rec.Due.After(today)
}

// IsNew reports whether id has never been reviewed.
func IsNew(st *ReviewState, id string) bool {
	_, ok := st.Boxes[id]
	return !ok
}
