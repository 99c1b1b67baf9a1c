package leitner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/vocabox/internal/store"
)

func TestDefaultIntervalsMonotonic(t *testing.T) {
	if len(DefaultIntervals) != MaxBox+1 {
		t.Fatalf("expected %d intervals, got %d", MaxBox+1, len(DefaultIntervals))
	}
	for i := 1; i < len(DefaultIntervals); i++ {
		if DefaultIntervals[i] < DefaultIntervals[i-1] {
			t.Fatalf("intervals not monotonic at %d: %v", i, DefaultIntervals)
		}
	}
	st := NewState()
	st.Intervals[0] = 99
	if DefaultIntervals[0] != 0 {
		t.Fatalf("NewState must copy the default table")
	}
}

func TestNextBox(t *testing.T) {
	tests := []struct {
		box   int
		grade Grade
		want  int
	}{
		{0, Again, 0},
		{4, Again, 0},
		{2, Hard, 2},
		{0, Hard, 0},
		{0, Good, 1},
		{3, Good, 4},
		{4, Good, 4},
		{0, Easy, 2},
		{3, Easy, 4},
		{4, Easy, 4},
	}
	for _, tt := range tests {
		if got := NextBox(tt.box, tt.grade, MaxBox); got != tt.want {
			t.Errorf("NextBox(%d, %s) = %d, want %d", tt.box, tt.grade, got, tt.want)
		}
	}
}

func TestApplyDueDateFollowsIntervals(t *testing.T) {
	today := NewDate(2024, time.January, 10)
	tests := []struct {
		box   int
		grade Grade
		want  BoxRecord
	}{
		{0, Again, BoxRecord{Box: 0, Due: today}},
		{3, Again, BoxRecord{Box: 0, Due: today}},
		{0, Hard, BoxRecord{Box: 0, Due: today}},
		{3, Hard, BoxRecord{Box: 3, Due: NewDate(2024, time.January, 17)}},
		{4, Hard, BoxRecord{Box: 4, Due: NewDate(2024, time.January, 31)}},
		{1, Good, BoxRecord{Box: 2, Due: NewDate(2024, time.January, 13)}},
		{2, Easy, BoxRecord{Box: 4, Due: NewDate(2024, time.January, 31)}},
	}
	for _, tt := range tests {
		st := NewState()
		st.Boxes["x"] = BoxRecord{Box: tt.box, Due: today.AddDays(-5)}
		rec, err := Apply(st, "x", tt.grade, today)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if rec != tt.want {
			t.Fatalf("%s from box %d: got %+v, want %+v", tt.grade, tt.box, rec, tt.want)
		}
	}

	for box := 0; box <= MaxBox; box++ {
		for g := Again; g <= Easy; g++ {
			st := NewState()
			st.Boxes["x"] = BoxRecord{Box: box, Due: today}
			rec, err := Apply(st, "x", g, today)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			wantBox := NextBox(box, g, MaxBox)
			wantDue := today.AddDays(DefaultIntervals[min(wantBox, len(DefaultIntervals)-1)])
			if rec.Box != wantBox || rec.Due != wantDue {
				t.Fatalf("%s from box %d: got %+v, want box %d due %s", g, box, rec, wantBox, wantDue)
			}
			if st.Boxes["x"] != rec {
				t.Fatalf("state not updated: %+v", st.Boxes["x"])
			}
		}
	}
}

func TestApplyRejectsInvalidGrade(t *testing.T) {
	st := NewState()
	st.Boxes["x"] = BoxRecord{Box: 2, Due: NewDate(2024, time.January, 1)}
	for _, g := range []Grade{-1, 4, 10} {
		if _, err := Apply(st, "x", g, NewDate(2024, time.January, 5)); !errors.Is(err, ErrInvalidGrade) {
			t.Fatalf("grade %d: expected ErrInvalidGrade, got %v", g, err)
		}
	}
	if _, err := Apply(st, "y", Grade(7), NewDate(2024, time.January, 5)); err == nil {
		t.Fatalf("expected error for unknown id with invalid grade")
	}
	if st.Boxes["x"].Box != 2 || len(st.Boxes) != 1 {
		t.Fatalf("invalid grade must not touch state: %+v", st.Boxes)
	}
}

func TestApplyKeepsBoxInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	st := NewState()
	today := NewDate(2024, time.January, 1)
	for i := 0; i < 500; i++ {
		g := Grade(rnd.Intn(4))
		rec, err := Apply(st, "x", g, today)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if rec.Box < 0 || rec.Box > MaxBox {
			t.Fatalf("box out of range after %s: %d", g, rec.Box)
		}
		today = today.AddDays(rnd.Intn(5))
	}
}

func TestApplyClampsWithShortTable(t *testing.T) {
	st := NewState()
	st.Intervals = []int{0, 2}
	today := NewDate(2024, time.January, 1)
	rec, err := Apply(st, "x", Easy, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rec.Box != 1 || rec.Due != today.AddDays(2) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestApplyWithEmptyIntervalTable(t *testing.T) {
	st := &ReviewState{}
	today := NewDate(2024, time.January, 1)
	rec, err := Apply(st, "x", Easy, today)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rec.Box != 2 || rec.Due != today.AddDays(DefaultIntervals[2]) {
		t.Fatalf("expected default table to apply, got %+v", rec)
	}
}

func TestGraderSerializesConcurrentGrades(t *testing.T) {
	gw := store.NewMemory()
	ls := NewStore(gw)
	grader := NewGrader(ls)
	st := NewState()
	today := NewDate(2024, time.January, 1)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, g := range []Grade{Good, Hard, Easy} {
				if _, err := grader.Grade(ctx, st, id, g, today); err != nil {
					t.Errorf("grade %s: %v", id, err)
				}
			}
		}(fmt.Sprintf("w%d", i))
	}
	wg.Wait()

	if len(st.Boxes) != 20 {
		t.Fatalf("expected 20 records, got %d", len(st.Boxes))
	}
	loaded := ls.Load(ctx)
	for id, rec := range st.Boxes {
		if rec.Box != 3 {
			t.Fatalf("%s: expected box 3, got %d", id, rec.Box)
		}
		if loaded.Boxes[id] != rec {
			t.Fatalf("%s: persisted %+v, want %+v", id, loaded.Boxes[id], rec)
		}
	}
}

func TestGradeScenario(t *testing.T) {
	gw := store.NewMemory()
	st := NewState()
	grader := NewGrader(NewStore(gw))
	ctx := context.Background()
	day0 := NewDate(2024, time.January, 1)

	if !IsNew(st, "X") || !IsDue(st, "X", day0) {
		t.Fatalf("new item should be new and due")
	}

	rec, err := grader.Grade(ctx, st, "X", Good, day0)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if rec.Box != 1 || rec.Due != day0.AddDays(1) {
		t.Fatalf("after first good: %+v", rec)
	}

	day1 := day0.AddDays(1)
	rec, _ = grader.Grade(ctx, st, "X", Good, day1)
	if rec.Box != 2 || rec.Due != day0.AddDays(4) {
		t.Fatalf("after second good: %+v", rec)
	}

	day4 := day0.AddDays(4)
	rec, _ = grader.Grade(ctx, st, "X", Again, day4)
	if rec.Box != 0 || rec.Due != day4 {
		t.Fatalf("after again: %+v", rec)
	}
	if !IsDue(st, "X", day4) {
		t.Fatalf("item should be due immediately after again")
	}

	blob, err := gw.Read(ctx)
	if err != nil {
		t.Fatalf("expected persisted state: %v", err)
	}
	if len(blob) == 0 {
		t.Fatalf("expected non-empty blob")
	}
}

func TestGraderPersistsEveryGrade(t *testing.T) {
	gw := &countingGateway{Memory: store.NewMemory()}
	grader := NewGrader(NewStore(gw))
	st := NewState()
	today := NewDate(2024, time.January, 1)
	for _, g := range []Grade{Good, Hard, Easy, Again} {
		if _, err := grader.Grade(context.Background(), st, "x", g, today); err != nil {
			t.Fatalf("grade: %v", err)
		}
	}
	if _, err := grader.Grade(context.Background(), st, "x", Grade(9), today); err == nil {
		t.Fatalf("expected invalid grade error")
	}
	if gw.writes != 4 {
		t.Fatalf("expected 4 writes, got %d", gw.writes)
	}
}

func TestParseGrade(t *testing.T) {
	tests := map[string]Grade{"again": Again, "HARD": Hard, " good ": Good, "3": Easy, "0": Again}
	for in, want := range tests {
		got, err := ParseGrade(in)
		if err != nil {
			t.Fatalf("ParseGrade(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseGrade(%q) = %s, want %s", in, got, want)
		}
	}
	for _, in := range []string{"", "4", "meh", "-1"} {
		if _, err := ParseGrade(in); !errors.Is(err, ErrInvalidGrade) {
			t.Fatalf("ParseGrade(%q): expected ErrInvalidGrade, got %v", in, err)
		}
	}
}

func TestGradeForKey(t *testing.T) {
	for key, want := range map[string]Grade{"1": Again, "2": Hard, "3": Good, "4": Easy} {
		got, ok := GradeForKey(key)
		if !ok || got != want {
			t.Fatalf("GradeForKey(%q) = %s, %v", key, got, ok)
		}
	}
	for _, key := range []string{"0", "5", "a", "12", ""} {
		if _, ok := GradeForKey(key); ok {
			t.Fatalf("GradeForKey(%q) should fail", key)
		}
	}
}

func TestGradeString(t *testing.T) {
	if Easy.String() != "easy" || Grade(5).String() != "Grade(5)" {
		t.Fatalf("unexpected strings %q %q", Easy.String(), Grade(5).String())
	}
}

type countingGateway struct {
	*store.Memory
	writes int
}

func (c *countingGateway) Write(ctx context.Context, blob []byte) error {
	c.writes++
	return c.Memory.Write(ctx, blob)
}
