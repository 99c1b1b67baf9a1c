package leitner

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/vocabox/internal/store"
)

var testLoc = time.FixedZone("UTC+3", 3*60*60)

func TestLoadAbsentReturnsDefaults(t *testing.T) {
	s := NewStore(store.NewMemory())
	st := s.Load(context.Background())
	if len(st.Boxes) != 0 {
		t.Fatalf("expected no boxes, got %v", st.Boxes)
	}
	if !reflect.DeepEqual(st.Intervals, DefaultIntervals) {
		t.Fatalf("expected default intervals, got %v", st.Intervals)
	}
}

func TestLoadMalformedReturnsDefaults(t *testing.T) {
	for _, blob := range []string{"{", "[1,2]", `{"boxes":"nope"}`, "not json", ""} {
		gw := store.NewMemory()
		if err := gw.Write(context.Background(), []byte(blob)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		var ops []string
		s := NewStore(gw, WithErrorHook(func(op string, _ error) { ops = append(ops, op) }))
		st := s.Load(context.Background())
		if len(st.Boxes) != 0 || !reflect.DeepEqual(st.Intervals, DefaultIntervals) {
			t.Fatalf("blob %q: expected defaults, got %+v", blob, st)
		}
		if len(ops) != 1 || ops[0] != "decode" {
			t.Fatalf("blob %q: expected decode hook, got %v", blob, ops)
		}
	}
}

func TestLoadFillsMissingIntervals(t *testing.T) {
	gw := store.NewMemory()
	blob := `{"boxes":{"7":{"box":9,"due":"2024-05-01T21:00:00.000Z"},"8":{"box":1}}}`
	if err := gw.Write(context.Background(), []byte(blob)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st := NewStore(gw, WithLocation(testLoc)).Load(context.Background())
	if !reflect.DeepEqual(st.Intervals, DefaultIntervals) {
		t.Fatalf("expected default intervals, got %v", st.Intervals)
	}
	rec := st.Boxes["7"]
	if rec.Box != MaxBox {
		t.Fatalf("expected box clamped to %d, got %d", MaxBox, rec.Box)
	}
	if rec.Due != NewDate(2024, time.May, 2) {
		t.Fatalf("expected local day May 2, got %s", rec.Due)
	}
	if !IsDue(st, "8", NewDate(2000, time.January, 1)) {
		t.Fatalf("record without due date should be due")
	}
}

func TestSaveWritesLocalMidnightAsUTC(t *testing.T) {
	gw := store.NewMemory()
	s := NewStore(gw, WithLocation(testLoc))
	st := NewState()
	st.Boxes["42"] = BoxRecord{Box: 2, Due: NewDate(2024, time.May, 2)}
	s.Save(context.Background(), st)

	blob, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{"boxes":{"42":{"box":2,"due":"2024-05-01T21:00:00.000Z"}},"intervals":[0,1,3,7,21]}`
	if string(blob) != want {
		t.Fatalf("unexpected blob:\n%s\nwant:\n%s", blob, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	locs := []*time.Location{time.UTC, testLoc, time.FixedZone("UTC-9:30", -(9*60+30)*60)}
	if ny, err := time.LoadLocation("America/New_York"); err == nil {
		locs = append(locs, ny)
	}
	for _, loc := range locs {
		rnd := rand.New(rand.NewSource(11))
		st := NewState()
		today := NewDate(2024, time.March, 1)
		for i := 0; i < 200; i++ {
			id := strconv.Itoa(rnd.Intn(30))
			if _, err := Apply(st, id, Grade(rnd.Intn(4)), today); err != nil {
				t.Fatalf("apply: %v", err)
			}
			today = today.AddDays(rnd.Intn(3))
		}
		s := NewStore(store.NewMemory(), WithLocation(loc))
		s.Save(context.Background(), st)
		got := s.Load(context.Background())
		if !reflect.DeepEqual(got, st) {
			t.Fatalf("%s: round trip mismatch", loc)
		}
	}
}

func TestSaveFailureIsSwallowedAndReported(t *testing.T) {
	gw := &failingGateway{err: errors.New("disk full")}
	var gotOp string
	var gotErr error
	s := NewStore(gw, WithErrorHook(func(op string, err error) {
		gotOp, gotErr = op, err
	}))
	st := NewState()
	grader := NewGrader(s)
	rec, err := grader.Grade(context.Background(), st, "x", Good, NewDate(2024, time.January, 1))
	if err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if gotOp != "save" || !errors.Is(gotErr, gw.err) {
		t.Fatalf("expected save hook, got %q %v", gotOp, gotErr)
	}
	if st.Boxes["x"] != rec || rec.Box != 1 {
		t.Fatalf("in-memory state should stay authoritative: %+v", st.Boxes)
	}
}

func TestLoadReadFailureReturnsDefaults(t *testing.T) {
	gw := &failingGateway{err: errors.New("unavailable")}
	var ops []string
	st := NewStore(gw, WithErrorHook(func(op string, _ error) { ops = append(ops, op) })).Load(context.Background())
	if len(st.Boxes) != 0 {
		t.Fatalf("expected defaults")
	}
	if strings.Join(ops, ",") != "load" {
		t.Fatalf("expected load hook, got %v", ops)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	gw := store.NewMemory()
	s := NewStore(gw)
	st := NewState()
	if _, err := Apply(st, "x", Easy, NewDate(2024, time.January, 1)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	s.Save(context.Background(), st)
	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if got := s.Load(context.Background()); len(got.Boxes) != 0 {
		t.Fatalf("expected empty state after reset, got %v", got.Boxes)
	}
}

type failingGateway struct {
	err error
}

func (f *failingGateway) Read(context.Context) ([]byte, error) { return nil, f.err }
func (f *failingGateway) Write(context.Context, []byte) error  { return f.err }
func (f *failingGateway) Delete(context.Context) error         { return f.err }
func (f *failingGateway) Close() error                         { return nil }
