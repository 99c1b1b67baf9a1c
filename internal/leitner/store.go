package leitner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/verte-zerg/vocabox/internal/store"
)

// ErrorHook observes persistence failures the Store otherwise swallows.
type ErrorHook func(op string, err error)

// Store loads, saves and resets the review state through a gateway.
// Load and Save failures go to the error hook and never reach the caller.
type Store struct {
	mu      sync.Mutex
	gw      store.Gateway
	loc     *time.Location
	onError ErrorHook
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithErrorHook sets the hook for swallowed persistence errors.
func WithErrorHook(hook ErrorHook) StoreOption {
	return func(s *Store) {
		s.onError = hook
	}
}

// WithLocation sets the location whose midnight stands for a calendar day
// in the persisted blob. Defaults to time.Local.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewStore returns a Store backed by gw.
func NewStore(gw store.Gateway, opts ...StoreOption) *Store {
	s := &Store{gw: gw, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the store's calendar location.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Load returns the persisted state, or a fresh default state when the record
// is absent, unreadable or malformed.
func (s *Store) Load(ctx context.Context) *ReviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, err := s.gw.Read(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.report("load", err)
		}
		return NewState()
	}
	st, err := decodeState(blob, s.loc)
	if err != nil {
		s.report("decode", err)
		return NewState()
	}
	return st
}

// Save persists the full state.
func (s *Store) Save(ctx context.Context, st *ReviewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, st)
}

// save encodes and writes st. The caller holds s.mu.
func (s *Store) save(ctx context.Context, st *ReviewState) {
	blob, err := encodeState(st, s.loc)
	if err != nil {
		s.report("encode", err)
		return
	}
	if err := s.gw.Write(ctx, blob); err != nil {
		s.report("save", err)
	}
}

// Reset deletes the persisted record so the next Load returns defaults.
// It is idempotent. The error is returned and also passed to the error hook.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Delete(ctx); err != nil {
		s.report("reset", err)
		return err
	}
	return nil
}

func (s *Store) report(op string, err error) {
	if s.onError != nil {
		s.onError(op, err)
	}
}
