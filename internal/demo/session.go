package demo

import (
	"sync"
	"time"

	"cipherlab/internal/catalogue"
)

// Session is the demo state owned by one page instance.
type Session struct {
	ID   string
	spec catalogue.Spec

	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

func newSession(id string, spec catalogue.Spec, now time.Time) *Session {
	return &Session{ID: id, spec: spec, state: NewState(spec), lastSeen: now}
}

func (s *Session) Spec() catalogue.Spec { return s.spec }

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies an edit action and returns the resulting state.
func (s *Session) Dispatch(a Action) (State, error) {
	if !a.IsEdit() {
		return s.Snapshot(), &Error{Code: UnsupportedSize, Message: "action " + string(a.Type) + " cannot be dispatched directly"}
	}
	return s.apply(a)
}

func (s *Session) apply(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Reduce(s.spec, s.state, a)
	s.state = next
	return next.clone(), err
}

// begin validates (when validate is set) and marks the session busy in one
// critical section, so two requests can never both start work.
func (s *Session) begin(validate func(State) ([]ValidationResult, bool)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsProcessing {
		return s.state.clone(), ErrBusy
	}
	if validate != nil {
		results, ok := validate(s.state)
		s.state, _ = Reduce(s.spec, s.state, Action{Type: validated, results: results})
		if !ok {
			return s.state.clone(), failures(results)
		}
	}
	next, err := Reduce(s.spec, s.state, Action{Type: workStarted})
	if err != nil {
		return s.state.clone(), err
	}
	s.state = next
	return next.clone(), nil
}

// beginSized is begin for generation: a non-zero size is selected in the
// same critical section. The previous size is returned so a failed run can
// put it back.
func (s *Session) beginSized(size int) (State, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.KeySizeBits
	next := s.state
	var err error
	if size != 0 {
		if next, err = Reduce(s.spec, next, Action{Type: ChangeKeySize, Size: size}); err != nil {
			return s.state.clone(), prev, err
		}
	}
	if next, err = Reduce(s.spec, next, Action{Type: workStarted}); err != nil {
		return s.state.clone(), prev, err
	}
	s.state = next
	return next.clone(), prev, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
