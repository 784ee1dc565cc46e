package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/internal/session"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

var ErrRoomError = errors.New("room error")

type Phase int

const (
	Idle Phase = iota
	Joining
	Hydrated
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Joining:
		return "joining"
	case Hydrated:
		return "hydrated"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Store is the local copy of a room's match state. Only Handle and BeginJoin
// write to it; readers get clones.
type Store struct {
	log *zap.Logger
	now func() time.Time

	mu         sync.Mutex
	state      engine.State
	phase      Phase
	accessCode string
	roomErr    string
	changed    chan struct{}
	subs       []func(engine.State)
}

func New(log *zap.Logger) *Store {
	return &Store{
		log:     logging.OrNop(log).Named("mirror"),
		now:     time.Now,
		state:   engine.NewEmptyState(),
		changed: make(chan struct{}),
	}
}

// Attach feeds every inbound event of c into the store and restarts the
// join state machine whenever c sends join_room.
func (s *Store) Attach(c *session.Client) {
	c.OnJoin(func(sess session.Session) { s.BeginJoin(sess.AccessCode) })
	c.OnAny(s.Handle)
}

// Subscribe registers fn to receive a clone of the state after every change.
// fn runs on the writer's goroutine.
func (s *Store) Subscribe(fn func(engine.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// BeginJoin enters Joining for accessCode. Joining a different room than the
// current one drops the old state.
func (s *Store) BeginJoin(accessCode string) {
	s.mu.Lock()
	if accessCode != s.accessCode {
		s.state = engine.NewEmptyState()
		s.accessCode = accessCode
	}
	s.phase = Joining
	s.roomErr = ""
	s.mu.Unlock()

	s.log.Debug("joining", zap.String("accessCode", accessCode))
	s.publish()
}

// Handle routes one inbound event.
func (s *Store) Handle(event string, data json.RawMessage) {
	switch event {
	case types.EvtConnected:
		return
	case types.EvtRoomJoined:
		s.hydrate(data)
	case types.EvtRoomError:
		var re types.RoomError
		_ = json.Unmarshal(data, &re)
		s.mu.Lock()
		s.phase = Errored
		s.roomErr = re.Error
		s.mu.Unlock()
		s.log.Warn("room error", zap.String("error", re.Error))
		s.publish()
	case types.EvtRoomLeft:
		s.mu.Lock()
		s.phase = Idle
		s.mu.Unlock()
		s.publish()
	default:
		s.apply(event, data)
	}
}

func (s *Store) hydrate(data json.RawMessage) {
	var joined types.RoomJoined
	if err := json.Unmarshal(data, &joined); err != nil {
		s.log.Warn("undecodable room_joined", zap.Error(err))
		return
	}

	s.mu.Lock()
	if joined.AccessCode != "" && s.accessCode != "" && joined.AccessCode != s.accessCode {
		s.mu.Unlock()
		s.log.Warn("room_joined for another room",
			zap.String("want", s.accessCode), zap.String("got", joined.AccessCode))
		return
	}
	if s.accessCode == "" {
		s.accessCode = joined.AccessCode
	}
	s.state = engine.Hydrate(s.state, joined.CurrentState)
	if joined.CurrentState != nil {
		s.state.LastUpdate = s.now()
	}
	s.phase = Hydrated
	s.roomErr = ""
	s.mu.Unlock()

	s.log.Info("hydrated", zap.String("accessCode", joined.AccessCode), zap.Bool("snapshot", joined.CurrentState != nil))
	s.publish()
}

// apply reduces one patch. Patches stamped for a room other than the one
// being followed are dropped.
func (s *Store) apply(event string, data json.RawMessage) {
	if !engine.Handles(event) {
		s.log.Debug("ignoring event", zap.String("event", event))
		return
	}
	env, err := frame.Envelope(data)
	if err != nil {
		s.log.Warn("dropping patch", zap.String("event", event), zap.Error(err))
		return
	}

	s.mu.Lock()
	if env.AccessCode != "" && s.accessCode != "" && env.AccessCode != s.accessCode {
		want := s.accessCode
		s.mu.Unlock()
		s.log.Warn("patch for another room", zap.String("event", event),
			zap.String("want", want), zap.String("got", env.AccessCode))
		return
	}
	next, err := engine.Apply(s.state, engine.Event{Name: event, Data: data}, s.now())
	if err == nil {
		s.state = next
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("dropping patch", zap.String("event", event), zap.Error(err))
		return
	}
	s.publish()
}

// publish wakes WaitHydrated callers and hands subscribers a clone.
func (s *Store) publish() {
	s.mu.Lock()
	close(s.changed)
	s.changed = make(chan struct{})
	subs := slices.Clone(s.subs)
	state := s.state
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state.Clone())
	}
}

func (s *Store) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Store) AccessCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessCode
}

// WaitHydrated blocks until the current join attempt is answered. A
// room_error answer is returned wrapping ErrRoomError.
func (s *Store) WaitHydrated(ctx context.Context) error {
	for {
		s.mu.Lock()
		phase, msg, ch := s.phase, s.roomErr, s.changed
		s.mu.Unlock()

		switch phase {
		case Hydrated:
			return nil
		case Errored:
			return fmt.Errorf("%w: %s", ErrRoomError, msg)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}
