package lobby

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

type Msg interface{ isLobbyMsg() }

// FromClient is a controller command: one of the *_update events,
// goal_scorer_add, audio_control or timer_control.
type FromClient struct {
	ClientID string
	Event    string
	Data     json.RawMessage
}

func (FromClient) isLobbyMsg() {}

// Join registers a client. Its outbox immediately receives room_joined with
// the current snapshot.
type Join struct {
	ClientID   string
	ClientType string
	Outbox     chan frame.Frame
}

func (Join) isLobbyMsg() {}

// Leave unregisters a client and closes its outbox.
type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// PrimeTimer fires the pending clock tick now.
type PrimeTimer struct{}

func (PrimeTimer) isLobbyMsg() {}

// timerFired is sent by the clock's time.AfterFunc. Fires from an older
// generation are dropped.
type timerFired struct{ Gen int }

func (timerFired) isLobbyMsg() {}

type View struct {
	Version    int
	NumClients int
	State      engine.State
	Clock      Clock
}

// Clock is the room's match clock.
type Clock struct {
	Running bool
	Seconds int
	Period  string
}

type Lobby struct {
	inbox   chan Msg
	code    string
	state   engine.State
	version int
	clients map[string]chan frame.Frame
	log     *zap.Logger
	now     func() time.Time

	clock    Clock
	tick     time.Duration
	timerGen int
	timer    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Lobby)

func WithCode(code string) Option { return func(l *Lobby) { l.code = code } }

func WithTickInterval(d time.Duration) Option { return func(l *Lobby) { l.tick = d } }

func WithLogger(log *zap.Logger) Option { return func(l *Lobby) { l.log = log } }

func NewLobby(parent context.Context, initial engine.State, opts ...Option) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan frame.Frame),
		tick:    time.Second,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logging.OrNop(l.log).Named("lobby").With(zap.String("accessCode", l.code))
	l.clock = clockFrom(initial)

	go l.loop()
	return l
}

// clockFrom recovers the clock position from the match slice.
func clockFrom(s engine.State) Clock {
	secs, err := engine.ParseClock(s.Match.MatchTime)
	if err != nil {
		secs = 0
	}
	return Clock{Seconds: secs, Period: s.Match.Period}
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.clients[msg.ClientID] = msg.Outbox
				snap := engine.Snapshot(l.state)
				l.send(msg.ClientID, types.EvtRoomJoined, types.RoomJoined{
					AccessCode:   l.code,
					ClientType:   msg.ClientType,
					CurrentState: &snap,
				})

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
				}

			case FromClient:
				if msg.Event == types.EvtTimerControl {
					l.timerControl(msg.Data)
					break
				}
				evt, ok := types.Relayed(msg.Event)
				if !ok {
					l.log.Warn("unknown command", zap.String("event", msg.Event), zap.String("client", msg.ClientID))
					break
				}
				l.commit(evt, msg.Data)

			case timerFired:
				l.onTimer(msg.Gen)

			case PrimeTimer:
				l.onTimer(l.timerGen)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.state.Clone(),
					Clock:      l.clock,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// commit applies evt to the room state and broadcasts it. Rejected events
// are not broadcast.
func (l *Lobby) commit(evt string, data json.RawMessage) bool {
	next, err := engine.Apply(l.state, engine.Event{Name: evt, Data: data}, l.now())
	if err != nil {
		l.log.Warn("rejected update", zap.String("event", evt), zap.Error(err))
		return false
	}
	l.state = next
	l.version++
	l.broadcast(frame.Frame{Event: evt, Data: data})
	return true
}

func (l *Lobby) commitValue(evt string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.log.Error("encode", zap.String("event", evt), zap.Error(err))
		return
	}
	l.commit(evt, data)
}

func (l *Lobby) shutdown() {
	l.stopTimer()
	for id, ch := range l.clients {
		close(ch)
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) send(id, evt string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.log.Error("encode", zap.String("event", evt), zap.Error(err))
		return
	}
	ch := l.clients[id]
	select {
	case ch <- frame.Frame{Event: evt, Data: data}:
	default:
		l.drop(id, ch)
	}
}

func (l *Lobby) broadcast(f frame.Frame) {
	for id, ch := range l.clients {
		select {
		case ch <- f:
		default:
			l.drop(id, ch)
		}
	}
}

func (l *Lobby) drop(id string, ch chan frame.Frame) {
	l.log.Info("dropping slow client", zap.String("client", id))
	close(ch)
	delete(l.clients, id)
}

// Inbox exposes the lobby's message channel to the hub and the ws layer.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) Code() string { return l.code }

// Done is closed once the lobby has shut down and closed every outbox.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }
