package hub

import (
	"context"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	State engine.State
	Reply chan *lobby.Lobby
}

type GetRoom struct {
	Code  string
	Reply chan *lobby.Lobby
}

// EnsureRoom returns the room for Code, creating it from State if needed.
type EnsureRoom struct {
	Code  string
	State engine.State
	Reply chan *lobby.Lobby
}

type RemoveRoom struct {
	Code string
}

type ListRooms struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub owns every live room, keyed by access code.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*lobby.Lobby
	opts   []lobby.Option
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub starts the hub loop. opts are applied to every room it creates.
func NewHub(parent context.Context, opts ...lobby.Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*lobby.Lobby),
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut its rooms down.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.ensure(msg.Code, msg.State)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case EnsureRoom:
				msg.Reply <- h.ensure(msg.Code, msg.State)

			case RemoveRoom:
				if lb := h.rooms[msg.Code]; lb != nil {
					lb.Inbox() <- lobby.Shutdown{}
					delete(h.rooms, msg.Code)
				}

			case ListRooms:
				codes := make([]string, 0, len(h.rooms))
				for code := range h.rooms {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string, state engine.State) *lobby.Lobby {
	if lb := h.rooms[code]; lb != nil {
		return lb
	}
	opts := append(append([]lobby.Option(nil), h.opts...), lobby.WithCode(code))
	lb := lobby.NewLobby(h.ctx, state, opts...)
	h.rooms[code] = lb
	return lb
}

func (h *Hub) shutdown() {
	for _, lb := range h.rooms {
		select {
		case lb.Inbox() <- lobby.Shutdown{}:
		default:
		}
	}
	clear(h.rooms)
	h.cancel()
}

// Room asks the hub for code's room; nil when it does not exist.
func (h *Hub) Room(ctx context.Context, code string) *lobby.Lobby {
	return h.request(ctx, func(reply chan *lobby.Lobby) HubMsg { return GetRoom{Code: code, Reply: reply} })
}

// EnsureRoom returns code's room, creating it with default state.
func (h *Hub) EnsureRoom(ctx context.Context, code string) *lobby.Lobby {
	return h.request(ctx, func(reply chan *lobby.Lobby) HubMsg {
		return EnsureRoom{Code: code, State: engine.NewEmptyState(), Reply: reply}
	})
}

func (h *Hub) request(ctx context.Context, build func(chan *lobby.Lobby) HubMsg) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	select {
	case h.inbox <- build(reply):
	case <-ctx.Done():
		return nil
	case <-h.done:
		return nil
	}
	select {
	case lb := <-reply:
		return lb
	case <-ctx.Done():
		return nil
	case <-h.done:
		return nil
	}
}
