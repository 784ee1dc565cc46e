package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/accesscode"
	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/internal/hub"
	"github.com/ngoclaithe/scoliv2-sub000/internal/lobby"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

const (
	readLimit    = 1 << 20
	outboxSize   = 64
	joinTimeout  = 30 * time.Second
	writeTimeout = 5 * time.Second
)

type Options struct {
	// OriginPatterns is passed to websocket.Accept. Empty means same origin only.
	OriginPatterns []string
}

// Handler upgrades the request, waits for join_room, and then relays the
// client's commands into its room until the socket closes.
func Handler(h *hub.Hub, reg accesscode.Registry, log *zap.Logger, opts Options) http.HandlerFunc {
	log = logging.OrNop(log).Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: opts.OriginPatterns})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(readLimit)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		clientID := randID(12)
		clog := log.With(zap.String("socketId", clientID))

		if err := write(ctx, conn, types.EvtConnected, types.Connected{SocketID: clientID}); err != nil {
			return
		}

		lb, join, err := awaitJoin(ctx, conn, h, reg, clog)
		if err != nil {
			clog.Debug("no join", zap.Error(err))
			return
		}
		clog = clog.With(zap.String("accessCode", lb.Code()), zap.String("clientType", join.ClientType))

		out, err := enter(ctx, lb, clientID, join.ClientType)
		if err != nil {
			clog.Info("join failed", zap.Error(err))
			_ = write(ctx, conn, types.EvtRoomError, types.RoomError{Error: "room closed"})
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{ClientID: clientID}:
			case <-lb.Done():
			case <-time.After(time.Second):
			}
		}()
		clog.Info("joined")

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			writer(ctx, conn, out, lb.Done(), clog)
		}()

		for {
			_, raw, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("left")
				default:
					clog.Debug("read ended", zap.Error(err))
				}
				return
			}

			f, err := frame.Decode(raw)
			if err != nil {
				_ = write(ctx, conn, types.EvtRoomError, types.RoomError{Error: "bad frame"})
				continue
			}
			if f.Event == types.EvtJoinRoom {
				continue
			}
			select {
			case lb.Inbox() <- lobby.FromClient{ClientID: clientID, Event: f.Event, Data: f.Data}:
			case <-writerDone:
				return
			}
		}
	}
}

// awaitJoin reads until a join_room with a usable access code arrives.
// Rejected joins are answered with room_error and the socket stays open.
func awaitJoin(ctx context.Context, conn *websocket.Conn, h *hub.Hub, reg accesscode.Registry, log *zap.Logger) (*lobby.Lobby, types.JoinRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return nil, types.JoinRoom{}, err
		}
		f, err := frame.Decode(raw)
		if err != nil || f.Event != types.EvtJoinRoom {
			_ = write(ctx, conn, types.EvtRoomError, types.RoomError{Error: "join_room expected"})
			continue
		}

		var join types.JoinRoom
		if err := json.Unmarshal(f.Data, &join); err != nil || join.AccessCode == "" {
			_ = write(ctx, conn, types.EvtRoomError, types.RoomError{Error: "missing access code"})
			continue
		}

		code, err := reg.Verify(ctx, join.AccessCode)
		if err != nil {
			log.Info("join rejected", zap.String("accessCode", join.AccessCode), zap.Error(err))
			_ = write(ctx, conn, types.EvtRoomError, types.RoomError{Error: joinError(err)})
			continue
		}

		lb := h.EnsureRoom(ctx, code.Code)
		if lb == nil {
			return nil, join, errors.New("hub unavailable")
		}
		if join.ClientType == "" {
			join.ClientType = types.ClientDisplay
		}
		return lb, join, nil
	}
}

var errRoomClosed = errors.New("room closed")

// enter registers a new outbox with lb. The room may shut down between
// EnsureRoom and here, so the send never blocks on a dead inbox.
func enter(ctx context.Context, lb *lobby.Lobby, clientID, clientType string) (chan frame.Frame, error) {
	select {
	case <-lb.Done():
		return nil, errRoomClosed
	default:
	}

	out := make(chan frame.Frame, outboxSize)
	select {
	case lb.Inbox() <- lobby.Join{ClientID: clientID, ClientType: clientType, Outbox: out}:
		return out, nil
	case <-lb.Done():
		return nil, errRoomClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func joinError(err error) string {
	switch {
	case errors.Is(err, accesscode.ErrNotFound):
		return "invalid access code"
	case errors.Is(err, accesscode.ErrInactive):
		return "access code expired"
	default:
		return "access code verification failed"
	}
}

// writer drains out until the room closes it or goes away. A Join that
// landed in a dead room's inbox never gets its outbox closed, hence gone.
func writer(ctx context.Context, conn *websocket.Conn, out <-chan frame.Frame, gone <-chan struct{}, log *zap.Logger) {
	for {
		var f frame.Frame
		select {
		case <-ctx.Done():
			return
		case <-gone:
			_ = conn.Close(websocket.StatusGoingAway, "room closed")
			return
		case next, ok := <-out:
			if !ok {
				// the room dropped us or shut down
				_ = conn.Close(websocket.StatusGoingAway, "room closed")
				return
			}
			f = next
		}

		raw, err := json.Marshal(f)
		if err != nil {
			log.Error("encode frame", zap.String("event", f.Event), zap.Error(err))
			continue
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err = conn.Write(wctx, websocket.MessageText, raw)
		cancel()
		if err != nil {
			return
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, event string, data any) error {
	raw, err := frame.Encode(event, data)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, raw)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(charset[rand.IntN(len(charset))])
	}
	return b.String()
}
