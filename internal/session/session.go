package session

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

const readLimit = 1 << 20

type Config struct {
	URL               string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	DialTimeout       time.Duration
	WriteTimeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.ReconnectAttempts < 0 {
		c.ReconnectAttempts = 0
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 20 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Session describes the room membership of a Client.
type Session struct {
	AccessCode string
	ClientType string
	SocketID   string
	Connected  bool
}

// Handler receives one inbound event. Handlers run on the reader goroutine,
// in arrival order, and must not call Disconnect.
type Handler func(event string, data json.RawMessage)

// Client keeps a single websocket to the relay for one access code at a time.
type Client struct {
	cfg Config
	log *zap.Logger

	mu      sync.RWMutex
	conn    *websocket.Conn
	session Session
	cancel  context.CancelFunc
	done    chan struct{}
	gen     uint64

	hmu      sync.RWMutex
	handlers map[string][]Handler
	any      []Handler
	status   []func(bool)
	joins    []func(Session)
}

func New(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:      cfg.withDefaults(),
		log:      logging.OrNop(log).Named("session"),
		handlers: make(map[string][]Handler),
	}
}

// Connect joins the room for accessCode. It returns once the first dial has
// finished; a failed dial is retried in the background under the reconnect
// policy. Calling Connect again with the same pair is a no-op.
func (c *Client) Connect(ctx context.Context, accessCode, clientType string) Session {
	c.mu.RLock()
	same := c.cancel != nil && c.session.AccessCode == accessCode && c.session.ClientType == clientType
	current := c.session
	c.mu.RUnlock()
	if same {
		return current
	}

	c.Disconnect()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.session = Session{AccessCode: accessCode, ClientType: clientType}
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	dialCtx, stop := context.WithCancel(runCtx)
	release := context.AfterFunc(ctx, stop)
	conn := c.dial(dialCtx, gen)
	release()
	stop()
	if conn == nil {
		c.log.Warn("initial connect failed, retrying in background",
			zap.String("accessCode", accessCode), zap.String("url", c.cfg.URL))
	}

	go c.run(runCtx, gen, conn, done)
	return c.Session()
}

// Disconnect closes the transport and stops reconnecting. Safe to call when
// not connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	cancel, done, conn := c.cancel, c.done, c.conn
	wasConnected := c.session.Connected
	c.cancel, c.done, c.conn = nil, nil, nil
	c.session = Session{}
	c.gen++
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "disconnect")
	}
	if cancel != nil {
		cancel()
		<-done
	}
	if wasConnected {
		c.notifyStatus(false)
	}
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Connected
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Emit stamps data with the session's access code and a timestamp and writes
// it. It reports false, without queueing, when there is no live transport.
func (c *Client) Emit(event string, data any) bool {
	c.mu.RLock()
	conn, code := c.conn, c.session.AccessCode
	c.mu.RUnlock()
	if conn == nil {
		c.log.Warn("emit while disconnected", zap.String("event", event))
		return false
	}

	payload, err := frame.Stamp(data, code, time.Now())
	if err != nil {
		c.log.Error("stamp payload", zap.String("event", event), zap.Error(err))
		return false
	}
	raw, err := json.Marshal(frame.Frame{Event: event, Data: payload})
	if err != nil {
		c.log.Error("encode frame", zap.String("event", event), zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.WriteTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, raw); err != nil {
		c.log.Warn("write failed", zap.String("event", event), zap.Error(err))
		return false
	}
	return true
}

// On registers h for one event name.
func (c *Client) On(event string, h Handler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

// OnAny registers h for every inbound event, after the per-event handlers.
func (c *Client) OnAny(h Handler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.any = append(c.any, h)
}

func (c *Client) OnStatus(fn func(connected bool)) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.status = append(c.status, fn)
}

// OnJoin is called each time join_room is sent, including after a reconnect.
func (c *Client) OnJoin(fn func(Session)) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.joins = append(c.joins, fn)
}

func (c *Client) run(ctx context.Context, gen uint64, conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	attempts := 0
	for {
		if conn != nil {
			attempts = 0
			c.read(ctx, conn)
			c.dropConn(conn)
		}
		if ctx.Err() != nil || !c.current(gen) {
			return
		}
		if attempts >= c.cfg.ReconnectAttempts {
			c.log.Error("giving up reconnecting", zap.Int("attempts", attempts))
			c.mu.Lock()
			if c.gen == gen {
				c.cancel()
				c.cancel, c.done = nil, nil
			}
			c.mu.Unlock()
			return
		}
		attempts++

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
		c.log.Info("reconnecting", zap.Int("attempt", attempts))
		conn = c.dial(ctx, gen)
	}
}

func (c *Client) current(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen == gen
}

// dial opens the transport and sends join_room. It returns nil on failure.
func (c *Client) dial(ctx context.Context, gen uint64) *websocket.Conn {
	dctx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dctx, c.cfg.URL, nil)
	if err != nil {
		c.log.Warn("dial failed", zap.String("url", c.cfg.URL), zap.Error(err))
		return nil
	}
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	if ctx.Err() != nil || c.gen != gen {
		c.mu.Unlock()
		_ = conn.CloseNow()
		return nil
	}
	c.conn = conn
	c.session.Connected = true
	c.session.SocketID = ""
	sess := c.session
	c.mu.Unlock()

	c.log.Info("connected", zap.String("accessCode", sess.AccessCode), zap.String("clientType", sess.ClientType))
	c.notifyStatus(true)

	c.Emit(types.EvtJoinRoom, types.JoinRoom{
		AccessCode: sess.AccessCode,
		ClientType: sess.ClientType,
		Timestamp:  time.Now().UnixMilli(),
		ViewType:   types.ViewIntro,
	})
	c.notifyJoin(sess)
	return conn
}

func (c *Client) read(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("connection closed", zap.Error(err))
			default:
				if ctx.Err() == nil {
					c.log.Warn("read failed", zap.Error(err))
				}
			}
			return
		}

		f, err := frame.Decode(raw)
		if err != nil {
			c.log.Warn("dropping frame", zap.Error(err))
			continue
		}
		if f.Event == types.EvtConnected {
			var hello types.Connected
			if json.Unmarshal(f.Data, &hello) == nil {
				c.mu.Lock()
				if c.conn == conn {
					c.session.SocketID = hello.SocketID
				}
				c.mu.Unlock()
			}
		}
		c.dispatch(f.Event, f.Data)
	}
}

func (c *Client) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	owned := c.conn == conn
	if owned {
		c.conn = nil
		c.session.Connected = false
		c.session.SocketID = ""
	}
	c.mu.Unlock()

	_ = conn.CloseNow()
	if owned {
		c.notifyStatus(false)
	}
}

func (c *Client) dispatch(event string, data json.RawMessage) {
	c.hmu.RLock()
	hs := slices.Concat(c.handlers[event], c.any)
	c.hmu.RUnlock()

	for _, h := range hs {
		h(event, data)
	}
}

func (c *Client) notifyStatus(connected bool) {
	c.hmu.RLock()
	fns := slices.Clone(c.status)
	c.hmu.RUnlock()
	for _, fn := range fns {
		fn(connected)
	}
}

func (c *Client) notifyJoin(s Session) {
	c.hmu.RLock()
	fns := slices.Clone(c.joins)
	c.hmu.RUnlock()
	for _, fn := range fns {
		fn(s)
	}
}
