package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"quizroom-service/domain"
	"quizroom-service/internal/api/game"
)

// Conn is the part of a websocket connection a Session needs.
// *github.com/gofiber/contrib/websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	Close() error
}

type Config struct {
	MailboxSize    int
	RateLimit      float64
	RateBurst      int
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Hub serves websocket connections against one room registry.
type Hub struct {
	rooms    *game.RoomManager
	saves    game.SaveStore
	cfg      Config
	handlers []InboundHandler
	log      *zap.Logger

	wg sync.WaitGroup
}

func NewHub(rooms *game.RoomManager, saves game.SaveStore, cfg Config, log *zap.Logger) *Hub {
	return &Hub{
		rooms:    rooms,
		saves:    saves,
		cfg:      cfg,
		handlers: DefaultHandlers(),
		log:      log,
	}
}

// Serve runs a session on conn until the connection ends. The leave
// sequence has run by the time it returns.
func (h *Hub) Serve(ctx context.Context, conn Conn) {
	h.wg.Add(1)
	defer h.wg.Done()
	newSession(h, conn).run(ctx)
}

// Wait blocks until every session served so far has finished.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// errTerminate ends the receive duty after a handler finished normally.
var errTerminate = errors.New("terminate session")

// Session is one connection's state: which room and under which name it
// plays, and the mailbox its send duty drains.
type Session struct {
	id      uuid.UUID
	hub     *Hub
	conn    Conn
	mailbox *game.Mailbox
	limiter *rate.Limiter
	log     *zap.Logger

	room     *game.Room
	username string
	url      string

	leaveOnce sync.Once
}

func newSession(h *Hub, conn Conn) *Session {
	id := uuid.New()
	limit := rate.Inf
	if h.cfg.RateLimit > 0 {
		limit = rate.Limit(h.cfg.RateLimit)
	}
	return &Session{
		id:      id,
		hub:     h,
		conn:    conn,
		mailbox: game.NewMailbox(h.cfg.MailboxSize),
		limiter: rate.NewLimiter(limit, max(h.cfg.RateBurst, 1)),
		log:     h.log.With(zap.String("session_id", id.String())),
	}
}

// run starts the send duty on its own goroutine and performs the receive
// duty on the calling one. Whichever ends first takes the other down.
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.hub.cfg.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.hub.cfg.MaxMessageSize)
	}
	s.log.Debug("connection opened")

	sent := make(chan struct{})
	go func() {
		defer close(sent)
		s.writePump(ctx)
		s.conn.Close()
	}()
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	s.readPump(ctx)
	s.leave()
	s.mailbox.Close()
	<-sent
	s.log.Debug("connection closed", zap.String("username", s.username))
}

func (s *Session) readPump(ctx context.Context) {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || ctx.Err() != nil {
				s.log.Debug("client connection closed")
			} else {
				s.log.Info("client read error", zap.Error(err))
			}
			return
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		msg, err := DecodeInbound(payload)
		if err != nil {
			s.replyError(err)
			continue
		}
		if errors.Is(s.dispatch(msg), errTerminate) {
			return
		}
	}
}

// dispatch runs msg through every handler. Protocol errors are answered to
// this connection only.
func (s *Session) dispatch(msg domain.Inbound) error {
	handled := false
	for _, handler := range s.hub.handlers {
		ok, err := handler(s, msg)
		if !ok {
			continue
		}
		handled = true
		if errors.Is(err, errTerminate) {
			return err
		}
		if err != nil {
			s.log.Debug("protocol error",
				zap.String("type", string(msg.InboundType())), zap.Error(err))
			s.replyError(err)
		}
	}
	if !handled {
		s.replyError(domain.ErrUnknownMessageType)
	}
	return nil
}

func (s *Session) writePump(ctx context.Context) {
	var ping <-chan time.Time
	if s.hub.cfg.PingPeriod > 0 {
		ticker := time.NewTicker(s.hub.cfg.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}

	outbox := make(chan domain.Outbound)
	go func() {
		defer close(outbox)
		for {
			msg, err := s.mailbox.Receive(ctx)
			if err != nil {
				return
			}
			select {
			case outbox <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-outbox:
			if !ok {
				s.write(websocket.CloseMessage, []byte{})
				return
			}
			frame, err := domain.EncodeOutbound(msg)
			if err != nil {
				s.log.Error("failed to encode message", zap.Error(err))
				continue
			}
			if err := s.write(websocket.TextMessage, frame); err != nil {
				s.log.Info("websocket write error", zap.Error(err))
				return
			}
		case <-ping:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) write(messageType int, data []byte) error {
	if s.hub.cfg.WriteWait > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
	}
	return s.conn.WriteMessage(messageType, data)
}

// leave runs the leave sequence at most once per connection, whether the
// client asked to leave or the connection dropped.
func (s *Session) leave() {
	s.leaveOnce.Do(func() {
		if s.room == nil {
			return
		}
		s.room.Broadcast(domain.RemovedFromRoom{Username: s.username})
		s.room.Leave(s.username)
	})
}

func (s *Session) reply(msg domain.Outbound) {
	if err := s.mailbox.Put(msg); err != nil {
		s.log.Debug("reply not queued", zap.String("type", string(msg.OutboundType())), zap.Error(err))
	}
}

func (s *Session) replyError(err error) {
	s.reply(domain.ErrorMessage{Error: err.Error()})
}

// currentRoom returns the room this session plays in. A room closed by
// another host counts as none.
func (s *Session) currentRoom() (*game.Room, error) {
	if s.room == nil || s.room.Closed() {
		return nil, domain.ErrNotInRoom
	}
	return s.room, nil
}

func (s *Session) enter(room *game.Room, username, url string) {
	s.room = room
	s.username = username
	s.url = url
	s.log = s.hub.log.With(
		zap.String("session_id", s.id.String()),
		zap.String("room_code", room.Code()),
		zap.String("username", username))
}
