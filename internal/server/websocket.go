package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/srtransform/internal/core/observability/log"
)

// session is one websocket client. The connection's read loop records the
// newest request; a single worker runs passes. A pass that finishes after a
// newer request arrived is dropped, so the client only ever sees the reply to
// its latest state.
type session struct {
	id     uuid.UUID
	conn   *websocket.Conn
	server *Server
	logger log.Log

	writeMu sync.Mutex

	mu         sync.Mutex
	pending    *ObserveRequest
	generation uint64
	latestSeq  uint64
	wake       chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:     uuid.New(),
		conn:   conn,
		server: s,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	sess.logger = s.logger.With(log.String("session", sess.id.String()))

	if !s.trackSession(sess) {
		sess.close()
		return
	}
	defer s.untrackSession(sess.id)

	sess.serve()
}

func (c *session) serve() {
	defer c.close()
	c.conn.SetReadLimit(c.server.config.MaxMessageSize)

	if err := c.write(Message{Type: MessageHello, Session: c.id.String(), Scene: c.server.summary()}); err != nil {
		c.logger.Warn("hello failed", log.Error(err))
		return
	}
	c.logger.Debug("session opened")

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.work()
	}()

	c.read()
	c.cancel()
	<-done
	c.logger.Debug("session closed")
}

func (c *session) read() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("read failed", log.Error(err))
			}
			return
		}

		var req ObserveRequest
		if err = json.Unmarshal(data, &req); err != nil || (req.Type != "" && req.Type != MessageObserve) {
			if err == nil {
				err = fmt.Errorf("unexpected message type %q", req.Type)
			}
			_ = c.write(Message{Type: MessageError, Error: fmt.Sprintf("%s: %v", ErrInvalidMessage, err)})
			continue
		}
		c.submit(req)
	}
}

// submit replaces any request that has not started yet.
func (c *session) submit(req ObserveRequest) {
	c.mu.Lock()
	c.pending = &req
	c.generation++
	c.latestSeq = req.Seq
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *session) take() (ObserveRequest, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ObserveRequest{}, 0, false
	}
	req := *c.pending
	c.pending = nil
	return req, c.generation, true
}

func (c *session) superseded(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation != generation
}

func (c *session) work() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
		}

		req, generation, ok := c.take()
		if !ok {
			continue
		}

		res, err := c.server.runner.Run(c.ctx, req.State)
		if c.ctx.Err() != nil {
			return
		}
		if c.superseded(generation) {
			c.logger.Debug("pass superseded", log.Uint64("seq", req.Seq))
			continue
		}

		msg := Message{Type: MessageApparent, Session: c.id.String(), Seq: req.Seq, Result: &res}
		if err != nil {
			msg = Message{Type: MessageError, Session: c.id.String(), Seq: req.Seq, Error: err.Error()}
		}
		if err = c.write(msg); err != nil {
			c.logger.Warn("write failed", log.Error(err))
			return
		}
	}
}

func (c *session) write(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *session) close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
}
