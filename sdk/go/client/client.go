// Package client talks to the preview server's websocket endpoint.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
	"github.com/zeusync/srtransform/internal/server"
)

// Client holds one websocket session. Observe may be called as often as the
// host likes; the server only answers the newest state.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	session string
	scene   *server.SceneSummary
	seq     atomic.Uint64

	// streamMu guards stream, which is replaced on every Connect.
	streamMu sync.Mutex
	stream   *stream

	connected atomic.Bool
	closed    atomic.Bool
	done      chan struct{}

	config Config
	logger log.Log

	workerGroup sync.WaitGroup
}

// stream is the inbound side of one connection. incoming is closed when its
// read loop exits; err is set before that.
type stream struct {
	incoming chan server.Message
	err      error
}

// Config holds configuration for the client
type Config struct {
	// ServerAddr is host:port of the preview server.
	ServerAddr        string
	ConnectTimeout    time.Duration
	WriteTimeout      time.Duration
	MessageBufferSize int
	LogLevel          log.Level
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() Config {
	return Config{
		ServerAddr:        "localhost:8787",
		ConnectTimeout:    10 * time.Second,
		WriteTimeout:      5 * time.Second,
		MessageBufferSize: 16,
		LogLevel:          log.LevelInfo,
	}
}

func NewClient(config Config) *Client {
	if config.MessageBufferSize <= 0 {
		config.MessageBufferSize = 1
	}
	return &Client{
		done:   make(chan struct{}),
		config: config,
		logger: log.New(config.LogLevel).With(log.String("component", "client")),
	}
}

// Connect dials the server and waits for its hello. After the server drops
// the connection, Connect may be called again to open a new session.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if c.connected.Load() {
		return ErrAlreadyConnected
	}
	// The previous read loop has exited or is about to; release its socket.
	c.workerGroup.Wait()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.DialContext(connectCtx, u.String(), nil)
	if err != nil {
		if errors.Is(connectCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrConnectionTimeout, err)
		}
		c.logger.Error("Failed to connect to server", log.String("addr", c.config.ServerAddr), log.Error(err))
		return err
	}

	if deadline, ok := connectCtx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	var hello server.Message
	if err = conn.ReadJSON(&hello); err != nil || hello.Type != server.MessageHello {
		_ = conn.Close()
		if err == nil {
			err = fmt.Errorf("%w: expected hello, got %q", ErrInvalidMessage, hello.Type)
		}
		return err
	}
	_ = conn.SetReadDeadline(time.Time{})

	st := &stream{incoming: make(chan server.Message, c.config.MessageBufferSize)}
	c.streamMu.Lock()
	c.stream = st
	c.streamMu.Unlock()

	c.conn = conn
	c.session = hello.Session
	c.scene = hello.Scene
	c.connected.Store(true)
	c.logger.Info("Connected to server", log.String("session", c.session))

	c.workerGroup.Add(1)
	go c.readLoop(conn, st)
	return nil
}

// Session is the id the server assigned on connect.
func (c *Client) Session() string { return c.session }

// Scene is the summary sent with the hello message.
func (c *Client) Scene() *server.SceneSummary { return c.scene }

// Observe submits a new observation state and returns its sequence number.
func (c *Client) Observe(state transform.ObservationState) (uint64, error) {
	if c.closed.Load() {
		return 0, ErrClientClosed
	}
	if !c.connected.Load() {
		return 0, ErrNotConnected
	}

	seq := c.seq.Add(1)
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout)); err != nil {
		return 0, err
	}
	if err := c.conn.WriteJSON(server.ObserveRequest{Type: server.MessageObserve, Seq: seq, State: state}); err != nil {
		return 0, err
	}
	c.logger.Debug("Observe sent", log.Uint64("seq", seq), log.Float64("tobs", state.ObservationTime))
	return seq, nil
}

// Next returns the next message from the current connection.
func (c *Client) Next(ctx context.Context) (server.Message, error) {
	c.streamMu.Lock()
	st := c.stream
	c.streamMu.Unlock()
	if st == nil {
		return server.Message{}, ErrNotConnected
	}

	select {
	case msg, ok := <-st.incoming:
		if !ok {
			if st.err != nil {
				return server.Message{}, st.err
			}
			return server.Message{}, ErrNotConnected
		}
		return msg, nil
	case <-ctx.Done():
		return server.Message{}, ctx.Err()
	}
}

// ObserveAndWait submits state and waits for its reply, skipping replies to
// older requests still in flight.
func (c *Client) ObserveAndWait(ctx context.Context, state transform.ObservationState) (scene.Result, error) {
	seq, err := c.Observe(state)
	if err != nil {
		return scene.Result{}, err
	}
	for {
		msg, err := c.Next(ctx)
		if err != nil {
			return scene.Result{}, err
		}
		if msg.Seq < seq {
			continue
		}
		switch msg.Type {
		case server.MessageApparent:
			if msg.Result == nil {
				return scene.Result{}, ErrInvalidMessage
			}
			return *msg.Result, nil
		case server.MessageError:
			return scene.Result{}, fmt.Errorf("%w: %s", ErrRemote, msg.Error)
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, st *stream) {
	defer c.workerGroup.Done()
	defer close(st.incoming)
	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !c.closed.Load() {
				st.err = err
				c.logger.Warn("Read failed", log.Error(err))
			}
			c.connected.Store(false)
			return
		}
		select {
		case st.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the connection and releases all resources
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)

	var err error
	if c.conn != nil {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	}
	c.workerGroup.Wait()
	c.connected.Store(false)
	c.logger.Info("Client closed")
	return err
}
