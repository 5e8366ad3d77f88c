package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
)

// Runner computes one full pass over a scene. *scene.Runner implements it.
type Runner interface {
	Run(ctx context.Context, state transform.ObservationState) (scene.Result, error)
	Scene() *scene.Scene
}

// Server is the preview endpoint for one loaded scene. Every request or
// websocket update triggers a fresh pass from rest-frame geometry.
type Server struct {
	runner   Runner
	config   Config
	logger   log.Log
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	// Session management
	sessions     sync.Map // map[uuid.UUID]*session
	sessionCount int64    // atomic

	// Server state. lifecycleMu orders session registration against Stop.
	lifecycleMu sync.Mutex
	running     atomic.Bool
	closed      atomic.Bool

	workerGroup sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	ListenAddr      string
	WriteTimeout    time.Duration
	MaxMessageSize  int64
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      net.JoinHostPort(scene.DefaultHost, strconv.Itoa(scene.DefaultPort)),
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  64 * 1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// ConfigFromScene applies the scene's server section to the defaults.
func ConfigFromScene(sc scene.ServerConfig) Config {
	cfg := DefaultServerConfig()
	host, port := sc.Host, sc.Port
	if host == "" {
		host = scene.DefaultHost
	}
	if port == 0 {
		port = scene.DefaultPort
	}
	cfg.ListenAddr = net.JoinHostPort(host, strconv.Itoa(port))
	return cfg
}

func NewServer(runner Runner, config Config, logger log.Log) *Server {
	return &Server{
		runner: runner,
		config: config,
		logger: logger.Named("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler exposes the routes without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scene", s.handleScene)
	mux.HandleFunc("POST /apparent", s.handleApparent)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", log.Error(err))
		}
	}()

	s.logger.Info("preview server started", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address, valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts down the HTTP server and closes every websocket session.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return ErrServerNotRunning
	}
	s.lifecycleMu.Lock()
	s.closed.Store(true)
	s.lifecycleMu.Unlock()

	err := s.httpServer.Shutdown(ctx)
	s.sessions.Range(func(_, value any) bool {
		value.(*session).close()
		return true
	})
	s.workerGroup.Wait()
	s.running.Store(false)

	s.logger.Info("preview server stopped")
	return err
}

// SessionCount is the number of open websocket sessions.
func (s *Server) SessionCount() int64 {
	return atomic.LoadInt64(&s.sessionCount)
}

func (s *Server) summary() *SceneSummary {
	sc := s.runner.Scene()
	out := &SceneSummary{
		Observer: sc.Observer.State(),
		Objects:  make([]ObjectSummary, 0, len(sc.Objects)),
	}
	for _, o := range sc.Objects {
		out.Objects = append(out.Objects, ObjectSummary{
			Name:        o.Name,
			Vertices:    len(o.Vertices),
			Fingerprint: fmt.Sprintf("%016x", o.Fingerprint()),
		})
	}
	return out
}

// trackSession registers sess unless the server is shutting down. A tracked
// session is closed by Stop and waited for.
func (s *Server) trackSession(sess *session) bool {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.workerGroup.Add(1)
	s.addSession(sess)
	return true
}

func (s *Server) untrackSession(id uuid.UUID) {
	s.removeSession(id)
	s.workerGroup.Done()
}

func (s *Server) addSession(sess *session) {
	s.sessions.Store(sess.id, sess)
	atomic.AddInt64(&s.sessionCount, 1)
}

func (s *Server) removeSession(id uuid.UUID) {
	if _, ok := s.sessions.LoadAndDelete(id); ok {
		atomic.AddInt64(&s.sessionCount, -1)
	}
}
