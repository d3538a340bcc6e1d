// Package stream serves runs to browser renderers over websockets. Each
// connection owns its own engine; the client sends action codes and receives
// one snapshot per frame.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
	"github.com/vovakirdan/skyline-sprint/internal/metrics"
	"github.com/vovakirdan/skyline-sprint/internal/storage"
)

// ProtocolVersion is sent in the hello message.
const ProtocolVersion = 1

// Config configures a Server.
type Config struct {
	Address string
	FPS     int
	// Runner returns the balance for a new connection.
	Runner func(daily bool) config.RunnerConfig

	Logger  *log.Logger
	Metrics *metrics.Collector
	Store   *storage.Store
}

// DefaultConfig returns a config listening on :8080 at 60 fps.
func DefaultConfig() Config {
	return Config{
		Address: ":8080",
		FPS:     60,
		Runner:  func(bool) config.RunnerConfig { return config.DefaultRunnerConfig() },
	}
}

// Server hosts websocket sessions plus /metrics and /healthz.
type Server struct {
	cfg      Config
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// clientMessage is what browsers send.
type clientMessage struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
}

// serverMessage is what the server sends.
type serverMessage struct {
	Type     string           `json:"type"`
	Version  int              `json:"version,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Events   []engine.Event   `json:"events,omitempty"`
	Summary  *engine.Summary  `json:"summary,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// NewServer creates a server. Missing config fields take their defaults.
func NewServer(cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Address == "" {
		cfg.Address = def.Address
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.Runner == nil {
		cfg.Runner = def.Runner
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.Metrics != nil {
		mux.Handle("/metrics", s.cfg.Metrics.Handler())
	}
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting stream server", "address", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stream: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down stream server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleWS upgrades the request and runs one session. Query parameters:
// mode=daily selects the daily challenge, seed=N pins the seed.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	daily := q.Get("mode") == string(engine.ModeDaily)

	opts := engine.Options{
		Daily:    daily,
		Logger:   s.logger,
		Recorder: recorderOrNil(s.cfg.Metrics),
	}
	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		opts.Seed = engine.SeedPtr(uint32(seed))
	}

	eng, err := engine.New(s.cfg.Runner(daily), opts)
	if err != nil {
		s.logger.Error("cannot create engine", "err", err)
		http.Error(w, "engine unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	done := s.cfg.Metrics.SessionOpened("ws")
	defer done()

	s.logger.Info("session started", "remote", r.RemoteAddr, "mode", eng.Mode(), "seed", eng.Seed())
	newSession(s, conn, eng).run(r.Context())
	s.logger.Info("session ended", "remote", r.RemoteAddr, "mode", eng.Mode(), "seed", eng.Seed())
}

// recorderOrNil keeps a nil collector from becoming a non-nil interface.
func recorderOrNil(c *metrics.Collector) engine.Recorder {
	if c == nil {
		return nil
	}
	return c
}

type timedInput struct {
	action core.Action
	at     time.Duration
}

type session struct {
	srv   *Server
	conn  *websocket.Conn
	eng   *engine.Engine
	start time.Time
	saved bool
}

func newSession(srv *Server, conn *websocket.Conn, eng *engine.Engine) *session {
	return &session{srv: srv, conn: conn, eng: eng}
}

func (s *session) now() time.Duration {
	return time.Since(s.start)
}

// run owns the engine: the reader goroutine only parses and forwards.
func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.start = time.Now()
	s.eng.Start()

	inputs := make(chan timedInput, 64)
	go s.read(ctx, cancel, inputs)

	snap := s.eng.Snapshot()
	if err := s.write(serverMessage{Type: "hello", Version: ProtocolVersion, Snapshot: &snap}); err != nil {
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.srv.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case in := <-inputs:
			s.eng.Input(in.action, in.at)
		case <-ticker.C:
			if err := s.frame(); err != nil {
				return
			}
		}
	}
}

func (s *session) frame() error {
	f, err := s.eng.Frame(s.now())
	if err != nil {
		return err
	}
	if err := s.write(serverMessage{Type: "frame", Snapshot: &f.Snapshot, Events: f.Events}); err != nil {
		return err
	}

	if f.Snapshot.Scene != engine.SceneGameOver {
		s.saved = false
		return nil
	}
	if s.saved {
		return nil
	}
	s.saved = true
	sum := s.eng.Summary()
	if store := s.srv.cfg.Store; store != nil {
		switch err := store.RecordRun(sum); {
		case errors.Is(err, storage.ErrUnranked):
			s.srv.logger.Debug("practice run not saved", "seed", sum.Seed)
		case err != nil:
			s.srv.logger.Warn("could not save run", "err", err)
		}
	}
	return s.write(serverMessage{Type: "summary", Summary: &sum})
}

func (s *session) read(ctx context.Context, cancel context.CancelFunc, out chan<- timedInput) {
	defer cancel()
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.srv.logger.Debug("discarding malformed message", "err", err)
			continue
		}

		var action core.Action
		switch msg.Type {
		case "input":
			a, ok := core.ParseAction(msg.Action)
			if !ok {
				// unknown codes are ignored
				continue
			}
			action = a
		case "restart":
			action = core.ActionRestart
		default:
			continue
		}

		select {
		case out <- timedInput{action: action, at: s.now()}:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) write(msg serverMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("stream: marshal %s: %w", msg.Type, err)
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
