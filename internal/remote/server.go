// Package remote is the websocket operator console. It streams the table's status
// lines to every attached operator and accepts typed keys and button taps.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/table"
)

// ButtonHold is how long a remote tap holds a button line down. It spans several
// debounce polls so the press is always sampled.
const ButtonHold = 50 * time.Millisecond

// KeySink receives characters typed by operators
type KeySink interface {
	Store(c byte)
}

// ButtonSink is the button port remote taps are pressed on
type ButtonSink interface {
	Press(b input.Buttons)
	Release(b input.Buttons)
}

// KnobSink is the analog source remote knob moves are applied to
type KnobSink interface {
	Set(v int)
}

// Server is the operator console
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	mu          sync.RWMutex
	logger      *log.Logger
	clock       quartz.Clock
	ctx         context.Context
	cancel      context.CancelFunc

	keys     KeySink
	buttons  ButtonSink
	knob     KnobSink
	snapshot func() table.Snapshot
}

// NewServer creates a console server. snapshot may be nil.
func NewServer(addr string, keys KeySink, buttons ButtonSink, snapshot func() table.Snapshot, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Operators connect from anywhere on the bench network
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("remote"),
		clock:       clock,
		ctx:         ctx,
		cancel:      cancel,
		keys:        keys,
		buttons:     buttons,
		snapshot:    snapshot,
	}
}

// SetKnob lets operators move the bet knob. Without one, knob messages are rejected.
func (s *Server) SetKnob(k KnobSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knob = k
}

func (s *Server) knobSink() KnobSink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.knob
}

// Handler returns the HTTP routes for the console
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

// Run serves the console until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting operator console", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("operator console: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Stop disconnects every operator
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
		delete(s.connections, conn)
	}
}

// Connections returns the number of attached operators
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// EmitLine implements periph.Console by broadcasting the line to every operator
func (s *Server) EmitLine(text string) {
	msg, err := NewMessage(MessageTypeLine, LineData{Text: text}, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create line message", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		_ = conn.SendMessage(msg)
	}
}

// tap presses a button and releases it after ButtonHold
func (s *Server) tap(b input.Buttons) {
	s.logger.Debug("Remote button tap", "button", b)
	s.clock.AfterFunc(ButtonHold, func() {
		s.buttons.Release(b)
	}, "remote", "release")
	s.buttons.Press(b)
}

func (s *Server) sendSnapshot(c *Connection) {
	if s.snapshot == nil {
		c.sendError("unavailable", "no table attached")
		return
	}
	msg, err := NewMessage(MessageTypeSnapshot, s.snapshot(), s.clock.Now())
	if err != nil {
		c.sendError("internal", err.Error())
		return
	}
	_ = c.SendMessage(msg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(conn, s)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Operator connected", "total", total)

	client.Start()

	go func() {
		<-client.ctx.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Operator disconnected", "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshot == nil {
		http.Error(w, "no table attached", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshot())
}
