package sim

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/logger"
)

// Snapshot is one tick of character state pushed to stream subscribers.
type Snapshot struct {
	Tick         int        `json:"tick"`
	Position     [3]float32 `json:"position"`
	Velocity     [3]float32 `json:"velocity"`
	FallVelocity float32    `json:"fall_velocity"`
	Grounded     bool       `json:"grounded"`
	Colliding    bool       `json:"colliding"`
}

const writeTimeout = 2 * time.Second

// Server streams simulation snapshots to websocket subscribers. Viewers
// are read-only; a subscriber that cannot keep up is dropped rather than
// allowed to stall the tick loop.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	srv      *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a snapshot server listening on addr once started.
func NewServer(addr string) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Local tooling connects from file:// pages and odd origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Start begins accepting subscribers in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.srv = &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("stream server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	n := len(s.conns)
	s.mu.Unlock()
	logger.Info("stream subscriber connected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("subscribers", n))

	// Drain incoming frames so pings and close handshakes are serviced
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

// Broadcast pushes a snapshot to every subscriber, dropping any whose
// write fails or times out.
func (s *Server) Broadcast(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			logger.Debug("dropping stream subscriber", zap.Error(err))
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[conn]; ok {
		conn.Close()
		delete(s.conns, conn)
	}
}

// Close shuts the listener and all subscriber connections.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
}
