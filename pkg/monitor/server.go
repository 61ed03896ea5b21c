package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsWriteTimeout bounds a single WebSocket write so one stalled
// client cannot wedge its writer goroutine forever.
const wsWriteTimeout = 5 * time.Second

// jsonMarshal is a variable for testing purposes
var jsonMarshal = json.Marshal

// LiveServer exposes live conformance state over HTTP. It
// serves Server-Sent Events on /events, a WebSocket feed on
// /ws, a JSON dashboard snapshot on /dashboard, and /health.
// A Prometheus handler can be mounted on /metrics.
type LiveServer struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *DashboardData
	clients   map[chan []byte]struct{}
	wsClients map[*wsClient]struct{}
	addr      string
	server    *http.Server
	upgrader  websocket.Upgrader
	metrics   http.Handler
}

// wsClient pairs a WebSocket connection with its outbound
// queue. Each client has a dedicated writer goroutine so
// broadcasts never write to a connection concurrently.
type wsClient struct {
	conn *websocket.Conn
	out  chan []byte
}

// ServerOption configures a LiveServer.
type ServerOption func(*LiveServer)

// WithMetricsHandler mounts the given handler on /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *LiveServer) {
		s.metrics = h
	}
}

// NewLiveServer creates a live monitoring server for the given
// collector and dashboard.
func NewLiveServer(
	addr string,
	collector *EventCollector,
	dashboard *DashboardData,
	opts ...ServerOption,
) *LiveServer {
	s := &LiveServer{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		clients:   make(map[chan []byte]struct{}),
		wsClients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins serving. It blocks until the context is
// cancelled or the listener fails.
func (s *LiveServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleSSE)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// Register event handler to broadcast to clients
	s.collector.OnEvent(func(event Event) {
		s.dashboard.UpdateFromEvent(event)
		data, err := jsonMarshal(event)
		if err != nil {
			return
		}
		s.broadcast(data)
	})

	go func() {
		<-ctx.Done()
		s.closeWebSockets()
		s.server.Close()
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *LiveServer) Stop(ctx context.Context) error {
	s.closeWebSockets()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *LiveServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := make(chan []byte, 32)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
		close(ch)
	}()

	// Send initial dashboard state
	snap := s.dashboard.Snapshot()
	if data, err := jsonMarshal(snap); err == nil {
		fmt.Fprintf(w, "event: dashboard\ndata: %s\n\n", data)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: check\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleWS upgrades the connection and streams the same event
// feed as /events over WebSocket frames.
func (s *LiveServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &wsClient{
		conn: conn,
		out:  make(chan []byte, 32),
	}

	s.mu.Lock()
	s.wsClients[client] = struct{}{}
	s.mu.Unlock()

	// Send initial dashboard state
	snap := s.dashboard.Snapshot()
	if data, err := jsonMarshal(snap); err == nil {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.dropWSClient(client)
			return
		}
	}

	go s.writeWS(client)
	go s.readWS(client)
}

// writeWS is the per-client writer. It exits when the outbound
// queue closes or a write fails.
func (s *LiveServer) writeWS(client *wsClient) {
	defer s.dropWSClient(client)
	for data := range client.out {
		client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := client.conn.WriteMessage(
			websocket.TextMessage, data,
		); err != nil {
			return
		}
	}
}

// readWS drains inbound frames so close and ping control
// messages are processed. Any read error ends the client.
func (s *LiveServer) readWS(client *wsClient) {
	defer s.dropWSClient(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// dropWSClient unregisters the client and closes its
// connection. Safe to call more than once.
func (s *LiveServer) dropWSClient(client *wsClient) {
	s.mu.Lock()
	_, registered := s.wsClients[client]
	delete(s.wsClients, client)
	s.mu.Unlock()

	if registered {
		close(client.out)
	}
	client.conn.Close()
}

// closeWebSockets drops every connected WebSocket client.
func (s *LiveServer) closeWebSockets() {
	s.mu.Lock()
	clients := make([]*wsClient, 0, len(s.wsClients))
	for client := range s.wsClients {
		clients = append(clients, client)
	}
	s.mu.Unlock()

	for _, client := range clients {
		s.dropWSClient(client)
	}
}

func (s *LiveServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap := s.dashboard.Snapshot()
	json.NewEncoder(w).Encode(snap)
}

func (s *LiveServer) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, skip
		}
	}
	for client := range s.wsClients {
		select {
		case client.out <- data:
		default:
			// Client too slow, skip
		}
	}
}
