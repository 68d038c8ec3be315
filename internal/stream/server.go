// Package stream serves a running simulation over HTTP.
//
// One goroutine owns the simulation and ticks it at a fixed rate. After
// each tick it publishes a snapshot; HTTP handlers only ever read published
// snapshots, so no reader observes a tick in progress.
//
// Endpoints:
//
//	GET /ws        websocket feed of JSON snapshots
//	GET /snapshot  latest snapshot as JSON
//	GET /metrics   prometheus metrics
//	GET /healthz   liveness
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	sendBuffer      = 16
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type Config struct {
	Addr string
	// TickRate is ticks per wall-clock second; zero or less runs unpaced.
	TickRate float64
	// BroadcastEvery pushes every Nth snapshot to websocket clients.
	BroadcastEvery int
	// Steps stops the simulation after this many ticks; zero runs forever.
	Steps int
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	sim       *sim.Simulation
	cfg       Config
	log       *zap.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector
	limiter   *rate.Limiter

	mu     sync.RWMutex
	latest sim.Snapshot

	clientsMu sync.Mutex
	clients   map[*client]struct{}
	// closed is set once shutdown begins; later connections are refused.
	closed bool
}

func New(s *sim.Simulation, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.BroadcastEvery <= 0 {
		cfg.BroadcastEvery = 1
	}
	limit := rate.Inf
	if cfg.TickRate > 0 {
		limit = rate.Limit(cfg.TickRate)
	}
	reg := prometheus.NewRegistry()
	return &Server{
		sim:       s,
		cfg:       cfg,
		log:       log.With(zap.String("scenario", s.Name)),
		registry:  reg,
		collector: metrics.NewCollector(reg, s.Constants().G),
		limiter:   rate.NewLimiter(limit, 1),
		latest:    s.Snapshot(),
		clients:   make(map[*client]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Latest returns the most recently published snapshot.
func (s *Server) Latest() sim.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run serves HTTP and drives the simulation until ctx is cancelled or a
// tick fails. A tick error is returned; a cancelled context is not an error.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.Simulate(ctx) })
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Simulate ticks the simulation at the configured rate, publishing a
// snapshot after every tick.
func (s *Server) Simulate(ctx context.Context) error {
	name := s.sim.Name
	for s.cfg.Steps == 0 || s.sim.Steps() < s.cfg.Steps {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil
		}
		start := time.Now()
		if err := s.sim.Tick(); err != nil {
			s.log.Error("tick failed", zap.Int("step", s.sim.Steps()), zap.Error(err))
			return err
		}
		s.collector.ObserveTick(name, time.Since(start))

		snap := s.sim.Snapshot()
		s.collector.OnTick(snap)
		s.publish(snap)
	}
	s.log.Info("simulation finished", zap.Int("steps", s.sim.Steps()), zap.Float64("elapsed", s.sim.Elapsed.Float()))
	return nil
}

func (s *Server) publish(snap sim.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	if snap.Step%s.cfg.BroadcastEvery != 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("encode snapshot", zap.Error(err))
		return
	}
	s.broadcast(data)
}

// broadcast queues data for every client. Clients whose buffer is full miss
// this frame.
func (s *Server) broadcast(data []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Debug("dropped frame for slow client", zap.String("remote", c.conn.RemoteAddr().String()))
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Latest()); err != nil {
		s.log.Warn("write snapshot", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(s.Latest()); err == nil {
		c.send <- data
	}

	s.clientsMu.Lock()
	if s.closed {
		s.clientsMu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeTimeout))
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.log.Debug("client connected", zap.String("remote", conn.RemoteAddr().String()), zap.Int("clients", count))

	go s.writeLoop(c)

	// the feed is one-way; reading only detects the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.remove(c)
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Debug("websocket write", zap.Error(err))
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) remove(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}
