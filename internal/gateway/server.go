// Package gateway serves the Safe Talk backend: the detection and avatar
// chat endpoints, metrics, and the notification WebSocket.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/reveal"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/soyeahso/safetalk/internal/version"
)

var ErrClientClosed = errors.New("client connection closed")

// Detector scores text for hate speech.
type Detector interface {
	Detect(ctx context.Context, text string) (domain.Detection, error)
}

// DetectionLog records served verdicts.
type DetectionLog interface {
	Record(ctx context.Context, textLen int, d domain.Detection) (store.DetectionRecord, error)
	Recent(ctx context.Context, limit int) ([]store.DetectionRecord, error)
	Stats(ctx context.Context) (store.DetectionStats, error)
}

// Server is the Safe Talk HTTP + WebSocket server.
type Server struct {
	cfg        config.Config
	log        *logging.Logger
	detector   Detector
	avatar     llm.Client
	detections DetectionLog
	hooks      hooks.Emitter
	clock      reveal.Clock
	clients    *ClientRegistry
	metrics    *metrics
	limiter    *limiterPool
	upgrader   websocket.Upgrader
	version    string
	eventSeq   atomic.Int64

	startedAt  atomic.Int64
	httpServer *http.Server
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithDetector sets the detector behind /detect-hate and the notification
// classifier. Without one, detection answers 500 and notifications stay
// unclassified.
func WithDetector(d Detector) ServerOption {
	return func(s *Server) { s.detector = d }
}

// WithAvatarClient sets the LLM behind /chat-avatar.
func WithAvatarClient(c llm.Client) ServerOption {
	return func(s *Server) { s.avatar = c }
}

// WithDetectionLog records every served verdict.
func WithDetectionLog(l DetectionLog) ServerOption {
	return func(s *Server) { s.detections = l }
}

// WithHooks sets the hook emitter for lifecycle events.
func WithHooks(e hooks.Emitter) ServerOption {
	return func(s *Server) { s.hooks = e }
}

// WithClock replaces the clock driving per-connection reveal schedules.
func WithClock(c reveal.Clock) ServerOption {
	return func(s *Server) { s.clock = c }
}

// New creates a server.
func New(cfg config.Config, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log.Sub("gateway"),
		clients: NewClientRegistry(log.Sub("clients")),
		hooks:   hooks.Nop{},
		clock:   reveal.RealClock{},
		limiter: newLimiterPool(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
		version: version.Version,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.Server.AllowedOrigins),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(func() float64 { return float64(s.clients.Count()) })
	return s
}

// checkWebSocketOrigin allows non-browser clients (no Origin header) and
// browsers whose Origin is in the allow-list.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return isOriginAllowed(origin, allowed)
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan", "auto":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins, s.metrics)
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// chat-avatar waits on the model; leave room past its timeout
		WriteTimeout: s.cfg.AvatarChat.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.cfg.Server.Bind != "loopback" {
		s.log.Warn().Str("bind", s.cfg.Server.Bind).Msg("listening beyond loopback without TLS")
	}

	s.startedAt.Store(time.Now().UnixNano())
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Bool("detector", s.detector != nil).
		Bool("avatar", s.avatar != nil).
		Msg("gateway server ready")

	s.hooks.Emit(ctx, hooks.EventGatewayStart, map[string]any{"addr": ln.Addr().String()})

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		s.hooks.Emit(context.Background(), hooks.EventGatewayStop, nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.clients.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the configured listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

// Uptime reports how long the server has been serving.
func (s *Server) Uptime() time.Duration {
	started := s.startedAt.Load()
	if started == 0 {
		return 0
	}
	return time.Since(time.Unix(0, started))
}

func (s *Server) nextSeq() int64 {
	return s.eventSeq.Add(1)
}
