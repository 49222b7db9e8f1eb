// Package http serves the kondate API over Gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/kondate/internal/platform/config"
)

const defaultDrainTimeout = 10 * time.Second

// Server is the API listener. It owns the Gin engine routes are mounted on
// and drains in-flight requests when its context ends.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	drain  time.Duration
	logger *slog.Logger
}

// New builds a server from cfg. Client IPs, which the advisor rate limiter
// keys on, are only read from forwarding headers sent by cfg.TrustedProxies.
func New(cfg *config.ServerConfig, logger *slog.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}

	engine.Use(limitBody(cfg.MaxRequestSize))

	drain := cfg.ShutdownTimeout
	if drain <= 0 {
		drain = defaultDrainTimeout
	}

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		drain:  drain,
		logger: logger,
	}, nil
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// ListenAndServe binds the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or serving fails. On
// the way out it waits up to the drain timeout for active requests; advisor
// calls can take most of a minute, so the timeout should exceed theirs.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving kondate API",
			slog.String("addr", ln.Addr().String()),
			slog.Duration("write_timeout", s.http.WriteTimeout),
		)

		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
		defer cancel()

		s.logger.Info("draining http connections", slog.Duration("timeout", s.drain))

		if err := s.http.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("draining http connections: %w", err)
		}

		s.logger.Info("http server stopped")

		return nil
	})

	return g.Wait()
}

// limitBody caps request bodies at maxBytes; reads past it fail and
// handlers answer 413.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
