package webserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/staticweb-go/internal/core/domain"
	"github.com/yndnr/staticweb-go/internal/infra/tlspolicy"
	"github.com/yndnr/staticweb-go/internal/telemetry/logger"
	"github.com/yndnr/staticweb-go/internal/telemetry/metric"
	"github.com/yndnr/staticweb-go/pkg/cmap"
)

// Config holds the web server configuration.
type Config struct {
	// PlainAddress is the plaintext listener address (default ":80").
	PlainAddress string
	// TLSAddress is the TLS listener address (default ":443").
	TLSAddress string
	// ReadTimeout bounds reading the request line, headers and body.
	// Zero disables the deadline.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing the response. Zero disables the deadline.
	WriteTimeout time.Duration
	// Limits bounds the request the parser accepts.
	Limits Limits
	// RatePerIP is the number of new connections per second allowed from
	// one remote IP. Zero disables rate limiting.
	RatePerIP float64
	// RateBurst is the bucket size for RatePerIP.
	RateBurst int
	// TrackedIPs bounds the per-IP limiter table.
	TrackedIPs int
	// ServerName is sent in the Server header of static responses.
	ServerName string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PlainAddress: ":80",
		TLSAddress:   ":443",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Limits:       DefaultLimits(),
		TrackedIPs:   DefaultTrackedIPs,
		ServerName:   "staticweb",
	}
}

// Handshaker performs the server side of a TLS handshake.
type Handshaker interface {
	Negotiate(ctx context.Context, raw net.Conn) (*tls.Conn, error)
}

// Server runs the plaintext and TLS acceptors.
type Server struct {
	cfg        *Config
	handshaker Handshaker
	router     *Router
	metrics    *metric.Registry
	logger     *slog.Logger
	limiter    *ipLimiter

	plainLn net.Listener
	tlsLn   net.Listener
	running atomic.Bool

	acceptors sync.WaitGroup
	conns     sync.WaitGroup

	active *cmap.Map[net.Conn]
}

// New creates a web server. metrics may be nil.
func New(cfg *Config, handshaker Handshaker, resolver Resolver, metrics *metric.Registry, log *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	if handshaker == nil {
		return nil, errors.New("webserver: handshaker is required")
	}
	if resolver == nil {
		return nil, errors.New("webserver: resolver is required")
	}

	s := &Server{
		cfg:        cfg,
		handshaker: handshaker,
		router:     NewRouter(resolver, cfg.ServerName),
		metrics:    metrics,
		logger:     log,
		active:     cmap.New[net.Conn](),
	}

	if cfg.RatePerIP > 0 {
		lim, err := newIPLimiter(cfg.RatePerIP, cfg.RateBurst, cfg.TrackedIPs)
		if err != nil {
			return nil, err
		}
		s.limiter = lim
	}
	return s, nil
}

// Start binds both listeners and starts accepting. A bind failure is
// returned and nothing is left listening.
func (s *Server) Start(ctx context.Context) error {
	plainLn, err := net.Listen("tcp", s.cfg.PlainAddress)
	if err != nil {
		return fmt.Errorf("webserver: listen plain %s: %w", s.cfg.PlainAddress, err)
	}
	tlsLn, err := net.Listen("tcp", s.cfg.TLSAddress)
	if err != nil {
		plainLn.Close()
		return fmt.Errorf("webserver: listen tls %s: %w", s.cfg.TLSAddress, err)
	}

	s.plainLn = plainLn
	s.tlsLn = tlsLn
	s.running.Store(true)

	s.logger.Info("plain listener started", "address", plainLn.Addr().String())
	s.logger.Info("tls listener started", "address", tlsLn.Addr().String())

	s.acceptors.Add(2)
	go func() {
		defer s.acceptors.Done()
		s.acceptLoop(ctx, plainLn, TransportPlain)
	}()
	go func() {
		defer s.acceptors.Done()
		s.acceptLoop(ctx, tlsLn, TransportSecure)
	}()
	return nil
}

// PlainAddr returns the bound plaintext address, or nil before Start.
func (s *Server) PlainAddr() net.Addr {
	if s.plainLn == nil {
		return nil
	}
	return s.plainLn.Addr()
}

// TLSAddr returns the bound TLS address, or nil before Start.
func (s *Server) TLSAddr() net.Addr {
	if s.tlsLn == nil {
		return nil
	}
	return s.tlsLn.Addr()
}

// Shutdown closes both listeners and waits for in-flight connections.
// When ctx expires first the remaining connections are closed forcibly
// and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	for _, ln := range []net.Listener{s.plainLn, s.tlsLn} {
		if ln == nil {
			continue
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	s.acceptors.Wait()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return firstErr
	case <-ctx.Done():
		n := 0
		s.active.Range(func(_ string, c net.Conn) bool {
			c.Close()
			n++
			return true
		})
		s.logger.Warn("shutdown timed out, closed remaining connections", "count", n)
		<-done
		return ctx.Err()
	}
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, t Transport) {
	var backoff time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(2*backoff, time.Second)
			}
			s.logger.Warn("accept failed", "transport", t.String(), "error", err, "retry_in", backoff.String())
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		backoff = 0

		if s.limiter != nil && !s.limiter.Allow(remoteIP(c.RemoteAddr())) {
			if s.metrics != nil {
				s.metrics.ConnectionsRateLimited.WithLabelValues(t.String()).Inc()
			}
			s.logger.Debug("connection rate limited", "remote", c.RemoteAddr().String(),
				"transport", t.String(), "code", domain.ErrRateLimited.Code)
			c.Close()
			continue
		}

		id := ulid.Make().String()
		s.active.Set(id, c)
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			defer s.active.Delete(id)
			s.serveConn(ctx, c, id, t)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, raw net.Conn, id string, t Transport) {
	defer raw.Close()

	ctx = logger.WithLogger(ctx, s.logger.With("remote", raw.RemoteAddr().String(), "transport", t.String()))
	ctx = logger.WithConnID(ctx, id)
	log := logger.L(ctx)

	if s.metrics != nil {
		s.metrics.ConnectionsAccepted.WithLabelValues(t.String()).Inc()
		gauge := s.metrics.ConnectionsActive.WithLabelValues(t.String())
		gauge.Inc()
		defer gauge.Dec()
	}

	stream := raw
	if t == TransportSecure {
		tc, err := s.handshaker.Negotiate(ctx, raw)
		if err != nil {
			if s.metrics != nil {
				s.metrics.HandshakeFailures.Inc()
			}
			if tlspolicy.IsBenign(err) {
				log.Debug("tls handshake failed", "error", err)
			} else {
				log.Warn("tls handshake failed", "error", err)
			}
			return
		}
		state := tc.ConnectionState()
		log.Debug("tls handshake complete",
			"tls_version", tlspolicy.VersionName(state.Version),
			"cipher_suite", tls.CipherSuiteName(state.CipherSuite),
			"sni", state.ServerName)
		stream = tc
	}

	c := newConn(stream, t)
	defer c.Close()
	s.handle(ctx, c)
}

// handle runs the request pipeline on an established connection.
func (s *Server) handle(ctx context.Context, c *Conn) {
	log := logger.L(ctx)
	start := time.Now()

	c.setReadTimeout(s.cfg.ReadTimeout)
	req, err := ReadRequest(c.br, s.cfg.Limits)
	if err != nil {
		s.reject(ctx, c, err)
		return
	}

	log.Info("request",
		"method", req.Method,
		"target", req.Target,
		"host", req.Host,
		"user_agent", req.UserAgent)

	if req.Method == "POST" && req.ContentLength > 0 {
		body, err := ReadBody(c.br, req.ContentLength, s.cfg.Limits.withDefaults().MaxBodyLogBytes)
		log.Info("post body",
			"body", string(body.Data),
			"declared", body.Declared,
			"read", len(body.Data),
			"short", body.Short(),
			"truncated", body.Truncated)
		if err != nil {
			log.Debug("post body read failed", "error", err)
		}
	}

	resp := s.router.Route(ctx, req, c.transport)

	c.setWriteTimeout(s.cfg.WriteTimeout)
	n, err := resp.WriteTo(c)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveResponse(c.transport.String(), resp.Status, n, elapsed)
	}
	if err != nil {
		log.Debug("response write failed", "status", resp.Status, "error", err)
		return
	}
	log.Info("response",
		"status", resp.Status,
		"bytes", n,
		"duration", elapsed.String())
}

// reject handles a request that failed to parse.
func (s *Server) reject(ctx context.Context, c *Conn, err error) {
	log := logger.L(ctx)

	var notice, reason string
	switch {
	case errors.Is(err, domain.ErrEmptyRequest):
		log.Debug("empty request")
		return
	case errors.Is(err, domain.ErrMalformedRequestLine):
		notice, reason = NoticeNotHTTP, "malformed_request_line"
	case errors.Is(err, domain.ErrInvalidContentLength):
		notice, reason = NoticeBadContentLength, "invalid_content_length"
	case errors.Is(err, domain.ErrLineTooLong), errors.Is(err, domain.ErrTooManyHeaders):
		notice, reason = NoticeTooLarge, "too_large"
	default:
		log.Debug("request read failed", "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.ProtocolRejections.WithLabelValues(reason).Inc()
	}
	log.Info("request rejected", "reason", reason, "error", err)

	c.setWriteTimeout(s.cfg.WriteTimeout)
	if err := writeNotice(c, notice); err != nil {
		log.Debug("notice write failed", "error", err)
	}
}
