// internal/tcpserver/server.go
//
// TCP front end for the word hunt game.
// Responsibilities:
//   - Accept connections and run one session goroutine per connection.
//   - Register each session on accept and remove it on disconnect.
//   - Log how each session ended (normal, protocol, transport, word lists).
//   - Stop accepting on context cancellation and wait for live sessions.

package tcpserver

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/registry"
	"github.com/robalobadob/wordhunt/internal/session"
)

// Server bundles the registry and the settings every session shares.
type Server struct {
	reg *registry.Registry
	cfg session.Config
	wg  sync.WaitGroup
}

// New constructs a Server.
func New(reg *registry.Registry, cfg session.Config) *Server {
	return &Server{reg: reg, cfg: cfg}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled. It closes ln and returns once
// every session has finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.wg.Wait()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("listener stopped")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				log.Warn().Err(err).Dur("retryIn", backoff).Msg("accept")
				time.Sleep(backoff)
				continue
			}
			_ = ln.Close()
			return err
		}
		backoff = 0

		s.wg.Add(1)
		go s.handle(ctx, conn)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	sess := session.New(conn, s.cfg)
	s.reg.Add(sess)
	defer s.reg.Remove(sess.ID())

	l := log.With().Str("session", sess.ID()).Str("remote", conn.RemoteAddr().String()).Logger()
	l.Info().Msg("client connected")

	err := sess.Run(ctx)

	var ev *zerolog.Event
	switch {
	case err == nil:
		ev = l.Info()
	case errors.Is(err, context.Canceled):
		ev = l.Info().Str("reason", "server stopping")
	case session.IsProtocol(err), errors.Is(err, io.EOF):
		ev = l.Info().Err(err)
	case session.IsTransport(err):
		ev = l.Warn().Err(err)
	default:
		// word list failures and anything unexpected
		ev = l.Error().Err(err)
	}
	ev.Str("phase", sess.Phase().String()).Msg("client disconnected")
}
