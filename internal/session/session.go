// internal/session/session.go
//
// One client connection's full game lifecycle.
// Responsibilities:
//   - Read and validate the handshake.
//   - Deal a puzzle from the word list source.
//   - Run the guess loop until every word is found.
//   - Send the game over pair and wait for the post-game reply.
//   - Replay with a fresh puzzle on PLAYAGAIN, without reconnecting.
//
// Phases: awaiting-handshake → playing → finished. A replay moves from
// playing (or the post-game wait) back to the start of playing.
//
// Notes:
//   - Replays are iterations of one loop in Run; no call nesting.
//   - The round timer is enforced by the client. The server only records the
//     time limit announced in the handshake.
//   - Cancelling the context passed to Run closes the connection and ends the
//     session.

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/registry"
	"github.com/robalobadob/wordhunt/internal/wordlist"
)

// Phase is where a session is in its lifecycle.
type Phase int

const (
	AwaitingHandshake Phase = iota
	Playing
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingHandshake:
		return "awaiting-handshake"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

const defaultMaxLine = 4096

// Config holds what every session on a server shares.
type Config struct {
	Source          wordlist.Source
	DedupeGuesses   bool          // count each target word once per round
	PostGameTimeout time.Duration // 0 waits for the post-game reply forever
	MaxLine         int           // longest accepted client line in bytes
	Logger          *zerolog.Logger
}

// Session is the server side of one connection.
type Session struct {
	id      string
	conn    net.Conn
	cfg     Config
	scanner *bufio.Scanner
	log     zerolog.Logger
	started time.Time

	mu        sync.Mutex // guards the fields below for Info
	phase     Phase
	handshake Handshake
	round     *game.Round
	rounds    int
}

// New wraps conn. Nothing is read until Run.
func New(conn net.Conn, cfg Config) *Session {
	if cfg.MaxLine <= 0 {
		cfg.MaxLine = defaultMaxLine
	}
	base := log.Logger
	if cfg.Logger != nil {
		base = *cfg.Logger
	}

	id := uuid.NewString()
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, min(512, cfg.MaxLine)), cfg.MaxLine)

	return &Session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		scanner: sc,
		log:     base.With().Str("session", id).Str("remote", remoteAddr(conn)).Logger(),
		started: time.Now(),
	}
}

func remoteAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Info returns a snapshot for the registry.
func (s *Session) Info() registry.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := registry.Info{
		ID:        s.id,
		Remote:    remoteAddr(s.conn),
		Username:  s.handshake.Username,
		Phase:     s.phase.String(),
		Rounds:    s.rounds,
		StartedAt: s.started,
	}
	if s.round != nil {
		info.Puzzle = s.round.Puzzle.Name
		info.Found = s.round.Found
		info.Required = s.round.Puzzle.Required
	}
	return info
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Run drives the session until the client leaves, a fatal error occurs or ctx
// is cancelled. It returns nil for a normal end, a *ProtocolError after a
// rejected handshake, a *TransportError on connection failure, or an error
// wrapping wordlist.ErrNoWordLists when nothing can be dealt. The caller owns
// closing conn; Run only closes it early on cancellation.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()
	defer s.setPhase(Finished)

	err := s.run(ctx)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	if err := s.readHandshake(); err != nil {
		return err
	}
	s.setPhase(Playing)

	for {
		if err := s.deal(ctx); err != nil {
			return err
		}

		replay, err := s.guessLoop()
		if err != nil {
			return err
		}
		if replay {
			continue
		}

		again, err := s.gameOver()
		if err != nil || !again {
			return err
		}
		if err := s.send(msgNewGame); err != nil {
			return err
		}
		s.log.Info().Msg("replay after game over")
	}
}

func (s *Session) readHandshake() error {
	line, err := s.readLine()
	if err != nil {
		return err
	}
	hs, err := ParseHandshake(line)
	if err != nil {
		var pe *ProtocolError
		if errors.As(err, &pe) {
			if werr := s.send(pe.Reason); werr != nil {
				return werr
			}
		}
		return err
	}

	s.mu.Lock()
	s.handshake = hs
	s.mu.Unlock()

	s.log = s.log.With().Str("user", hs.Username).Logger()
	s.log.Info().Int("timeLimit", hs.TimeLimit).Msg("handshake accepted")
	return nil
}

// deal draws a puzzle, resets progress and announces the round.
func (s *Session) deal(ctx context.Context) error {
	p, err := s.cfg.Source.Draw(ctx)
	if err != nil {
		reason := msgWordListErr
		if errors.Is(err, wordlist.ErrNoWordLists) {
			reason = msgNoWordLists
		}
		// best effort, the draw error is what gets reported
		_ = s.send(reason)
		return fmt.Errorf("deal: %w", err)
	}

	round := game.NewRound(p, s.cfg.DedupeGuesses)
	s.mu.Lock()
	s.round = round
	s.rounds++
	s.mu.Unlock()

	s.log.Info().Str("puzzle", p.Name).Int("required", p.Required).Msg("round dealt")

	if err := s.send(fmt.Sprintf(msgWordList, p.Text)); err != nil {
		return err
	}
	return s.send(fmt.Sprintf(msgWordCount, p.Required))
}

// guessLoop answers guesses until the round is finished. It returns
// replay=true when the client asked for a new round mid-game.
func (s *Session) guessLoop() (replay bool, err error) {
	for !s.roundFinished() {
		line, err := s.readLine()
		if err != nil {
			return false, err
		}

		if IsPlayAgain(line) {
			s.log.Info().Str("progress", s.progress()).Msg("replay requested")
			return true, s.send(msgNewGame)
		}

		if err := s.answer(line); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (s *Session) answer(guess string) error {
	s.mu.Lock()
	outcome := s.round.Guess(guess)
	progress := s.round.Progress()
	s.mu.Unlock()

	s.log.Debug().Str("guess", guess).Str("outcome", string(outcome)).Str("progress", progress).Msg("guess")

	switch outcome {
	case game.OutcomeCorrect:
		return s.send(fmt.Sprintf(msgCorrect, progress))
	case game.OutcomeRepeat:
		return s.send(fmt.Sprintf(msgAlreadyFound, progress))
	default:
		return s.send(msgIncorrect)
	}
}

// gameOver sends the game over pair and waits for one reply. It reports
// whether that reply asked for another round.
func (s *Session) gameOver() (again bool, err error) {
	s.mu.Lock()
	found := s.round.Found
	s.mu.Unlock()

	s.log.Info().Int("found", found).Msg("game over")

	if err := s.send(msgGameOver); err != nil {
		return false, err
	}
	if err := s.send(fmt.Sprintf(msgAll, found)); err != nil {
		return false, err
	}

	if s.cfg.PostGameTimeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.PostGameTimeout)); err != nil {
			return false, &TransportError{Op: "read", Err: err}
		}
		defer func() { _ = s.conn.SetReadDeadline(time.Time{}) }()
	}

	line, err := s.readLine()
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.log.Debug().Msg("client left after game over")
		return false, nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		s.log.Info().Dur("timeout", s.cfg.PostGameTimeout).Msg("no reply after game over")
		return false, nil
	default:
		return false, err
	}

	return IsPlayAgain(line), nil
}

func (s *Session) roundFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round.Finished
}

func (s *Session) progress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round.Progress()
}

// readLine returns the next client line with surrounding whitespace removed.
func (s *Session) readLine() (string, error) {
	if !s.scanner.Scan() {
		err := s.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return "", &TransportError{Op: "read", Err: err}
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *Session) send(msg string) error {
	if _, err := io.WriteString(s.conn, msg+"\n"); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}
