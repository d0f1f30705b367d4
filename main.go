package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordhunt/internal/httpserver"
	"github.com/robalobadob/wordhunt/internal/registry"
	"github.com/robalobadob/wordhunt/internal/session"
	"github.com/robalobadob/wordhunt/internal/tcpserver"
	"github.com/robalobadob/wordhunt/internal/wordlist"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(ctx))
}

func setupLogging(cfg *Config) error {
	lvl, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stderr
	if cfg.logFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// openSource picks the word list source: sqlite, then directory, then the
// embedded defaults. The returned closer is never nil.
func openSource(cfg *Config) (wordlist.Source, func() error, error) {
	picker, err := wordlist.NewPicker(cfg.drawMode, cfg.dailySalt)
	if err != nil {
		return nil, nil, err
	}
	nop := func() error { return nil }

	switch {
	case cfg.wordsDB != "":
		src, err := wordlist.OpenSQLite(cfg.wordsDB, picker)
		if err != nil {
			return nil, nil, fmt.Errorf("open words db: %w", err)
		}
		return src, src.Close, nil
	case cfg.wordsDir != "":
		src, err := wordlist.NewDirSource(cfg.wordsDir, picker)
		if err != nil {
			return nil, nil, err
		}
		return src, nop, nil
	default:
		return wordlist.NewEmbeddedSource(picker), nop, nil
	}
}

func serve(ctx context.Context, cfg *Config) error {
	log.Info().Str("version", releaseVersion).Msg("starting wordhunt")

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	if st, err := src.Stats(ctx); err != nil {
		log.Warn().Err(err).Msg("word list stats")
	} else {
		log.Info().Str("kind", st.Kind).Int("puzzles", st.Puzzles).Str("drawMode", cfg.drawMode).Msg("word lists")
		if st.Puzzles == 0 {
			log.Warn().Msg("no puzzles available, every game will be refused")
		}
	}

	reg := registry.New()
	defer reg.Close()

	srv := tcpserver.New(reg, session.Config{
		Source:          src,
		DedupeGuesses:   cfg.dedupeGuesses,
		PostGameTimeout: cfg.postGameTimeout,
		MaxLine:         cfg.maxLine,
	})

	if cfg.httpBind != "" {
		diag := httpserver.New(reg, src)
		go func() {
			if err := diag.ListenAndServe(ctx, cfg.httpBind); err != nil {
				log.Error().Err(err).Msg("diagnostics server exited")
			}
		}()
	}

	addr := net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}

func importPuzzles(ctx context.Context, dsn string, files []string) error {
	src, err := wordlist.OpenSQLite(dsn, nil)
	if err != nil {
		return fmt.Errorf("open words db: %w", err)
	}
	defer src.Close()

	for _, path := range files {
		p, err := parseFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := src.Import(ctx, name, p); err != nil {
			return err
		}
		log.Info().Str("puzzle", name).Int("required", p.Required).Int("words", len(p.Words)).Msg("imported")
	}
	return nil
}
