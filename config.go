package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind            string
	port            int
	wordsDir        string
	wordsDB         string
	drawMode        string
	dailySalt       string
	postGameTimeout time.Duration
	dedupeGuesses   bool
	maxLine         int
	httpBind        string
	logLevel        string
	logFormat       string
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.wordsDir != "" && c.wordsDB != "" {
		return errors.New("--words-dir and --words-db are mutually exclusive")
	}
	switch c.drawMode {
	case "random", "daily":
	default:
		return fmt.Errorf("invalid draw mode (must be random or daily): %q", c.drawMode)
	}
	if c.postGameTimeout < 0 {
		return fmt.Errorf("invalid post-game timeout: %s", c.postGameTimeout)
	}
	if c.maxLine < 16 {
		return fmt.Errorf("invalid max line (must be at least 16 bytes): %d", c.maxLine)
	}
	switch c.logFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format (must be console or json): %q", c.logFormat)
	}
	return nil
}

// bindEnv lets every flag on fs be set from WORDHUNT_<FLAG_NAME>.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDHUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordhunt",
		Short:         "A line-oriented word hunt game server over raw TCP.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())
			if err := cfg.validate(); err != nil {
				return err
			}
			return setupLogging(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.SetNormalizeFunc(normalize)
	pfs.StringVar(&cfg.wordsDir, "words-dir", "", "directory of puzzle *.txt files (env: WORDHUNT_WORDS_DIR)")
	pfs.StringVar(&cfg.wordsDB, "words-db", "", "sqlite database of imported puzzles (env: WORDHUNT_WORDS_DB)")
	pfs.StringVar(&cfg.logLevel, "log-level", "info", "trace, debug, info, warn or error (env: WORDHUNT_LOG_LEVEL)")
	pfs.StringVar(&cfg.logFormat, "log-format", "console", "console or json (env: WORDHUNT_LOG_FORMAT)")

	fs := cmd.Flags()
	fs.SetNormalizeFunc(normalize)
	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind to (env: WORDHUNT_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8888, "port to listen on (env: WORDHUNT_PORT)")
	fs.StringVar(&cfg.drawMode, "draw-mode", "random", "random, or daily for one puzzle per UTC day (env: WORDHUNT_DRAW_MODE)")
	fs.StringVar(&cfg.dailySalt, "daily-salt", "wordhunt", "salt for the daily puzzle choice (env: WORDHUNT_DAILY_SALT)")
	fs.DurationVar(&cfg.postGameTimeout, "postgame-timeout", 0, "how long to wait for a reply after game over, 0 waits forever (env: WORDHUNT_POSTGAME_TIMEOUT)")
	fs.BoolVar(&cfg.dedupeGuesses, "dedupe-guesses", false, "count each target word only once per round (env: WORDHUNT_DEDUPE_GUESSES)")
	fs.IntVar(&cfg.maxLine, "max-line", 4096, "longest accepted client line in bytes (env: WORDHUNT_MAX_LINE)")
	fs.StringVar(&cfg.httpBind, "http-bind", "", "address for the diagnostics http server, empty disables it (env: WORDHUNT_HTTP_BIND)")

	cmd.AddCommand(newImportCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordhunt v{{.Version}}\n")

	return cmd
}

func newImportCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.txt>...",
		Short: "Load puzzle files into the --words-db database.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.wordsDB == "" {
				return errors.New("import needs --words-db")
			}
			return importPuzzles(cmd.Context(), cfg.wordsDB, args)
		},
	}
}
