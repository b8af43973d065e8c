package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"logconf/internal/config"
	"logconf/internal/fileutil"
)

var (
	// ErrAlreadyConfigured is returned by Build after a successful Build.
	ErrAlreadyConfigured = errors.New("logging has already been configured; Configure() should only be called once")
	// ErrNotConfigured is returned by CurrentConfig before Build.
	ErrNotConfigured = errors.New("logging hasn't been configured")
)

const consoleOnlyWarning = "using console-only logging as Configure() hasn't been called"

// rootLoggerName tags records from slog.Default and unnamed loggers.
const rootLoggerName = "root"

var (
	stateMu     sync.Mutex
	current     *state
	fallback    *state
	prevDefault *slog.Logger

	// active mirrors current, or fallback before Build, for lock-free reads
	// by loggers handed out earlier.
	active atomic.Pointer[state]

	// fallbackConsole receives console-only output before Build.
	fallbackConsole io.Writer = os.Stdout
)

// state is an installed configuration: its outputs and the handler chain
// shared by every logger.
type state struct {
	cfg     config.Config
	handler slog.Handler
	output  *fileOutput
	runID   string
}

func newState(cfg config.Config, console io.Writer) (*state, error) {
	if console == nil {
		console = os.Stdout
	}
	threshold := verbosestLevel(cfg)
	handlers := []slog.Handler{
		newConsoleHandler(console, consoleOptions{
			Level:      threshold,
			Colors:     useColors(console, cfg.Console.Colors),
			RichErrors: cfg.Console.RichErrors,
			AddSource:  cfg.Level == config.LevelDebug,
		}),
	}

	st := &state{cfg: cfg}
	if cfg.File.Enabled {
		out, err := openFileOutput(cfg.File)
		if err != nil {
			return nil, err
		}
		st.output = out
		handlers = append(handlers, newJSONHandler(out, threshold))
	}

	handler := newContextHandler(newFanoutHandler(handlers...))
	if cfg.RunID {
		st.runID = uuid.NewString()
		handler = newRunIDHandler(handler, st.runID)
	}
	st.handler = handler
	return st, nil
}

func (s *state) levelFor(name string) slog.Level {
	return SlogLevel(s.cfg.EffectiveLevel(name))
}

func (s *state) namedHandler(name string) slog.Handler {
	if name == "" {
		name = rootLoggerName
	}
	tagged := s.handler.WithAttrs([]slog.Attr{slog.String(FieldLogger, name)})
	return newLevelOverrideHandler(tagged, s.levelFor(name))
}

// newLogger returns a logger bound to name rather than to a state.
func newLogger(name string) *slog.Logger {
	return slog.New(newLoggerHandler(name))
}

func (s *state) close() error {
	if s == nil || s.output == nil {
		return nil
	}
	return s.output.Close()
}

// Builder collects configuration changes before Build installs them. The
// first error raised by a With method is reported by Build.
type Builder struct {
	cfg     config.Config
	console io.Writer
	err     error
}

// Configure starts a configuration. An empty configPath uses defaults with a
// logs directory under the working directory; otherwise the TOML file is
// loaded.
func Configure(configPath string) (*Builder, error) {
	if configPath == "" {
		cfg := config.Default(config.DefaultLogDir())
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return &Builder{cfg: cfg}, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &Builder{cfg: *cfg}, nil
}

// NewBuilder starts from an already assembled configuration.
func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// WithFile enables file output. An empty path keeps the configured or default
// path; anything else replaces it and is resolved to an absolute path.
func (b *Builder) WithFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" {
		if b.cfg.File.Path == "" {
			b.cfg.File.Path = config.Default(config.DefaultLogDir()).File.Path
		}
		if err := fileutil.CheckParentWritable(b.cfg.File.Path); err != nil {
			b.err = err
			return b
		}
		b.cfg.File = b.cfg.File.Enable()
		return b
	}
	file, err := b.cfg.File.WithPath(path)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.File = file
	return b
}

// WithLevel replaces the global level.
func (b *Builder) WithLevel(level string) *Builder {
	if b.err != nil {
		return b
	}
	parsed, err := config.ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = parsed
	return b
}

// WithPattern appends a pattern after those already configured, so it only
// applies to loggers no earlier pattern matches.
func (b *Builder) WithPattern(pattern, level string) *Builder {
	if b.err != nil {
		return b
	}
	parsed, err := config.ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	patterns, err := b.cfg.Patterns.WithPattern(pattern, parsed)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Patterns = patterns
	return b
}

// WithConsole sets console colours and rich error rendering.
func (b *Builder) WithConsole(colors, richErrors bool) *Builder {
	b.cfg.Console = config.ConsoleOutput{Colors: colors, RichErrors: richErrors}
	return b
}

// WithConsoleWriter redirects console output, which defaults to stdout.
func (b *Builder) WithConsoleWriter(w io.Writer) *Builder {
	b.console = w
	return b
}

// WithRunID tags every record with a per-process UUID.
func (b *Builder) WithRunID() *Builder {
	b.cfg.RunID = true
	return b
}

// Config returns the configuration Build would apply.
func (b *Builder) Config() (config.Config, error) {
	return b.cfg, b.err
}

// Build validates and installs the configuration and makes the root logger
// the slog default. It may succeed only once per process.
func (b *Builder) Build() error {
	stateMu.Lock()
	defer stateMu.Unlock()

	if current != nil {
		return ErrAlreadyConfigured
	}
	if b.err != nil {
		return b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	st, err := newState(b.cfg, b.console)
	if err != nil {
		return err
	}
	if fallback != nil {
		_ = fallback.close()
		fallback = nil
	}
	current = st
	active.Store(st)
	if prevDefault == nil {
		prevDefault = slog.Default()
	}
	slog.SetDefault(newLogger(rootLoggerName))
	return nil
}

// activeState returns the installed state, creating console-only defaults
// when nothing has been built. warn is true only for the call that created
// them.
func activeState() (st *state, warn bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current != nil {
		return current, false
	}
	if fallback != nil {
		return fallback, false
	}
	cfg := config.Default(config.DefaultLogDir())
	_ = cfg.ApplyEnv()
	// File output is disabled in the defaults, so newState cannot fail.
	st, _ = newState(cfg, fallbackConsole)
	fallback = st
	active.Store(st)
	return fallback, true
}

// GetLogger returns a logger tagged logger=<name>. Its threshold is the level
// of the first pattern matching name, or the global level. Called before
// Build, it installs console-only defaults and warns once; the logger follows
// the configuration once Build succeeds.
func GetLogger(name string) *slog.Logger {
	_, warn := activeState()
	logger := newLogger(name)
	if warn {
		logger.Warn(consoleOnlyWarning)
	}
	return logger
}

// LevelFor reports the threshold GetLogger(name) would apply.
func LevelFor(name string) slog.Level {
	st, _ := activeState()
	return st.levelFor(name)
}

// IsConfigured reports whether Build has succeeded.
func IsConfigured() bool {
	stateMu.Lock()
	defer stateMu.Unlock()
	return current != nil
}

// CurrentConfig returns the configuration installed by Build.
func CurrentConfig() (config.Config, error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current == nil {
		return config.Config{}, fmt.Errorf("%w: call Configure() first or use default console-only logging", ErrNotConfigured)
	}
	return current.cfg, nil
}

// RunID returns the per-process identifier, or "" when run_id is off.
func RunID() string {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current == nil {
		return ""
	}
	return current.runID
}

// Close flushes and closes file output. Records logged afterwards still reach
// the console; the file output drops them.
func Close() error {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current == nil {
		return nil
	}
	return current.close()
}

// ContextLogger is GetLogger with the fields bound to ctx attached up front.
func ContextLogger(ctx context.Context, name string) *slog.Logger {
	return WithContext(ctx, GetLogger(name))
}
