package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelPad = 8
	eventPad = 30
)

type consoleOptions struct {
	Level      slog.Leveler
	Colors     bool
	RichErrors bool
	AddSource  bool
}

// consoleHandler renders one human-readable line per record:
//
//	2024-05-01 12:00:00 [info    ] request handled                [app.http] status=200
//
// With rich errors, error-valued attributes are printed below the line with
// their unwrap chain instead of inline.
type consoleHandler struct {
	mu      *sync.Mutex
	writer  io.Writer
	opts    consoleOptions
	palette palette
	attrs   []slog.Attr
	groups  []string
}

func newConsoleHandler(w io.Writer, opts consoleOptions) *consoleHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &consoleHandler{
		mu:      &sync.Mutex{},
		writer:  w,
		opts:    opts,
		palette: newPalette(opts.Colors),
	}
}

// useColors reports whether ANSI colours should be written to w.
func useColors(w io.Writer, wanted bool) bool {
	if !wanted {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.opts.Level.Level() {
		return nil
	}

	logger, fields := collectFields(h.attrs, h.groups, record)
	var errs []kv
	if h.opts.RichErrors {
		inline := fields[:0:0]
		for _, field := range fields {
			if asError(field.value) != nil {
				errs = append(errs, field)
				continue
			}
			inline = append(inline, field)
		}
		fields = inline
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*24)

	p := h.palette
	buf.WriteString(p.timestamp.Sprint(formatTimestamp(record.Time)))
	buf.WriteString(" [")
	label := levelName(record.Level)
	buf.WriteString(p.level(record.Level).Sprint(padRight(label, levelPad)))
	buf.WriteString("] ")

	if logger != "" || len(fields) > 0 {
		message = padRight(message, eventPad)
	}
	buf.WriteString(p.event.Sprint(message))

	if logger != "" {
		buf.WriteString(" [")
		buf.WriteString(p.logger.Sprint(logger))
		buf.WriteByte(']')
	}

	for _, field := range fields {
		buf.WriteByte(' ')
		buf.WriteString(p.key.Sprint(field.key))
		buf.WriteByte('=')
		buf.WriteString(p.value.Sprint(formatValue(field.value)))
	}

	if h.opts.AddSource {
		if src := record.Source(); src != nil && src.File != "" {
			buf.WriteString(" [")
			buf.WriteString(filepath.Base(src.File))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(src.Line))
			buf.WriteByte(']')
		}
	}
	buf.WriteByte('\n')

	for _, field := range errs {
		h.writeErrorChain(&buf, field.key, asError(field.value))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeErrorChain(buf *bytes.Buffer, key string, err error) {
	for _, link := range errorChain(err) {
		buf.WriteString("    ")
		buf.WriteString(strings.Repeat("  ", link.Depth))
		if link.Depth == 0 {
			buf.WriteString(h.palette.errLabel.Sprint(key))
		} else {
			buf.WriteString(h.palette.errLabel.Sprint("caused by"))
		}
		buf.WriteString(": ")
		buf.WriteString(link.Message)
		buf.WriteString(" (")
		buf.WriteString(link.Type)
		buf.WriteString(")\n")
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, prefixAttrs(h.groups, attrs)...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		mu:      h.mu,
		writer:  h.writer,
		opts:    h.opts,
		palette: h.palette,
		attrs:   append([]slog.Attr(nil), h.attrs...),
		groups:  append([]string(nil), h.groups...),
	}
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

type palette struct {
	timestamp *color.Color
	event     *color.Color
	logger    *color.Color
	key       *color.Color
	value     *color.Color
	errLabel  *color.Color
	debug     *color.Color
	info      *color.Color
	warning   *color.Color
	errorLvl  *color.Color
	critical  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		timestamp: mk(color.Faint),
		event:     mk(color.Bold),
		logger:    mk(color.FgBlue, color.Bold),
		key:       mk(color.FgCyan),
		value:     mk(color.FgMagenta),
		errLabel:  mk(color.FgRed, color.Bold),
		debug:     mk(color.FgBlue),
		info:      mk(color.FgGreen),
		warning:   mk(color.FgYellow),
		errorLvl:  mk(color.FgRed),
		critical:  mk(color.FgHiRed, color.Bold),
	}
}

func (p palette) level(level slog.Level) *color.Color {
	switch {
	case level >= LevelCritical:
		return p.critical
	case level >= slog.LevelError:
		return p.errorLvl
	case level >= slog.LevelWarn:
		return p.warning
	case level >= slog.LevelInfo:
		return p.info
	default:
		return p.debug
	}
}
