package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"gopkg.in/natefinch/lumberjack.v2"

	"logconf/internal/config"
	"logconf/internal/fileutil"
)

const mebibyte = 1024 * 1024

// fileOutput is the writer behind the JSON file handler. Writes after Close
// are discarded.
type fileOutput struct {
	mu      sync.Mutex
	writer  io.Writer
	closers []io.Closer
	closed  bool
}

func newFileOutput(w io.Writer, closers ...io.Closer) *fileOutput {
	return &fileOutput{writer: w, closers: closers}
}

func (f *fileOutput) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return len(p), nil
	}
	return f.writer.Write(p)
}

func (f *fileOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	var errs []error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}

// openFileOutput prepares cfg.Path and opens it for appending. A backup count
// of zero yields a plain file that never rotates; otherwise lumberjack rotates
// once the file would exceed MaxSize (rounded up to whole MiB).
func openFileOutput(cfg config.FileOutput) (*fileOutput, error) {
	if !cfg.Enabled {
		return nil, errors.New("attempted to open file output with disabled configuration")
	}
	if err := fileutil.PrepareLogFile(cfg.Path); err != nil {
		return nil, err
	}

	var base io.WriteCloser
	if cfg.BackupCount == 0 {
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to setup log file at %s: %w", cfg.Path, err)
		}
		base = file
	} else {
		base = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    rotationMegabytes(cfg.MaxSize),
			MaxBackups: cfg.BackupCount,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
	}

	enc, err := htmlindex.Get(cfg.Encoding)
	if err != nil {
		_ = base.Close()
		return nil, fmt.Errorf("unsupported encoding %q: %w", cfg.Encoding, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return newFileOutput(base, base), nil
	}
	encoded := transform.NewWriter(base, encoding.ReplaceUnsupported(enc.NewEncoder()))
	// The transform writer flushes on Close but leaves base open.
	return newFileOutput(encoded, encoded, base), nil
}

func rotationMegabytes(maxBytes int64) int {
	if maxBytes <= 0 {
		return 1
	}
	mb := (maxBytes + mebibyte - 1) / mebibyte
	if mb < 1 {
		mb = 1
	}
	return int(mb)
}
