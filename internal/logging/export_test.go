package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
)

// ResetForTest discards any installed configuration and restores the
// process-wide slog and log defaults.
func ResetForTest() {
	stateMu.Lock()
	defer stateMu.Unlock()
	_ = current.close()
	_ = fallback.close()
	current, fallback = nil, nil
	active.Store(nil)
	if prevDefault != nil {
		slog.SetDefault(prevDefault)
		prevDefault = nil
	}
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)
	fallbackConsole = os.Stdout
}

// SetFallbackConsoleForTest redirects console-only output used before Build.
func SetFallbackConsoleForTest(w io.Writer) {
	stateMu.Lock()
	defer stateMu.Unlock()
	fallbackConsole = w
}

const ConsoleOnlyWarning = consoleOnlyWarning
