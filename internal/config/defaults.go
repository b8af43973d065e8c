package config

import (
	"os"
	"path/filepath"
)

const (
	defaultLevel       = LevelInfo
	defaultLogFile     = "logs/app.log"
	defaultLogFileName = "app.log"
	defaultMaxSize     = 10 * 1024 * 1024
	defaultBackupCount = 5
	defaultEncoding    = "utf-8"

	// EnvLevel overrides the configured global level when set.
	EnvLevel = "LOGCONF_LEVEL"
	// EnvConfig names the configuration file when no path is given.
	EnvConfig = "LOGCONF_CONFIG"
)

// Default returns a Config with console output (colours and rich error
// rendering on) at INFO and a disabled file output under logDir.
func Default(logDir string) Config {
	return Config{
		Level:   defaultLevel,
		File:    defaultFileOutput(filepath.Join(logDir, defaultLogFileName)),
		Console: ConsoleOutput{Colors: true, RichErrors: true},
	}
}

// DefaultLogDir returns the logs directory under the working directory.
func DefaultLogDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "logs"
	}
	return filepath.Join(wd, "logs")
}

func defaultFileOutput(path string) FileOutput {
	return FileOutput{
		Path:        path,
		MaxSize:     defaultMaxSize,
		BackupCount: defaultBackupCount,
		Encoding:    defaultEncoding,
	}
}
