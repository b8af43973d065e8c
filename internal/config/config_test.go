package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logconf/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logging.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	logDir := t.TempDir()
	cfg := config.Default(logDir)

	if cfg.Level != config.LevelInfo {
		t.Fatalf("expected INFO default level, got %q", cfg.Level)
	}
	if cfg.File.Enabled {
		t.Fatal("expected file output disabled by default")
	}
	if cfg.File.Path != filepath.Join(logDir, "app.log") {
		t.Fatalf("unexpected default file path: %q", cfg.File.Path)
	}
	if cfg.File.MaxSize != 10*1024*1024 {
		t.Fatalf("unexpected default max size: %d", cfg.File.MaxSize)
	}
	if cfg.File.BackupCount != 5 {
		t.Fatalf("unexpected default backup count: %d", cfg.File.BackupCount)
	}
	if cfg.File.Encoding != "utf-8" {
		t.Fatalf("unexpected default encoding: %q", cfg.File.Encoding)
	}
	if !cfg.Console.Colors || !cfg.Console.RichErrors {
		t.Fatalf("expected console colours and rich errors by default, got %+v", cfg.Console)
	}
	if cfg.Patterns.Len() != 0 {
		t.Fatalf("expected no default patterns, got %d", cfg.Patterns.Len())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out", "service.log")
	path := writeConfig(t, `
[logging]
level = "debug"
run_id = true

[logging.file]
path = "`+logPath+`"
max_size = 2048
backup_count = 3
encoding = "latin1"
max_age_days = 7
compress = true

[logging.console]
colors = false

[logging.patterns]
"app.db.*" = "warning"
"app.*" = "ERROR"
"vendor?" = "critical"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Level != config.LevelDebug {
		t.Fatalf("expected DEBUG level, got %q", cfg.Level)
	}
	if !cfg.RunID {
		t.Fatal("expected run_id to be enabled")
	}
	if !cfg.File.Enabled {
		t.Fatal("expected file output enabled when [logging.file] is present")
	}
	if cfg.File.Path != logPath {
		t.Fatalf("unexpected file path: %q", cfg.File.Path)
	}
	if cfg.File.MaxSize != 2048 || cfg.File.BackupCount != 3 {
		t.Fatalf("unexpected rotation settings: %+v", cfg.File)
	}
	if cfg.File.Encoding != "latin1" {
		t.Fatalf("unexpected encoding: %q", cfg.File.Encoding)
	}
	if cfg.File.MaxAgeDays != 7 || !cfg.File.Compress {
		t.Fatalf("unexpected retention settings: %+v", cfg.File)
	}
	if cfg.Console.Colors {
		t.Fatal("expected colours disabled")
	}
	if !cfg.Console.RichErrors {
		t.Fatal("expected rich_tracebacks to default to true")
	}

	entries := cfg.Patterns.Entries()
	want := []struct {
		pattern string
		level   config.Level
	}{
		{"app.db.*", config.LevelWarning},
		{"app.*", config.LevelError},
		{"vendor?", config.LevelCritical},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d patterns, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Pattern != w.pattern || entries[i].Level != w.level {
			t.Fatalf("pattern %d: got %s=%s want %s=%s", i, entries[i].Pattern, entries[i].Level, w.pattern, w.level)
		}
	}
}

func TestLoadPreservesPatternDocumentOrder(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "INFO"

[logging.patterns]
"zeta.*" = "DEBUG"
"alpha.*" = "ERROR"
"*" = "WARNING"
"middle" = "CRITICAL"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	var got []string
	for _, entry := range cfg.Patterns.Entries() {
		got = append(got, entry.Pattern)
	}
	want := "zeta.*,alpha.*,*,middle"
	if strings.Join(got, ",") != want {
		t.Fatalf("pattern order: got %v want %s", got, want)
	}
	if level, _ := cfg.Patterns.LevelFor("alpha.module"); level != config.LevelError {
		t.Fatalf("expected alpha.module to resolve to ERROR, got %q", level)
	}
	if level, _ := cfg.Patterns.LevelFor("middle"); level != config.LevelWarning {
		t.Fatalf("expected catch-all to win over later entries, got %q", level)
	}
}

func TestLoadInlinePatternTable(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "INFO"
patterns = { "b.*" = "DEBUG", "a.*" = "ERROR" }
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	entries := cfg.Patterns.Entries()
	if len(entries) != 2 || entries[0].Pattern != "b.*" || entries[1].Pattern != "a.*" {
		t.Fatalf("unexpected inline pattern order: %+v", entries)
	}
}

func TestLoadWithoutFileSectionDisablesFileOutput(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "WARNING"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.Enabled {
		t.Fatal("expected file output disabled")
	}
	wd, _ := os.Getwd()
	if cfg.File.Path != filepath.Join(wd, "logs", "app.log") {
		t.Fatalf("unexpected fallback file path: %q", cfg.File.Path)
	}
	if cfg.File.MaxSize != 10*1024*1024 || cfg.File.BackupCount != 5 {
		t.Fatalf("unexpected fallback rotation settings: %+v", cfg.File)
	}
	if !cfg.Console.Colors || !cfg.Console.RichErrors {
		t.Fatalf("expected console defaults, got %+v", cfg.Console)
	}
}

func TestLoadHumanReadableMaxSize(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "INFO"

[logging.file]
path = "app.log"
max_size = "2 MiB"
backup_count = 1
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.MaxSize != 2*1024*1024 {
		t.Fatalf("expected 2 MiB, got %d", cfg.File.MaxSize)
	}
	if !filepath.IsAbs(cfg.File.Path) {
		t.Fatalf("expected file path to be absolute, got %q", cfg.File.Path)
	}
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	cases := map[string]string{
		"logging": `title = "nothing here"`,
		"level": `
[logging]
run_id = true
`,
		"path": `
[logging]
level = "INFO"
[logging.file]
max_size = 10
backup_count = 1
`,
		"max_size": `
[logging]
level = "INFO"
[logging.file]
path = "app.log"
backup_count = 1
`,
		"backup_count": `
[logging]
level = "INFO"
[logging.file]
path = "app.log"
max_size = 10
`,
	}
	for key, body := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("expected missing key error for %s", key)
			}
			want := "missing required configuration key: " + key
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("expected %q in error, got %v", want, err)
			}
		})
	}
}

func TestLoadRetentionOnlyFileSectionRequiresPath(t *testing.T) {
	for name, body := range map[string]string{
		"max_age_days": "max_age_days = 7\n",
		"compress":     "compress = true\n",
		"both":         "max_age_days = 7\ncompress = true\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte("[logging]\nlevel = \"INFO\"\n[logging.file]\n" + body))
			if err == nil {
				t.Fatal("expected a file section with only retention keys to be rejected")
			}
			if !strings.Contains(err.Error(), "missing required configuration key: path") {
				t.Fatalf("expected missing path error, got %v", err)
			}
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := map[string]string{
		"level": `
[logging]
level = "TRACE"
`,
		"max_size": `
[logging]
level = "INFO"
[logging.file]
path = "app.log"
max_size = 0
backup_count = 1
`,
		"backup_count": `
[logging]
level = "INFO"
[logging.file]
path = "app.log"
max_size = 10
backup_count = -1
`,
		"encoding": `
[logging]
level = "INFO"
[logging.file]
path = "app.log"
max_size = 10
backup_count = 1
encoding = "klingon"
`,
		"pattern level": `
[logging]
level = "INFO"
[logging.patterns]
"app.*" = "LOUD"
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("expected error for invalid %s", name)
			}
			if !strings.Contains(err.Error(), "invalid value in configuration file") {
				t.Fatalf("expected invalid value error, got %v", err)
			}
		})
	}
}

func TestLoadInvalidLevelListsChoices(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
[logging]
level = "verbose"
`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "CRITICAL, DEBUG, ERROR, INFO, WARNING") {
		t.Fatalf("expected sorted level list in error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), "configuration file not found") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "[logging\nlevel = "))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse TOML file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnvLevelOverridesFile(t *testing.T) {
	t.Setenv(config.EnvLevel, "error")
	cfg, err := config.Load(writeConfig(t, `
[logging]
level = "DEBUG"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Level != config.LevelError {
		t.Fatalf("expected env override to ERROR, got %q", cfg.Level)
	}
}

func TestEnvLevelInvalid(t *testing.T) {
	t.Setenv(config.EnvLevel, "chatty")
	_, err := config.Load(writeConfig(t, `
[logging]
level = "DEBUG"
`))
	if err == nil {
		t.Fatal("expected invalid env level to fail")
	}
	if !strings.Contains(err.Error(), config.EnvLevel) {
		t.Fatalf("expected env var name in error, got %v", err)
	}
}

func TestFileOutputWithPath(t *testing.T) {
	dir := t.TempDir()
	base := config.Default(dir).File

	updated, err := base.WithPath(filepath.Join(dir, "nested", "custom.log"))
	if err != nil {
		t.Fatalf("WithPath returned error: %v", err)
	}
	if !updated.Enabled {
		t.Fatal("expected WithPath to enable file output")
	}
	if updated.Path != filepath.Join(dir, "nested", "custom.log") {
		t.Fatalf("unexpected path: %q", updated.Path)
	}
	if base.Enabled || base.Path == updated.Path {
		t.Fatal("expected receiver to be unchanged")
	}
}

func TestFileOutputWithPathReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := config.Default(dir).File.WithPath(filepath.Join(dir, "app.log"))
	if err == nil || !strings.Contains(err.Error(), "log directory is not writable") {
		t.Fatalf("expected writability error, got %v", err)
	}
}

func TestFileOutputEnable(t *testing.T) {
	file := config.Default(t.TempDir()).File
	enabled := file.Enable()
	if !enabled.Enabled || file.Enabled {
		t.Fatalf("expected only the copy to be enabled: orig=%v copy=%v", file.Enabled, enabled.Enabled)
	}
}

func TestFileOutputValidate(t *testing.T) {
	file := config.Default(t.TempDir()).File
	file.MaxSize = 0
	if err := file.Validate(); err == nil || !strings.Contains(err.Error(), "max_size must be a positive integer") {
		t.Fatalf("expected max_size error, got %v", err)
	}
	file.MaxSize = 1
	file.BackupCount = -2
	if err := file.Validate(); err == nil || !strings.Contains(err.Error(), "backup_count must be a non-negative integer") {
		t.Fatalf("expected backup_count error, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "logging.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Level != config.LevelInfo {
		t.Fatalf("unexpected sample level %q", cfg.Level)
	}
	if !cfg.File.Enabled {
		t.Fatal("expected sample config to enable file output")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/logs/app.log")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "logs", "app.log") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
