package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// parseSize accepts a TOML integer byte count or a human size string such as
// "10 MiB" or "512kB".
func parseSize(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("max_size must be a whole number of bytes, got %v", v)
		}
		return int64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("max_size must not be empty")
		}
		n, err := humanize.ParseBytes(trimmed)
		if err != nil {
			return 0, fmt.Errorf("max_size: %w", err)
		}
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("max_size %q is too large", v)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("max_size must be an integer or size string, got %T", value)
	}
}
