package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "4s", "500ms", "1m", or integer milliseconds, bare
// (4000) or quoted ("4000").
// A value of "0" (or anything negative) disables auto-dismiss where it is used as a timeout.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer values are milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '4s', '500ms', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// UnmarshalTOML implements unstable.Unmarshaler. Without it a bare TOML
// integer would be stored as nanoseconds.
func (d *Duration) UnmarshalTOML(node *unstable.Node) error {
	switch node.Kind {
	case unstable.Integer:
		ms, err := strconv.ParseInt(string(node.Data), 0, 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", node.Data, err)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	case unstable.String:
		return d.UnmarshalText(node.Data)
	default:
		return fmt.Errorf("invalid duration: expected a string or integer milliseconds, got %v", node.Kind)
	}
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int64 {
	return time.Duration(d).Milliseconds()
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
