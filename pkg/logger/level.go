package logger

import (
	"log/slog"
	"strings"
)

// Level represents the log level.
type Level int

const (
	// LevelDebug represents debug-level logging (most verbose).
	LevelDebug Level = iota

	// LevelInfo represents info-level logging.
	LevelInfo

	// LevelWarn represents warning-level logging (CLI default).
	LevelWarn

	// LevelError represents error-level logging (least verbose).
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return "INFO"
}

// ParseLevel parses a level name case-insensitively. Unknown names map to LevelWarn.
func ParseLevel(s string) Level {
	for level, name := range levelNames {
		if strings.EqualFold(name, s) {
			return level
		}
	}

	return LevelWarn
}

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LevelFromFlags determines the log level from debug and trace flags.
func LevelFromFlags(debug, trace bool) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelWarn
	}
}
