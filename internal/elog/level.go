package elog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is the severity of a report.
type Level int

// Report levels, least severe first.
const (
	Debug Level = iota
	Log
	Info
	Notice
	Warning
	Error
)

var levelNames = [...]string{
	Debug:   "DEBUG",
	Log:     "LOG",
	Info:    "INFO",
	Notice:  "NOTICE",
	Warning: "WARNING",
	Error:   "ERROR",
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// slogLevel maps a report level onto the slog scale.
func (l Level) slogLevel() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Log, Info:
		return slog.LevelInfo
	case Notice:
		return slog.LevelInfo + 2
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ParseLevel parses a level name such as "warning" or "INFO".
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	if strings.EqualFold(s, "warn") {
		return Warning, nil
	}

	return 0, fmt.Errorf("unknown report level %q", s)
}
