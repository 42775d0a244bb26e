package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/logx"
)

// NewLogger builds the process logger. Format "console" writes human
// readable zerolog output, "text" uses slog's text handler and anything
// else emits JSON.
func NewLogger(cfg config.Log) logx.Logger {
	level := parseLevel(cfg.Level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "console":
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(zerologLevel(level)).
			With().Timestamp().Logger()
		return logx.NewZerologAdapter(zl)
	case "text":
		return logx.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	default:
		return logx.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func zerologLevel(l slog.Level) zerolog.Level {
	switch {
	case l < slog.LevelInfo:
		return zerolog.DebugLevel
	case l < slog.LevelWarn:
		return zerolog.InfoLevel
	case l < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
