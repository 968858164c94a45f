package logging

import (
	"io"
	"log/slog"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// Format selects the log encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// NewRedactor returns the ReplaceAttr hook that hides secrets in log records:
// fields tagged `masq:"secret"` and well-known credential field names.
func NewRedactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("PasswordHash"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("JWTSecret"),
		masq.WithFieldName("BotToken"),
		masq.WithFieldName("DSN"),
	)
}

// New builds a logger writing to w. Console output goes through clog; json
// output uses slog's JSON handler. Both redact secrets.
func New(w io.Writer, format Format, level slog.Level, color bool) (*slog.Logger, error) {
	redact := NewRedactor()

	var handler slog.Handler
	switch format {
	case FormatConsole, "":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
			clog.WithColor(color),
		)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		return nil, goerr.New("unknown log format", goerr.V("format", format))
	}

	return slog.New(handler), nil
}

// ParseLevel converts a level name into slog.Level
func ParseLevel(s string) (slog.Level, error) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	level, ok := levels[s]
	if !ok {
		return 0, goerr.New("unknown log level", goerr.V("level", s))
	}
	return level, nil
}
