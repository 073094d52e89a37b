// Package logx configures the process-wide slog logger with a
// terminal-colored level field.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// Verbosity holds the -vv, -v and -q flags. Debug beats Verbose, which beats Quiet.
type Verbosity struct {
	Debug, Verbose, Quiet bool
}

// Level maps the flags to a slog level; no flags means warnings and errors only.
func (v Verbosity) Level() slog.Level {
	switch {
	case v.Debug:
		return slog.LevelDebug
	case v.Verbose:
		return slog.LevelInfo
	case v.Quiet:
		return slog.LevelError
	}
	return slog.LevelWarn
}

// levelColor is the ANSI color index for each level.
func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "1"
	case l >= slog.LevelWarn:
		return "3"
	case l >= slog.LevelInfo:
		return "4"
	default:
		return "8"
	}
}

// NewHandler returns a text handler writing to w at level. The level field
// is colored when w is a terminal.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey {
				return a
			}
			l, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			s := out.String(l.String()).Foreground(out.Color(levelColor(l))).Bold()
			return slog.String(slog.LevelKey, s.String())
		},
	})
}

// Setup installs a stderr logger at v.Level() as the slog default.
func Setup(v Verbosity) *slog.Logger {
	log := slog.New(NewHandler(os.Stderr, v.Level()))
	slog.SetDefault(log)
	return log
}
