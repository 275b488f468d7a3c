package radial

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger is the structured logger used by controllers. It follows the slog
// calling convention of a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter implements Logger on top of a *slog.Logger.
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	opts.Logger = radial.NewSlogAdapter(slog.New(handler))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger means slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs at debug level.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }

// Info logs at info level.
func (s *SlogAdapter) Info(msg string, args ...any) { s.logger.Info(msg, args...) }

// Warn logs at warn level.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.logger.Warn(msg, args...) }

// Error logs at error level.
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// DefaultLogger logs text records at info level to stderr.
func DefaultLogger() Logger {
	return textLogger(os.Stderr, slog.LevelInfo, false)
}

// DebugLogger logs text records at debug level to stderr, with source
// locations.
func DebugLogger() Logger {
	return textLogger(os.Stderr, slog.LevelDebug, true)
}

func textLogger(w io.Writer, level slog.Level, source bool) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: source})
	return &SlogAdapter{logger: slog.New(handler)}
}

// JSONLogger logs JSON records at level to w, or to stderr when w is nil.
func JSONLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogAdapter{logger: slog.New(handler)}
}

// NopLogger discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// SessionID identifies one menu session in logs and events.
type SessionID string

// NewSessionID returns a random session id.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// IsValid reports whether id parses as a UUID.
func (id SessionID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// String returns the id text.
func (id SessionID) String() string {
	return string(id)
}

// SessionLogger adds a session_id attribute to every record.
type SessionLogger struct {
	base Logger
	id   SessionID
}

// NewSessionLogger wraps base. A nil base discards records.
func NewSessionLogger(base Logger, id SessionID) *SessionLogger {
	if base == nil {
		base = NopLogger()
	}
	return &SessionLogger{base: base, id: id}
}

// ID returns the session id.
func (l *SessionLogger) ID() SessionID { return l.id }

func (l *SessionLogger) with(args []any) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, "session_id", string(l.id))
	return append(out, args...)
}

// Debug logs at debug level.
func (l *SessionLogger) Debug(msg string, args ...any) { l.base.Debug(msg, l.with(args)...) }

// Info logs at info level.
func (l *SessionLogger) Info(msg string, args ...any) { l.base.Info(msg, l.with(args)...) }

// Warn logs at warn level.
func (l *SessionLogger) Warn(msg string, args ...any) { l.base.Warn(msg, l.with(args)...) }

// Error logs at error level.
func (l *SessionLogger) Error(msg string, args ...any) { l.base.Error(msg, l.with(args)...) }
