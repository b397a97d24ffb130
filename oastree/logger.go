package oastree

import "log/slog"

// Logger is the structured logging interface used throughout
// oashttpguard. It mirrors the shape of popular logging libraries
// (log/slog, zap, zerolog) via variadic key-value attribute pairs:
//
//	logger.Debug("resolved reference", "ref", "#/components/schemas/Pet", "depth", 3)
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	// With returns a new Logger with the given attributes prepended to every log.
	With(attrs ...any) Logger
}

// NopLogger discards all output. It is the default logger: stateless
// validation stays silent unless a logger is explicitly wired in.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)  {}
func (NopLogger) Info(string, ...any)   {}
func (NopLogger) Warn(string, ...any)   {}
func (NopLogger) Error(string, ...any)  {}
func (n NopLogger) With(...any) Logger { return n }

var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to implement Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger, defaulting to slog.Default() when nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)
