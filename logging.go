package gekko

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger is a leveled, timestamped logger writing to a single stream.
type DefaultLogger struct {
	mu    sync.Mutex
	debug bool
	out   *charmlog.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(os.Stderr, prefix, debug)
}

func NewDefaultLoggerTo(w io.Writer, prefix string, debug bool) *DefaultLogger {
	out := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          prefix,
		Level:           levelFor(debug),
	})
	return &DefaultLogger{
		debug: debug,
		out:   out,
	}
}

func levelFor(debug bool) charmlog.Level {
	if debug {
		return charmlog.DebugLevel
	}
	return charmlog.InfoLevel
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.out.SetLevel(levelFor(enabled))
	l.mu.Unlock()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.out.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.out.Warnf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.out.Errorf(format, args...)
}

// LoggingModule installs a logger as a resource. When Logger is nil a
// DefaultLogger writing to stderr is created.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Logger Logger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewDefaultLogger(m.Prefix, m.Debug)
	}
	app.addResources(&loggerResource{Logger: logger})
}

// loggerResource wraps the interface so it can be keyed by a concrete type.
type loggerResource struct {
	Logger
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger                            { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the installed Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil || app.resources == nil {
		return NewNopLogger()
	}
	if res, ok := Resource[*loggerResource](app); ok && res.Logger != nil {
		return res.Logger
	}
	return NewNopLogger()
}
