// Package log is the structured logging stack shared by every voxnet
// component. Events are JSON objects assembled through a fluent API:
//
//	log.Info().Str("node", id.String()).Uint16("sequence", seq).Msg("released")
//
// A package-level default logger serves the common case; components that need
// their own destinations construct a CoreLogger directly.
package log

// Logger is the structured logging surface.
type Logger interface {
	Trace() *LogEvent
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	Fatal() *LogEvent
	AddAppender(a LogAppender)
	GetAppender() []LogAppender
	OnEventEnd(e *LogEvent)
}

var _defaultLogger *CoreLogger

func init() {
	// Usable out of the box; Initialize replaces this with the configured
	// logger at application startup.
	_defaultLogger = NewLogger(getDefaultCfg())
}

// Initialize configures the default logger. A nil cfg restores the defaults.
func Initialize(cfg *LogCfg) error {
	if cfg == nil {
		cfg = getDefaultCfg()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	SetDefaultLogger(NewLogger(cfg))
	return nil
}

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(l *CoreLogger) {
	_defaultLogger = l
}

// DefaultLogger returns the package-level logger.
func DefaultLogger() *CoreLogger {
	return _defaultLogger
}

// AddAppender attaches an appender to the default logger.
func AddAppender(a LogAppender) {
	_defaultLogger.AddAppender(a)
}

// Refresh flushes the default logger's appenders.
func Refresh() {
	_defaultLogger.Refresh()
}

// Close flushes and closes the default logger; call at shutdown.
func Close() {
	_defaultLogger.Close()
}

// Trace starts a trace-level event on the default logger.
func Trace() *LogEvent { return _defaultLogger.Trace() }

// Debug starts a debug-level event on the default logger.
func Debug() *LogEvent { return _defaultLogger.Debug() }

// Info starts an info-level event on the default logger.
func Info() *LogEvent { return _defaultLogger.Info() }

// Warn starts a warn-level event on the default logger.
func Warn() *LogEvent { return _defaultLogger.Warn() }

// Error starts an error-level event on the default logger.
func Error() *LogEvent { return _defaultLogger.Error() }

// Fatal starts a fatal-level event on the default logger.
func Fatal() *LogEvent { return _defaultLogger.Fatal() }
