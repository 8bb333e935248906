package log

import (
	"runtime"
	"strconv"
	"sync"
)

// CoreLogger is the standard Logger: level filtering, pooled events, optional
// caller capture, and fan-out to any number of appenders. Level filtering takes
// no lock; emitting an event briefly takes the appender lock to read the
// appender list, the same lock that appender management uses.
type CoreLogger struct {
	mu                sync.Mutex
	appenders         []LogAppender
	minLevel          Level
	callerSkip        int
	enabledCallerInfo bool
	eventPool         *sync.Pool
	callerCache       sync.Map // pc -> formatted "file:line"
}

// NewLogger builds a CoreLogger from cfg; a nil cfg uses the defaults.
func NewLogger(cfg *LogCfg) *CoreLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}
	l := &CoreLogger{
		minLevel:          cfg.LogLevel,
		callerSkip:        cfg.CallerSkip,
		enabledCallerInfo: cfg.EnabledCallerInfo,
	}
	l.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(l)
		},
	}
	if cfg.FileAppender {
		l.AddAppender(NewFileAppender(cfg))
	}
	if cfg.ConsoleAppender {
		l.AddAppender(NewConsoleAppender())
	}
	return l
}

// AddAppender attaches another output destination.
func (l *CoreLogger) AddAppender(a LogAppender) {
	l.mu.Lock()
	l.appenders = append(l.appenders, a)
	l.mu.Unlock()
}

// GetAppender returns the attached appenders.
func (l *CoreLogger) GetAppender() []LogAppender {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appenders
}

// SetLevel adjusts the minimum emitted severity at runtime.
func (l *CoreLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

func (l *CoreLogger) checkLevel(level Level) bool {
	return l.minLevel <= level
}

// event pulls a pooled event for the given level, or nil when filtered.
func (l *CoreLogger) event(level Level) *LogEvent {
	if !l.checkLevel(level) {
		return nil
	}
	e, _ := l.eventPool.Get().(*LogEvent)
	e.reset()
	e.level = level
	if l.enabledCallerInfo {
		e.caller(l.callerInfo())
	}
	return e
}

// callerInfo walks past the logging frames to the caller's file:line, caching
// per program counter.
func (l *CoreLogger) callerInfo() string {
	const baseSkip = 3 // callerInfo, event, the package-level or Logger method
	pc, file, line, ok := runtime.Caller(baseSkip + l.callerSkip)
	if !ok {
		return "unknown"
	}
	if cached, hit := l.callerCache.Load(pc); hit {
		return cached.(string)
	}
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	info := short + ":" + strconv.Itoa(line)
	l.callerCache.Store(pc, info)
	return info
}

// Trace starts a trace-level event.
func (l *CoreLogger) Trace() *LogEvent { return l.event(TraceLevel) }

// Debug starts a debug-level event.
func (l *CoreLogger) Debug() *LogEvent { return l.event(DebugLevel) }

// Info starts an info-level event.
func (l *CoreLogger) Info() *LogEvent { return l.event(InfoLevel) }

// Warn starts a warn-level event.
func (l *CoreLogger) Warn() *LogEvent { return l.event(WarnLevel) }

// Error starts an error-level event.
func (l *CoreLogger) Error() *LogEvent { return l.event(ErrorLevel) }

// Fatal starts a fatal-level event. Emitting it does not terminate the
// process; that decision belongs to the caller.
func (l *CoreLogger) Fatal() *LogEvent { return l.event(FatalLevel) }

// OnEventEnd writes a finished event to every appender and recycles it.
func (l *CoreLogger) OnEventEnd(e *LogEvent) {
	buf := e.buf.Bytes()
	for _, a := range l.GetAppender() {
		a.Write(buf) //nolint:errcheck // a failing appender must not break the caller
	}
	e.buf.Reset()
	l.eventPool.Put(e)
}

// Refresh flushes every appender.
func (l *CoreLogger) Refresh() {
	for _, a := range l.GetAppender() {
		a.Refresh() //nolint:errcheck
	}
}

// Close flushes and closes every appender.
func (l *CoreLogger) Close() {
	for _, a := range l.GetAppender() {
		a.Close() //nolint:errcheck
	}
}
