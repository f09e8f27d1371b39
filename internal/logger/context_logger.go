package logger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	ContextLogger struct {
		zeroLogger      *zerolog.Logger
		level           LogLevel
		context         Context
		showGoroutineID bool
	}

	Context map[string]interface{}
)

// newContextLogger creates the logger without initializing it, so loggers can
// be created in the var phase and pick up the global configuration later.
func newContextLogger(level LogLevel, context Context, showGoroutineID bool) *ContextLogger {
	return &ContextLogger{
		level:           level,
		context:         context,
		showGoroutineID: showGoroutineID,
	}
}

func (c *ContextLogger) init() {
	c.update(c.level, c.context, c.showGoroutineID)
	InitializeGlobalLogger()
}

func (c *ContextLogger) update(level LogLevel, context Context, showGoroutineID bool) {
	c.level = level
	c.showGoroutineID = showGoroutineID

	zeroLogger := log.Level(toZeroLevel(level))
	for key, value := range context {
		zeroLogger = zeroLogger.With().Interface(key, value).Logger()
	}
	if showGoroutineID {
		zeroLogger = zeroLogger.Hook(goRoutineIDHook{})
	}
	c.zeroLogger = &zeroLogger
}

func (c *ContextLogger) event(f func(l *zerolog.Logger) *zerolog.Event) *zerolog.Event {
	if c.zeroLogger == nil {
		c.init()
	}
	return f(c.zeroLogger)
}

func (c *ContextLogger) Trace(format string, args ...interface{}) {
	logMessage(c.event((*zerolog.Logger).Trace), format, args)
}

func (c *ContextLogger) Debug(format string, args ...interface{}) {
	logMessage(c.event((*zerolog.Logger).Debug), format, args)
}

func (c *ContextLogger) Info(format string, args ...interface{}) {
	logMessage(c.event((*zerolog.Logger).Info), format, args)
}

func (c *ContextLogger) Warning(format string, args ...interface{}) {
	logMessage(c.event((*zerolog.Logger).Warn), format, args)
}

func (c *ContextLogger) Error(format string, args ...interface{}) {
	logMessage(c.event((*zerolog.Logger).Error), format, args)
}

func logMessage(event *zerolog.Event, format string, args []interface{}) {
	if len(args) == 0 {
		event.Msg(format)
	} else {
		event.Msgf(format, args...)
	}
}

func (c *ContextLogger) ChangeLevel(newLevel LogLevel) {
	if c.zeroLogger == nil {
		c.init()
	}
	c.level = newLevel
	*c.zeroLogger = c.zeroLogger.Level(toZeroLevel(newLevel))
}

func (c *ContextLogger) GetLevel() LogLevel {
	if c.zeroLogger == nil {
		c.init()
	}
	return fromZeroLevel(c.zeroLogger.GetLevel())
}

// goRoutineIDHook adds goroutine ID to the log event
type goRoutineIDHook struct{}

func (h goRoutineIDHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	e.Uint64("GoID", goroutineID())
}

func toZeroLevel(lvl LogLevel) zerolog.Level {
	switch lvl {
	case NONE:
		return zerolog.Disabled
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		panic(fmt.Sprintf("unknown level: %d", lvl))
	}
}

func fromZeroLevel(l zerolog.Level) LogLevel {
	switch l {
	case zerolog.Disabled:
		return NONE
	case zerolog.TraceLevel:
		return TRACE
	case zerolog.DebugLevel:
		return DEBUG
	case zerolog.InfoLevel:
		return INFO
	case zerolog.WarnLevel:
		return WARNING
	case zerolog.ErrorLevel:
		return ERROR
	default:
		panic(fmt.Sprintf("unknown level: %v", l))
	}
}
