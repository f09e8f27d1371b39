package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTimeLocation = "Local"

type (
	// GlobalConfig is the application wide logging configuration.
	GlobalConfig struct {
		DefaultLevel    LogLevel
		PackageLevels   map[string]LogLevel
		Writer          io.Writer
		ConsoleFormat   bool
		ShowCaller      bool
		TimeLocation    string
		ShowGoroutineID bool
	}

	globalFactory struct {
		sync.Mutex
		config              GlobalConfig
		loggers             map[string]*ContextLogger
		context             Context
		consoleTimeFormat   string
		callerSkipFrames    int // frames to skip to get to the real caller, depends on logger code
		packageNameResolver *PackageNameResolver
		nonAlphaNumeric     *regexp.Regexp
		initialized         bool
	}
)

var globalFactoryImpl = &globalFactory{
	loggers:             make(map[string]*ContextLogger),
	context:             make(Context),
	consoleTimeFormat:   "15:04:05.000000",
	callerSkipFrames:    4,
	packageNameResolver: &PackageNameResolver{BasePackage: "alphabill-org/digitalcash"},
	nonAlphaNumeric:     regexp.MustCompile(`[^a-zA-Z0-9]`),
}

// DeveloperConfiguration logs everything from DEBUG up to stdout in console format.
func DeveloperConfiguration() GlobalConfig {
	return GlobalConfig{
		DefaultLevel:  DEBUG,
		PackageLevels: map[string]LogLevel{},
		Writer:        os.Stdout,
		ConsoleFormat: true,
		ShowCaller:    true,
		TimeLocation:  defaultTimeLocation,
	}
}

// SetContext sets context key for all loggers.
func SetContext(key string, value interface{}) {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	globalFactoryImpl.context[key] = value
	globalFactoryImpl.updateAllLoggers()
}

// ClearContext clears a context key from all loggers.
func ClearContext(key string) {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	delete(globalFactoryImpl.context, key)
	globalFactoryImpl.updateAllLoggers()
}

// CreateForPackage creates logger named after the caller package.
func CreateForPackage() Logger {
	return Create(globalFactoryImpl.packageNameResolver.PackageName())
}

// Create creates custom named logger. Loggers are cached by normalized name.
func Create(name string) Logger {
	return globalFactoryImpl.create(name)
}

// UpdateGlobalConfig replaces the global configuration and updates all loggers accordingly.
func UpdateGlobalConfig(config GlobalConfig) {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	globalFactoryImpl.updateFromConfig(config)
}

// InitializeGlobalLogger applies developer configuration unless some configuration has been applied already.
func InitializeGlobalLogger() {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	if !globalFactoryImpl.initialized {
		globalFactoryImpl.updateFromConfig(DeveloperConfiguration())
	}
}

// PrintDebug writes the list of known loggers and their levels to w.
func PrintDebug(w io.Writer) {
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	names := make([]string, 0, len(globalFactoryImpl.loggers))
	for name := range globalFactoryImpl.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		l := globalFactoryImpl.loggers[name]
		fmt.Fprintf(w, "  %s - %s - showGoroutineID: %v\n", name, l.level, l.showGoroutineID)
	}
}

func (gf *globalFactory) updateFromConfig(config GlobalConfig) {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.PackageLevels == nil {
		config.PackageLevels = map[string]LogLevel{}
	}
	gf.config = config
	if config.TimeLocation != "" {
		gf.updateTimeLocation(config.TimeLocation)
	}
	gf.updateOutputFormat()
	gf.initialized = true
	gf.updateAllLoggers()
}

func (gf *globalFactory) updateTimeLocation(location string) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		loc, _ = time.LoadLocation(defaultTimeLocation)
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}
}

func (gf *globalFactory) updateOutputFormat() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	// filtering is done by the per logger levels
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	// loggers are shared between goroutines
	w := zerolog.SyncWriter(gf.config.Writer)
	var l zerolog.Logger
	if gf.config.ConsoleFormat {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:          w,
			TimeFormat:   gf.consoleTimeFormat,
			FormatCaller: consoleFormatCallerLastTwoDirs,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(w).With().Timestamp().Logger()
	}
	if gf.config.ShowCaller {
		l = l.With().CallerWithSkipFrameCount(gf.callerSkipFrames).Logger()
	}
	log.Logger = l
}

func (gf *globalFactory) updateAllLoggers() {
	for name, l := range gf.loggers {
		l.update(gf.loggerLevel(name), gf.context, gf.config.ShowGoroutineID)
	}
}

func (gf *globalFactory) create(name string) Logger {
	gf.Lock()
	defer gf.Unlock()

	normName := gf.nonAlphaNumeric.ReplaceAllString(name, "_")
	if l, ok := gf.loggers[normName]; ok {
		return l
	}
	// configuration refers to the loggers by name, packages are expected to
	// create loggers named after themselves
	cl := newContextLogger(gf.loggerLevel(normName), gf.context, gf.config.ShowGoroutineID)
	if gf.initialized {
		cl.update(cl.level, gf.context, gf.config.ShowGoroutineID)
	}
	gf.loggers[normName] = cl
	return cl
}

func (gf *globalFactory) loggerLevel(loggerName string) LogLevel {
	if level, ok := gf.config.PackageLevels[loggerName]; ok {
		return level
	}
	if !gf.initialized {
		return DeveloperConfiguration().DefaultLevel
	}
	return gf.config.DefaultLevel
}
