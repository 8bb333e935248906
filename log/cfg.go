package log

import "github.com/pkg/errors"

// LogCfg configures the logging stack: minimum level, output destinations,
// and the file rotation rule.
type LogCfg struct {
	// LogPath is the file destination; required when FileAppender is on.
	LogPath string `yaml:"path"`
	// LogLevel is the minimum severity emitted.
	LogLevel Level `yaml:"level"`
	// FileSplitMB rotates the log file once it exceeds this size.
	FileSplitMB int `yaml:"splitMB"`
	// FileAppender enables file output.
	FileAppender bool `yaml:"fileAppender"`
	// ConsoleAppender enables stdout output.
	ConsoleAppender bool `yaml:"consoleAppender"`
	// EnabledCallerInfo stamps each event with its file:line origin.
	EnabledCallerInfo bool `yaml:"enabledCallerInfo"`
	// CallerSkip widens the stack walk for wrapper layers.
	CallerSkip int `yaml:"callerSkip"`
}

// Validate checks the configuration for usable values.
func (cfg *LogCfg) Validate() error {
	if cfg.LogLevel < TraceLevel || cfg.LogLevel > FatalLevel {
		return errors.Errorf("invalid log level %d", cfg.LogLevel)
	}
	if cfg.FileAppender {
		if cfg.LogPath == "" {
			return errors.New("log path required when the file appender is enabled")
		}
		if cfg.FileSplitMB < 1 || cfg.FileSplitMB > 1024 {
			return errors.Errorf("file split size must be within [1,1024] MB, got %d", cfg.FileSplitMB)
		}
	}
	if !cfg.FileAppender && !cfg.ConsoleAppender {
		return errors.New("at least one appender must be enabled")
	}
	if cfg.CallerSkip < 0 {
		return errors.Errorf("caller skip must not be negative, got %d", cfg.CallerSkip)
	}
	return nil
}

var _defaultCfg = &LogCfg{
	LogPath:           "./voxnet.log",
	LogLevel:          DebugLevel,
	FileSplitMB:       50,
	FileAppender:      false,
	ConsoleAppender:   true,
	EnabledCallerInfo: true,
	CallerSkip:        1,
}

func getDefaultCfg() *LogCfg {
	cfg := *_defaultCfg
	return &cfg
}
