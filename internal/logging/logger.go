// Package logging provides centralized structured logging for boincgeist.
// It wraps zap.Logger and allows runtime-configurable level, output streams, and file logging.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents the logging configuration as defined in the YAML config.
type Config struct {
	Level      string `mapstructure:"level" yaml:"level"`             // "debug", "info", "warn", "error"
	ToStdout   bool   `mapstructure:"to_stdout" yaml:"to_stdout"`     // Enable output to stdout
	ToStderr   bool   `mapstructure:"to_stderr" yaml:"to_stderr"`     // Enable output to stderr
	ToFile     bool   `mapstructure:"to_file" yaml:"to_file"`         // Enable output to file
	FilePath   string `mapstructure:"file" yaml:"file"`               // Log file path, e.g. /var/log/boincctl.log
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`       // Max size before rotation (in MB)
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`         // Max age of logs (in days)
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"` // Number of rotated backups to keep
	Compress   bool   `mapstructure:"compress" yaml:"compress"`       // Gzip compress old log files
}

// DefaultConfig logs info and above to stderr, keeping stdout free for
// command output.
func DefaultConfig() Config {
	return Config{Level: "info", ToStderr: true}
}

// Log is the globally accessible sugared logger instance.
var Log *zap.SugaredLogger

// Build creates a logger from cfg without touching the global instance.
func Build(cfg Config) *zap.SugaredLogger {
	var cores []zapcore.Core

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	_ = level.Set(cfg.Level) // invalid or empty: stays InfoLevel

	if cfg.ToStdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if cfg.ToStderr {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}
	if cfg.ToFile && cfg.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}

	if len(cores) == 0 {
		// Fallback: always log somewhere
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

// Init replaces the global logger according to cfg.
func Init(cfg Config) {
	if Log != nil {
		_ = Log.Sync()
	}
	Log = Build(cfg)
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.SugaredLogger {
	return Log.Named(component)
}

func init() {
	Init(DefaultConfig())
}
