// Package logger wraps logrus with the formatter and level plumbing
// used across the storage engine.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// Logger is the general-purpose logger.
	Logger *logrus.Logger
	// InfoLogger carries info-and-below messages.
	InfoLogger *logrus.Logger
	// ErrorLogger carries warnings and errors.
	ErrorLogger *logrus.Logger
)

func init() {
	// Sensible defaults so packages can log before InitLogger runs,
	// e.g. from init() in other packages or in tests.
	_ = InitLogger(Config{Level: "info"})
}

// Config controls where log output goes and at what level.
type Config struct {
	InfoLogPath  string
	ErrorLogPath string
	Level        string
}

type textFormatter struct{}

func (textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time.Format("15:04:05 2006/01/02")
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	msg := fmt.Sprintf("[%s] [%s] (%s) %s\n", ts, level, caller(), entry.Message)
	return []byte(msg), nil
}

func caller() string {
	for i := 2; i < 20; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "/logrus/") || strings.Contains(file, "logger.go") {
			continue
		}
		fn := runtime.FuncForPC(pc).Name()
		return fmt.Sprintf("%s:%s:%d", filepath.Base(file), fn, line)
	}
	return "unknown:unknown:0"
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// InitLogger (re)configures the package-level loggers.
func InitLogger(cfg Config) error {
	f := textFormatter{}

	Logger = logrus.New()
	Logger.SetFormatter(f)
	Logger.SetLevel(parseLevel(cfg.Level))

	InfoLogger = logrus.New()
	InfoLogger.SetFormatter(f)
	InfoLogger.SetLevel(parseLevel(cfg.Level))

	ErrorLogger = logrus.New()
	ErrorLogger.SetFormatter(f)
	ErrorLogger.SetLevel(parseLevel(cfg.Level))

	if cfg.InfoLogPath != "" {
		if file, err := openLogFile(cfg.InfoLogPath); err == nil {
			InfoLogger.SetOutput(io.MultiWriter(os.Stdout, file))
		} else {
			InfoLogger.SetOutput(os.Stdout)
		}
	} else {
		InfoLogger.SetOutput(os.Stdout)
	}

	if cfg.ErrorLogPath != "" {
		if file, err := openLogFile(cfg.ErrorLogPath); err == nil {
			ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, file))
		} else {
			ErrorLogger.SetOutput(os.Stderr)
		}
	} else {
		ErrorLogger.SetOutput(os.Stderr)
	}

	Logger.SetOutput(InfoLogger.Out)
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func Info(args ...interface{})                 { InfoLogger.Info(args...) }
func Infof(format string, args ...interface{})  { InfoLogger.Infof(format, args...) }
func Debug(args ...interface{})                 { Logger.Debug(args...) }
func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Warn(args ...interface{})                  { Logger.Warn(args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Error(args ...interface{})                 { ErrorLogger.Error(args...) }
func Errorf(format string, args ...interface{}) { ErrorLogger.Errorf(format, args...) }
