// Package logger wraps logrus with module-scoped helpers so call sites can
// tag log lines with the subsystem that produced them without constructing
// a field map every time.
package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newStd()

func newStd() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel adjusts the global log level (debug, info, warn, error).
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	std.SetLevel(lvl)
}

func Debug(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(format string, args ...interface{}) { std.Errorf(format, args...) }

// DebugX/InfoX/WarnX/ErrorX prefix the message with the originating module
// name, following the [Module] convention used throughout this codebase.
func DebugX(module, format string, args ...interface{}) {
	std.Debugf("[%s] %s", module, fmt.Sprintf(format, args...))
}

func InfoX(module, format string, args ...interface{}) {
	std.Infof("[%s] %s", module, fmt.Sprintf(format, args...))
}

func WarnX(module, format string, args ...interface{}) {
	std.Warnf("[%s] %s", module, fmt.Sprintf(format, args...))
}

func ErrorX(module, format string, args ...interface{}) {
	std.Errorf("[%s] %s", module, fmt.Sprintf(format, args...))
}
