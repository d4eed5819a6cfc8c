// Package logger configures the process-wide structured logger. Level
// comes from LOG_LEVEL; output is stdout unless a rotating file is
// requested.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields aliases logrus.Fields so callers do not import logrus directly.
type Fields = logrus.Fields

var global = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Get returns the process logger.
func Get() *logrus.Logger {
	return global
}

// WithComponent returns an entry tagged with the given component name.
func WithComponent(component string) *logrus.Entry {
	return global.WithField("component", component)
}

// ToFile redirects the logger to a rotating file, keeping runs from
// overwriting each other's output.
func ToFile(path string) {
	global.SetOutput(&lumberjack.Logger{
		Filename: path,
		MaxSize:  100, // MB
		MaxAge:   30,  // days
		Compress: true,
	})
}
