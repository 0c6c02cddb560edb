// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)

// Configure sets the level and format of the standard logrus logger,
// writing to stderr.
//
// Supported levels: debug, info, warn, error. Supported formats: text, json.
func Configure(level, format string) error {
	return configure(logrus.StandardLogger(), os.Stderr, level, format)
}

func configure(l *logrus.Logger, out io.Writer, level, format string) error {
	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}
	formatter, err := parseFormat(format)
	if err != nil {
		return err
	}

	l.SetOutput(out)
	l.SetLevel(parsed)
	l.SetFormatter(formatter)
	return nil
}

func parseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return logrus.InfoLevel, nil
	case LevelDebug:
		return logrus.DebugLevel, nil
	case LevelWarn:
		return logrus.WarnLevel, nil
	case LevelError:
		return logrus.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}

func parseFormat(format string) (logrus.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return &logrus.TextFormatter{DisableTimestamp: true}, nil
	case FormatJSON:
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
