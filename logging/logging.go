// Package logging configures the process-wide logrus logger.
//
// Log lines go to stdout in colour (or JSON) and, when a file is configured,
// to a size-rotated plain-text file in the "time | logger | level | message"
// layout.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ComponentField names the per-component logger on every entry.
const ComponentField = "logger"

const (
	DefaultMaxSizeMB  = 5
	DefaultMaxBackups = 10
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Options configures Init.
type Options struct {
	Level      string // logrus level name, default info
	Format     string // text or json
	File       string // rotating log file, empty disables it
	MaxSizeMB  int
	MaxBackups int
	Output     io.Writer // defaults to os.Stdout
}

// Init rebuilds Log from opts. The returned closer flushes the log file.
func Init(opts Options) (io.Closer, error) {
	logger := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", opts.Format)
	}

	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stdout)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if opts.MaxSizeMB <= 0 {
			opts.MaxSizeMB = DefaultMaxSizeMB
		}
		if opts.MaxBackups <= 0 {
			opts.MaxBackups = DefaultMaxBackups
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		logger.AddHook(&fileHook{writer: rotator, formatter: &LineFormatter{}})
		closer = rotator
	}

	Log = logger
	return closer, nil
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField(ComponentField, component)
}

// LineFormatter writes "time | logger | level | message" followed by any
// remaining fields as key=value.
type LineFormatter struct{}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	component, _ := entry.Data[ComponentField].(string)
	if component == "" {
		component = "root"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s | %s",
		entry.Time.Format(time.DateTime),
		component,
		strings.ToUpper(entry.Level.String()),
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != ComponentField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

type fileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
