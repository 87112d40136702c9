package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/YuminosukeSato/mantar/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// SetupLogger installs the process-wide slog default: JSON records on stdout
// and, when logFile is set, the same records appended to that file. The file
// is rotated at 10 MB.
// The returned function closes the file.
func SetupLogger(loglevel, logFile string) (func() error, error) {
	return SetupLoggerTo(os.Stdout, loglevel, logFile)
}

// SetupLoggerTo is SetupLogger with the console sink replaced by w.
// Commands that print results on stdout log to stderr.
func SetupLoggerTo(w io.Writer, loglevel, logFile string) (func() error, error) {
	level := ToLogLevel(loglevel)
	stdout := NewJSONHandler(w, level)

	if logFile == "" {
		slog.SetDefault(slog.New(WrapByErrFmtHandler(stdout)))
		return func() error { return nil }, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
		Compress:   true,
	}
	// lumberjack は最初の書き込みでファイルを開くので、ここで開いて不正なパスを検出する
	if _, err := rotator.Write(nil); err != nil {
		slog.SetDefault(slog.New(WrapByErrFmtHandler(stdout)))
		return func() error { return nil }, errors.Wrapf(err, "open log file %s", logFile)
	}

	fanout := slogmulti.Fanout(stdout, NewJSONHandler(rotator, level))
	slog.SetDefault(slog.New(WrapByErrFmtHandler(fanout)))
	return rotator.Close, nil
}

// NewJSONHandler returns the JSON handler used for every sink.
// Keys are renamed to the Cloud Logging format.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &ops)
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
