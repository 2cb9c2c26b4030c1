package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	AppLogger  zerolog.Logger
	HttpLogger zerolog.Logger
)

// Init configures the package loggers. Level names follow zerolog (debug,
// info, warn, error); anything else falls back to info. When pretty is true
// both loggers write console output instead of JSON.
func Init(level string, pretty bool) {
	logLevel := parseLogLevel(level, zerolog.InfoLevel)

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return short + ":" + strconv.Itoa(line)
	}

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	// AppLogger carries caller info, HttpLogger stays lean for per-request
	// trace lines.
	AppLogger = zerolog.New(out).
		Level(logLevel).
		With().
		Timestamp().
		Caller().
		Logger()

	HttpLogger = zerolog.New(out).
		Level(logLevel).
		With().
		Timestamp().
		Logger()
}

func parseLogLevel(levelStr string, defaultLevel zerolog.Level) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return defaultLevel
	}
}
