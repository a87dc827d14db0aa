package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/erraggy/oasdecode/normalizer"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// NewLogger builds the CLI logger. Level accepts the zerolog level names
// (trace, debug, info, warn, error, fatal, panic, disabled).
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case LogFormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w}
	case LogFormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q. Valid formats: %s, %s", format, LogFormatConsole, LogFormatJSON)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ZerologAdapter lets the generator log through zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, attrs ...any) { z.logger.Debug().Fields(attrs).Msg(msg) }

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, attrs ...any) { z.logger.Info().Fields(attrs).Msg(msg) }

// Warn logs at warn level.
func (z *ZerologAdapter) Warn(msg string, attrs ...any) { z.logger.Warn().Fields(attrs).Msg(msg) }

// Error logs at error level.
func (z *ZerologAdapter) Error(msg string, attrs ...any) { z.logger.Error().Fields(attrs).Msg(msg) }

// With returns an adapter that adds attrs to every entry.
func (z *ZerologAdapter) With(attrs ...any) normalizer.Logger {
	return &ZerologAdapter{logger: z.logger.With().Fields(attrs).Logger()}
}

var _ normalizer.Logger = (*ZerologAdapter)(nil)
