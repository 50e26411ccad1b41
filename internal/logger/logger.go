// Package logger provides structured logging using zerolog. Output goes to
// stderr because a bot's stdout carries the game protocol.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/CarloMagno/Warlight/internal/config"
)

type contextKey string

const gameIDKey contextKey = "game_id"

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// maxLineLog caps protocol lines written to the log.
const maxLineLog = 1000

// Init initializes the global logger from the log section of the config.
func Init(c config.LogConfig) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	const callerWidth = 30
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: milliTimeFormat,
		NoColor:    !c.Dev,
	}

	if c.File != "" {
		f, ferr := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr == nil {
			output = io.MultiWriter(output, f)
		}
	}

	log.Logger = log.Output(output).With().Timestamp().Caller().Logger()

	log.Info().
		Str("level", level.String()).
		Bool("dev", c.Dev).
		Msg("Logger initialized")
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// NewGameID returns a fresh identifier for a game or match.
func NewGameID() string {
	return uuid.NewString()
}

// WithGameID returns a new context with the given game ID stored.
func WithGameID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, gameIDKey, id)
}

// GameIDFromContext extracts the game ID from context, or empty string.
func GameIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(gameIDKey).(string)
	return id
}

// ForGame returns a logger enriched with the game ID from context.
func ForGame(ctx context.Context) zerolog.Logger {
	id := GameIDFromContext(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("gameId", id).Logger()
}

// LogLine logs one protocol line at trace level, truncating if too long.
// dir is "in" or "out".
func LogLine(logger zerolog.Logger, dir, line string) {
	if line == "" {
		return
	}
	if len(line) > maxLineLog {
		logger.Trace().Str("dir", dir).Str("line", line[:maxLineLog]).Bool("truncated", true).Msg("protocol")
	} else {
		logger.Trace().Str("dir", dir).Str("line", line).Msg("protocol")
	}
}
