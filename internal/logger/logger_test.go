package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameIDIsUUID(t *testing.T) {
	a, b := NewGameID(), NewGameID()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestForGameAddsGameID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	ctx := WithGameID(context.Background(), "g-1")
	assert.Equal(t, "g-1", GameIDFromContext(ctx))

	l := ForGame(ctx)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"gameId":"g-1"`)

	buf.Reset()
	l = ForGame(context.Background())
	l.Info().Msg("hello")
	assert.NotContains(t, buf.String(), "gameId")
}

func TestLogLineTruncates(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.TraceLevel)

	LogLine(l, "in", strings.Repeat("x", 2000))
	assert.Contains(t, buf.String(), `"truncated":true`)

	buf.Reset()
	LogLine(l, "out", "No moves")
	assert.Contains(t, buf.String(), `"line":"No moves"`)

	buf.Reset()
	LogLine(l, "out", "")
	assert.Empty(t, buf.String())
}
