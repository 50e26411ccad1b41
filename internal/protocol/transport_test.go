package protocol

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloMagno/Warlight/internal/bot"
)

func TestStreamConnLastLineWithoutNewline(t *testing.T) {
	c := NewStreamConn(strings.NewReader("a\r\nb"), io.Discard)

	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	line, err = c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, c.Close())
}

// hostServer plays the host side of one game over a websocket: it sends the
// setup in a single frame, then each round line in its own frame, and
// collects the bot's answers.
func hostServer(t *testing.T, answers chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		send := func(msg string) bool {
			return conn.WriteMessage(websocket.TextMessage, []byte(msg)) == nil
		}
		if !send(strings.Join(setupLines, "\n")) {
			return
		}
		for _, line := range roundLines {
			if !send(line) {
				return
			}
		}
		for _, req := range []string{"go place_armies 2000", "go attack/transfer 2000"} {
			if !send(req) {
				return
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			answers <- string(msg)
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
	}))
}

func TestServeWebsocket(t *testing.T) {
	answers := make(chan string, 2)
	srv := hostServer(t, answers)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := DialWS(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer conn.Close()

	d := NewDriver(bot.NewHeuristicStrategy(bot.DefaultParams()), zerolog.Nop())
	require.NoError(t, d.Serve(ctx, conn))

	close(answers)
	var got []string
	for a := range answers {
		got = append(got, a)
	}
	assert.Equal(t, []string{
		"player1 place_armies 1 4, player1 place_armies 2 1",
		"player1 attack/transfer 1 3 11",
	}, got)
}

func TestServeStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		errc <- Serve(ctx, bot.HoldStrategy{}, r, io.Discard, zerolog.Nop())
	}()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestDialWSFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := DialWS(ctx, "ws://127.0.0.1:1/none")
	assert.Error(t, err)
}
