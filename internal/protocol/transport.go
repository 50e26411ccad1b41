package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 64 * 1024
)

// Conn carries protocol lines between the bot and its host. ReadLine
// returns io.EOF once the host is done.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// streamConn is a Conn over a byte stream such as stdin/stdout.
type streamConn struct {
	r *bufio.Reader
	c io.Closer
	w io.Writer
}

// NewStreamConn returns a Conn reading newline-terminated lines from r and
// writing them to w. Close closes r when it is an io.Closer.
func NewStreamConn(r io.Reader, w io.Writer) Conn {
	c, _ := r.(io.Closer)
	return &streamConn{r: bufio.NewReaderSize(r, maxMsgSize), c: c, w: w}
}

func (s *streamConn) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *streamConn) WriteLine(line string) error {
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

func (s *streamConn) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// wsConn is a Conn over text frames. A frame may hold several lines.
type wsConn struct {
	conn    *websocket.Conn
	pending []string

	mu     sync.Mutex
	closed bool
}

// DialWS connects to a host that exposes the protocol on a websocket.
func DialWS(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("protocol: ws dial: %w", err)
	}
	return NewWSConn(conn), nil
}

// NewWSConn wraps an established websocket connection.
func NewWSConn(conn *websocket.Conn) Conn {
	conn.SetReadLimit(maxMsgSize)
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadLine() (string, error) {
	for len(c.pending) == 0 {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}
		for _, line := range strings.Split(string(msg), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				c.pending = append(c.pending, line)
			}
		}
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

func (c *wsConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return io.ErrClosedPipe
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
