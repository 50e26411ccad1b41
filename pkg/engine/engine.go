// Package engine provides a Go client for bots that speak the Warlight line
// protocol over stdin/stdout. It manages the bot subprocess, feeds it game
// updates, and reads one answer line per request.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrClosed is returned by requests on an engine after Close.
	ErrClosed = errors.New("engine: closed")
	// ErrNotRunning is returned when the bot process has exited.
	ErrNotRunning = errors.New("engine: process is not running")
)

// Engine wraps a bot subprocess. It sends commands via stdin and reads
// answers from stdout.
type Engine struct {
	path string
	args []string

	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string

	mu     sync.Mutex
	closed bool
	exited chan struct{}
}

// NewEngine creates a new Engine pointing to the given binary path.
// The process is not started until Start is called.
func NewEngine(path string, args ...string) *Engine {
	return &Engine{
		path: path,
		args: args,
	}
}

// Start launches the bot subprocess. Warlight bots have no handshake, so the
// engine is usable as soon as Start returns.
func (e *Engine) Start() error {
	e.cmd = exec.Command(e.path, e.args...)

	var err error
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("engine: stdin pipe: %w", err)
	}

	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("engine: stdout pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("engine: start process: %w", err)
	}

	e.lines = make(chan string, 16)
	e.exited = make(chan struct{})

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				e.lines <- line
			}
		}
		close(e.lines)
	}()

	go func() {
		e.cmd.Wait()
		close(e.exited)
	}()

	return nil
}

// Send writes protocol lines to the bot without waiting for an answer.
func (e *Engine) Send(lines ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.stdin == nil {
		return ErrNotRunning
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(e.stdin, "%s\n", line); err != nil {
			return fmt.Errorf("engine: write: %w", err)
		}
	}
	return nil
}

// Request sends a line and waits for the bot's next output line. Answers
// to earlier requests that arrived after their deadline are discarded
// first.
func (e *Engine) Request(ctx context.Context, line string) (string, error) {
	if !e.isAlive() {
		return "", ErrNotRunning
	}
	e.drain()
	if err := e.Send(line); err != nil {
		return "", err
	}

	select {
	case answer, ok := <-e.lines:
		if !ok {
			return "", fmt.Errorf("engine: bot closed stdout after %q", line)
		}
		return answer, nil
	case <-ctx.Done():
		return "", fmt.Errorf("engine: waiting for answer to %q: %w", line, ctx.Err())
	}
}

// Close closes the bot's stdin and waits for process exit. If the process
// does not exit within 3 seconds, it is forcefully killed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if e.stdin != nil {
		e.stdin.Close()
	}

	if e.exited != nil {
		select {
		case <-e.exited:
		case <-time.After(3 * time.Second):
			log.Warn().Str("path", e.path).Msg("engine did not exit within 3s, killing")
			if e.cmd != nil && e.cmd.Process != nil {
				e.cmd.Process.Kill()
			}
			<-e.exited
		}
	}
	return nil
}

func (e *Engine) drain() {
	for {
		select {
		case line, ok := <-e.lines:
			if !ok {
				return
			}
			log.Debug().Str("line", line).Msg("engine: dropping late answer")
		default:
			return
		}
	}
}

// isAlive checks whether the bot process is still running.
func (e *Engine) isAlive() bool {
	if e.exited == nil {
		return false
	}
	select {
	case <-e.exited:
		return false
	default:
		return true
	}
}
