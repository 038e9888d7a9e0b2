// Package shell implements the minimal prompted command loop that drives a
// telnet.Terminal: a three-stage login handshake followed by a trivial
// command prompt, generalized from the original implementation's
// login-then-command-loop design to call out to an Authenticator
// collaborator instead of a direct database query.
package shell

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcarlsen/mudserver/internal/frontend/telnet"
)

// Prompt is the pluggable unit of shell dispatch: the current top-of-stack
// context frame names one, which renders the prompt text and handles the
// next line of input.
type Prompt interface {
	PromptText(conn *Connection) string
	ObscureInput() bool
	HandleInput(ctx context.Context, conn *Connection, line string) error
}

// Connection wraps a telnet.Terminal with the shell's context stack and
// running flag, grounded on the original implementation's
// server.Connection.
type Connection struct {
	term    *telnet.Terminal
	ctx     *contextStack
	running bool
	logger  *zap.Logger
}

// NewConnection wraps term in a fresh Connection with an empty context frame.
func NewConnection(term *telnet.Terminal, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{
		term:    term,
		ctx:     newContextStack(),
		running: true,
		logger:  logger,
	}
}

// SendMessage writes message to the terminal.
func (c *Connection) SendMessage(message string) error {
	return c.term.Write(message)
}

// Sleep suspends for d or until ctx is done.
func (c *Connection) Sleep(ctx context.Context, d time.Duration) error {
	return c.term.Sleep(ctx, d)
}

// Input reads one line of input, with the given prompt text, stripping its
// trailing newline before returning it.
func (c *Connection) Input(ctx context.Context, prompt string) (string, error) {
	line, err := c.term.Input(ctx, prompt)
	return strings.TrimRight(line, "\r\n"), err
}

// InputSecret is Input with local echo suppressed for password entry.
func (c *Connection) InputSecret(ctx context.Context, prompt string) (string, error) {
	line, err := c.term.InputSecret(ctx, prompt)
	return strings.TrimRight(line, "\r\n"), err
}

// Get returns the value for key in the current context frame.
func (c *Connection) Get(key string) any {
	return c.ctx.Get(key)
}

// Set merges kv into the current context frame.
func (c *Connection) Set(kv map[string]any) {
	c.ctx.Set(kv)
}

// Push copies the current context frame, then merges kv into the new top.
func (c *Connection) Push(kv map[string]any) {
	c.ctx.Push(kv)
}

// Pop discards the current context frame, then merges kv into the frame beneath it.
func (c *Connection) Pop(kv map[string]any) {
	c.ctx.Pop(kv)
}

// Stop ends the shell loop after the current HandleInput call returns.
func (c *Connection) Stop() {
	c.running = false
}

// Running reports whether the shell loop should continue.
func (c *Connection) Running() bool {
	return c.running
}

// CurrentPrompt returns the Prompt named by the current context frame's
// "prompt" key, or nil if none is set.
func (c *Connection) CurrentPrompt() Prompt {
	p, _ := c.Get("prompt").(Prompt)
	return p
}
