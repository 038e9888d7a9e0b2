package telnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
)

// ReadSize is the buffer size used for each underlying transport read.
const ReadSize = 4096

// pollInterval bounds how long a single blocking Read may run before
// Terminal re-checks ctx.Done(), since net.Conn.Read is not itself
// context-aware. This is the Go-idiomatic realisation of the original
// async implementation's natural cooperative-cancellation point.
const pollInterval = 200 * time.Millisecond

// annotationEffect is attached to a LineBuffer annotation and executed when
// that annotation pops, e.g. to send the deferred WILL TM reply.
type annotationEffect func(*Terminal) error

// Terminal composes the CRLF transformer, tokenizer, stream parser, stream
// stuffer, line buffer, and echo FSM over a single net.Conn, exposing a
// prompted line-editor interface: Write, Input, InputSecret, Sleep, Close.
//
// A Terminal is created per accepted connection and is not safe for
// concurrent use — exactly one goroutine (the connection's) drives it.
type Terminal struct {
	conn net.Conn
	id   string

	tokenizer *Tokenizer
	parser    *StreamParser
	stuffer   StreamStuffer
	lineBuf   *LineBuffer
	echo      *EchoFSM

	pending []StreamUpdate

	logger *zap.Logger
}

// NewTerminal wraps conn with the full Telnet protocol stack.
//
// Precondition: conn must be a valid, open duplex connection; logger may be
// nil, in which case a no-op logger is used.
func NewTerminal(conn net.Conn, id string, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Terminal{
		conn:      conn,
		id:        id,
		tokenizer: &Tokenizer{},
		parser:    NewStreamParser(),
		lineBuf:   &LineBuffer{},
		echo:      &EchoFSM{},
		logger:    logger,
	}
}

// Write serialises and sends each item in order. A bare string is promoted
// to a UserDataItem. Writes are always flushed immediately — there is no
// internal buffering beyond the kernel socket buffer — so Write and
// WriteDrain behave identically; WriteDrain exists for interface symmetry
// with transports that do buffer.
func (t *Terminal) Write(items ...any) error {
	for _, item := range items {
		wi, err := asWriteItem(item)
		if err != nil {
			return err
		}
		out, err := t.stuffer.Stuff(wi)
		if err != nil {
			return err
		}
		if len(out) == 0 {
			continue
		}
		if _, err := t.conn.Write(out); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return nil
}

// WriteDrain is Write followed by an explicit flush hook. See Write.
func (t *Terminal) WriteDrain(items ...any) error {
	return t.Write(items...)
}

func asWriteItem(item any) (WriteItem, error) {
	switch v := item.(type) {
	case string:
		if v == "" {
			return UserDataItem{}, nil
		}
		return UserDataItem{Data: v}, nil
	case WriteItem:
		return v, nil
	default:
		return nil, fmt.Errorf("telnet: %T is not a WriteItem", item)
	}
}

// Sleep flushes pending output, then suspends for d or until ctx is done.
func (t *Terminal) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the underlying transport.
func (t *Terminal) Close() error {
	return t.conn.Close()
}

// Input loops reading and dispatching updates until a non-empty line is
// available, returning it including its trailing '\n'. The prompt is written
// before the first transport read the call needs; a line completed by
// updates already pending from an earlier read is returned without writing
// the prompt.
func (t *Terminal) Input(ctx context.Context, prompt string) (string, error) {
	return t.readLine(ctx, NewPromptManager(prompt))
}

// InputSecret is Input with local echo suppressed for the duration: it
// drives the echo FSM to WILL ECHO before reading, and restores WONT ECHO
// plus a literal "\n" afterward (the peer's echoed LF was suppressed along
// with everything else).
func (t *Terminal) InputSecret(ctx context.Context, prompt string) (string, error) {
	promptMgr := NewPromptManager(prompt)
	if out := promptMgr.RequireHasPrompt(); out != "" {
		if err := t.WriteDrain(out); err != nil {
			return "", err
		}
	}
	if reply, ok := t.echo.LocalRequest(true); ok {
		if err := t.Write(reply); err != nil {
			return "", err
		}
	}

	line, err := t.readLine(ctx, promptMgr)

	// The peer's echo was suppressed for the whole line, including its
	// terminating LF, so we write that LF ourselves before restoring echo.
	_ = t.Write("\n")
	if reply, ok := t.echo.LocalRequest(false); ok {
		_ = t.Write(reply)
	}

	return line, err
}

func (t *Terminal) readLine(ctx context.Context, promptMgr *PromptManager) (string, error) {
	for {
		if len(t.pending) == 0 {
			if err := t.fillPending(ctx, promptMgr); err != nil {
				return "", err
			}
		}

		if len(t.pending) == 0 {
			continue
		}
		update := t.pending[0]
		t.pending = t.pending[1:]

		if err := t.dispatch(promptMgr, update); err != nil {
			return "", err
		}

		if t.lineBuf.HasLine() {
			annotations, line, ok := t.lineBuf.Pop()
			if !ok {
				continue
			}
			for _, a := range annotations {
				if effect, ok := a.(annotationEffect); ok {
					if err := effect(t); err != nil {
						return "", err
					}
				}
			}
			if line != "" {
				return line, nil
			}
		}
	}
}

// fillPending emits the prompt (if due), reads one chunk from the
// transport, and tokenizes+parses it into t.pending.
func (t *Terminal) fillPending(ctx context.Context, promptMgr *PromptManager) error {
	if out := promptMgr.RequireHasPrompt(); out != "" {
		if err := t.WriteDrain(out); err != nil {
			return err
		}
	}

	data, err := t.read(ctx)
	if err != nil {
		return err
	}

	tokens := t.tokenizer.Tokenize(data)
	t.pending = t.parser.Parse(tokens)
	return nil
}

// read performs one blocking Read, polling ctx.Done() via a short read
// deadline since net.Conn is not natively context-aware.
func (t *Terminal) read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, ReadSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_ = t.conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, err := t.conn.Read(buf)
		if n > 0 {
			return buf[:n], nil
		}
		if err == nil {
			continue
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

func (t *Terminal) dispatch(promptMgr *PromptManager, update StreamUpdate) error {
	switch u := update.(type) {
	case UserDataUpdate:
		t.lineBuf.Append(u.Data)
		promptMgr.MarkUserData()
		return nil
	case OptionNegotiationUpdate:
		return t.dispatchNegotiation(u)
	case CommandUpdate:
		return t.dispatchCommand(promptMgr, u)
	case OptionSubnegotiationUpdate:
		t.logger.Debug("discarding subnegotiation payload",
			zap.String("term", t.id), zap.Uint8("option", u.Option))
		return nil
	default:
		return nil
	}
}

func (t *Terminal) dispatchNegotiation(u OptionNegotiationUpdate) error {
	switch u.Option {
	case OptEcho:
		if reply, ok := t.echo.PeerNegotiation(u); ok {
			return t.Write(reply)
		}
		return nil
	case OptTimingMark:
		if !u.State {
			return nil
		}
		if u.Host == HostLocal {
			t.lineBuf.Annotate(annotationEffect(func(term *Terminal) error {
				return term.Write(OptionNegotiationUpdate{
					Option: OptTimingMark, Raw: OptTimingMark, Host: HostLocal, State: true,
				})
			}))
		}
		return nil
	default:
		if u.State {
			return t.Write(u.Refuse())
		}
		return nil
	}
}

func (t *Terminal) dispatchCommand(promptMgr *PromptManager, u CommandUpdate) error {
	if u.Code == IP {
		t.lineBuf.Clear()
		promptMgr.MarkInterrupt()
		return nil
	}
	t.logger.Debug("ignoring telnet command", zap.String("term", t.id), zap.Uint8("code", u.Code))
	return nil
}
