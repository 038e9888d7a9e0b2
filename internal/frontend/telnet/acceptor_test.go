package telnet

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rcarlsen/mudserver/internal/config"
	"github.com/rcarlsen/mudserver/internal/testutil"
)

// echoHandler is a test SessionHandler that echoes lines back to the client.
type echoHandler struct {
	sessionCount atomic.Int32
}

func (h *echoHandler) HandleSession(ctx context.Context, term *Terminal) error {
	h.sessionCount.Add(1)
	for {
		line, err := term.Input(ctx, "")
		if err != nil {
			return err
		}
		if line == "quit\n" {
			return term.Write("bye\n")
		}
		if err := term.Write("echo: " + line); err != nil {
			return err
		}
	}
}

func waitForAcceptor(t *testing.T, acc *Acceptor) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if acc.IsRunning() && acc.Addr() != "" {
			return acc.Addr()
		}
		select {
		case <-deadline:
			t.Fatal("acceptor did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestAcceptorStartAndStop(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := &echoHandler{}
	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0, // random port
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	acc := NewAcceptor(cfg, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- acc.ListenAndServe()
	}()

	addr := waitForAcceptor(t, acc)
	require.NotEmpty(t, addr)

	client := testutil.NewTelnetClient(t, addr)
	client.Send("hello")
	assert.Contains(t, client.ReadUntil("echo: hello", 2*time.Second), "echo: hello")

	client.Send("quit")
	assert.Contains(t, client.ReadUntil("bye", 2*time.Second), "bye")
	client.Close()

	acc.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor did not stop in time")
	}

	assert.Equal(t, int32(1), handler.sessionCount.Load())
}

func TestAcceptorMultipleClients(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := &echoHandler{}
	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	acc := NewAcceptor(cfg, handler, logger)

	go func() {
		_ = acc.ListenAndServe()
	}()

	addr := waitForAcceptor(t, acc)

	const numClients = 3
	clients := make([]*testutil.TelnetClient, numClients)
	for i := 0; i < numClients; i++ {
		clients[i] = testutil.NewTelnetClient(t, addr)
	}

	for _, client := range clients {
		client.Send("quit")
		client.ReadUntil("bye", 2*time.Second)
		client.Close()
	}

	time.Sleep(100 * time.Millisecond)

	acc.Stop()
	assert.Equal(t, int32(numClients), handler.sessionCount.Load())
}
