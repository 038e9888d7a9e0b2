package shell

import (
	"context"

	"go.uber.org/zap"

	"github.com/rcarlsen/mudserver/internal/auth"
	"github.com/rcarlsen/mudserver/internal/frontend/telnet"
)

// Handler adapts the shell's Boot/Run loop to telnet.SessionHandler.
type Handler struct {
	Authenticator auth.Authenticator
	Logger        *zap.Logger
}

// HandleSession runs one client's login-then-command-loop session.
func (h *Handler) HandleSession(ctx context.Context, term *telnet.Terminal) error {
	conn := NewConnection(term, h.Logger)
	if err := Boot(conn, h.Authenticator); err != nil {
		return err
	}
	return Run(ctx, conn)
}
