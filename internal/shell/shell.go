package shell

import (
	"context"
	"time"

	"github.com/rcarlsen/mudserver/internal/auth"
	"github.com/rcarlsen/mudserver/internal/frontend/telnet"
)

// MaxLoginTries is the number of failed login attempts tolerated before the
// connection is closed, matching the original implementation's game.MAX_TRIES.
const MaxLoginTries = 3

// loginRetryDelay throttles repeated failed-login attempts.
const loginRetryDelay = 1 * time.Second

// bannerText is written once at the start of every session.
const bannerText = "Welcome to the MUD.\n\n"

// Banner is bannerText rendered with the server's banner color.
var Banner = telnet.Colorize(telnet.BrightCyan, bannerText)

// Boot starts a freshly-connected session at the username prompt.
func Boot(conn *Connection, authenticator auth.Authenticator) error {
	if err := conn.SendMessage(Banner); err != nil {
		return err
	}
	conn.Push(map[string]any{
		"tag":    "auth",
		"tries":  0,
		"prompt": UsernamePrompt{},
	})
	conn.Set(map[string]any{"__authenticator": authenticator})
	return nil
}

// Run drives the command loop until the connection stops running, the
// context is cancelled, or reading/writing the terminal fails.
func Run(ctx context.Context, conn *Connection) error {
	for conn.Running() {
		if err := ctx.Err(); err != nil {
			return err
		}

		prompt := conn.CurrentPrompt()
		if prompt == nil {
			return nil
		}

		var (
			line string
			err  error
		)
		if prompt.ObscureInput() {
			line, err = conn.InputSecret(ctx, prompt.PromptText(conn))
		} else {
			line, err = conn.Input(ctx, prompt.PromptText(conn))
		}
		if err != nil {
			return err
		}

		if err := prompt.HandleInput(ctx, conn, line); err != nil {
			return err
		}
	}
	return nil
}
