package shell

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/rcarlsen/mudserver/internal/auth"
)

// usernameRe matches the original implementation's Account.valid_username.
var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{2,31}$`)

// ValidUsername reports whether username satisfies the account naming rule.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

func failLogin(ctx context.Context, conn *Connection) error {
	tries, _ := conn.Get("tries").(int)
	tries++
	if tries >= MaxLoginTries {
		conn.logger.Debug("closing without login")
		conn.Stop()
		return nil
	}
	conn.Set(map[string]any{"tries": tries, "prompt": UsernamePrompt{}})
	return conn.Sleep(ctx, loginRetryDelay)
}

// UsernamePrompt is the first prompt shown to a connecting client.
type UsernamePrompt struct{}

func (UsernamePrompt) PromptText(*Connection) string { return "Username: " }
func (UsernamePrompt) ObscureInput() bool            { return false }

func (UsernamePrompt) HandleInput(ctx context.Context, conn *Connection, username string) error {
	if !ValidUsername(username) {
		if err := conn.SendMessage("Invalid username.\n\n"); err != nil {
			return err
		}
		return failLogin(ctx, conn)
	}
	authenticator, _ := conn.Get("__authenticator").(auth.Authenticator)
	conn.Set(map[string]any{"username": username, "prompt": PasswordPrompt{Authenticate: authenticator}})
	return nil
}

// PasswordPrompt authenticates the username collected by UsernamePrompt.
type PasswordPrompt struct {
	Authenticate auth.Authenticator
}

func (PasswordPrompt) PromptText(*Connection) string { return "Password: " }
func (PasswordPrompt) ObscureInput() bool            { return true }

func (p PasswordPrompt) HandleInput(ctx context.Context, conn *Connection, password string) error {
	username, _ := conn.Get("username").(string)

	if password == "" || p.Authenticate == nil {
		conn.logger.Info("failed login", zap.String("user", username))
		if err := conn.SendMessage("Login failed.\n\n"); err != nil {
			return err
		}
		return failLogin(ctx, conn)
	}

	accountID, role, ok := p.Authenticate(ctx, username, password)
	if !ok {
		conn.logger.Info("failed login", zap.String("user", username))
		if err := conn.SendMessage("Login failed.\n\n"); err != nil {
			return err
		}
		return failLogin(ctx, conn)
	}

	conn.logger.Info("successful login", zap.String("user", username), zap.Int64("account_id", accountID))
	conn.Pop(map[string]any{"account_id": accountID, "username": username, "role": role})
	if err := conn.SendMessage(fmt.Sprintf("Welcome, %s.\n", username)); err != nil {
		return err
	}
	conn.Push(map[string]any{"tag": "cmdloop", "prompt": CommandPrompt{}})
	return nil
}

// CommandPrompt is the post-login command loop. It implements only "quit"
// and an echo fallback, matching the original implementation's minimal
// game.CommandPrompt — this shell is a demonstration harness for the
// Terminal, not a game engine.
type CommandPrompt struct{}

func (CommandPrompt) PromptText(conn *Connection) string {
	username, _ := conn.Get("username").(string)
	return username + "> "
}

func (CommandPrompt) ObscureInput() bool { return false }

func (CommandPrompt) HandleInput(_ context.Context, conn *Connection, line string) error {
	switch {
	case line == "quit":
		if err := conn.SendMessage("Goodbye!\n"); err != nil {
			return err
		}
		conn.Stop()
		return nil
	case line != "":
		return conn.SendMessage(line + "\n")
	default:
		return nil
	}
}
