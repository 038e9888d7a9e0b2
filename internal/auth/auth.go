// Package auth adapts account storage to the narrow collaborator interface
// the shell package depends on.
package auth

import (
	"context"

	"github.com/rcarlsen/mudserver/internal/storage/postgres"
)

// Authenticator verifies a username/password pair and reports the
// associated account ID and role on success.
type Authenticator func(ctx context.Context, username, password string) (accountID int64, role string, ok bool)

// FromRepository adapts a postgres.AccountRepository to an Authenticator,
// so the shell package carries no compile-time dependency on pgx.
func FromRepository(repo *postgres.AccountRepository) Authenticator {
	return func(ctx context.Context, username, password string) (int64, string, bool) {
		acct, err := repo.Authenticate(ctx, username, password)
		if err != nil {
			return 0, "", false
		}
		return acct.ID, acct.Role, true
	}
}
