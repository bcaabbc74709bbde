package auth

import (
	"context"
	"time"
)

// Credentials are what an administrator presents at login: a password, or a
// token signed with the shared secret whose subject is the username.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// Service verifies administrator identities.
type Service interface {
	// Verify returns the administrator's username when creds match a known
	// administrator, and errs.ErrNotAuthenticated otherwise.
	Verify(ctx context.Context, creds Credentials) (string, error)
	IssueToken(username string, ttl time.Duration) (string, error)
}
