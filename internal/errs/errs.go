// Package errs defines the error kinds shared by every layer of the client.
//
// Kinds are sentinel values compared with errors.Is. Storage failures are
// reported as *StorageError so callers can tell a broken query apart from a
// business rule that said no.
package errs

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

var (
	ErrUsage                = errors.New("usage error")
	ErrNoStoreSelected      = errors.New("no store selected, use \"store set <id>\" first")
	ErrNoSuchStore          = errors.New("no such store")
	ErrNoSuchProduct        = errors.New("no such product")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNumberExhausted = errors.New("could not generate an unused reorder number")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotPermitted         = errors.New("command not permitted for this user")
	ErrNotDistributed       = errors.New("no vendor distributes this product's brand")
)

// StorageError is a database failure not covered by another kind.
type StorageError struct {
	Query string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Query, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err into a *StorageError for the named query. A nil err stays
// nil, and errors that already carry a kind are returned untouched.
func Storage(query string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || IsKind(err) {
		return err
	}
	return &StorageError{Query: query, Err: err}
}

// Usagef builds an ErrUsage with a message for the user.
func Usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// IsKind reports whether err is one of the locally recoverable kinds.
func IsKind(err error) bool {
	for _, k := range []error{
		ErrUsage, ErrNoStoreSelected, ErrNoSuchStore, ErrNoSuchProduct,
		ErrInsufficientStock, ErrOrderNumberExhausted, ErrNotAuthenticated,
		ErrNotPermitted, ErrNotDistributed,
	} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// IsConnectionLost reports whether err means the database connection is gone
// and the session cannot continue.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
