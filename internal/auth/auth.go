// Package auth implements account registration guarded by a one-time
// passcode, and password login against the credential store.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by a CredentialStore lookup with no match.
	ErrNotFound = errors.New("credential not found")

	// ErrDuplicate signals a username or email uniqueness violation on insert.
	ErrDuplicate = errors.New("credential already exists")

	// ErrNoPendingSignup means a code was submitted with no signup in progress.
	ErrNoPendingSignup = errors.New("no signup in progress")

	// ErrInvalidCode means the submitted code does not match the pending one.
	// The pending registration stays intact; the client may retry.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrRegistrationConflict means the username or email was claimed between
	// validation and commit. The client must restart signup.
	ErrRegistrationConflict = errors.New("registration conflict")

	// ErrUnknownUser and ErrBadPassword stay distinct internally for logging
	// and tests; handlers collapse them into one external message.
	ErrUnknownUser = errors.New("unknown user")
	ErrBadPassword = errors.New("bad password")
)

// FieldError is a signup validation failure naming the offending field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Credential is a committed account. Immutable once created; only successful
// code verification creates one.
type Credential struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PendingRegistration is signup data awaiting code confirmation. It lives in
// the client's session bag, never in the credential store, and the code is
// discarded with it on commit.
type PendingRegistration struct {
	Username     string
	Email        string
	PasswordHash string
	Code         string
	CreatedAt    time.Time
}

// CredentialStore is the durable username/email -> credential mapping.
// Insert must enforce username and email uniqueness and return ErrDuplicate
// on conflict; that constraint is the sole serialization point for racing
// signups.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (Credential, error)
	FindByEmail(ctx context.Context, email string) (Credential, error)
	FindByID(ctx context.Context, id string) (Credential, error)
	Insert(ctx context.Context, cred Credential) error
}
