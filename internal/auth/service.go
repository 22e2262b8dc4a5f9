package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const codeDigits = 6

var codeSpace = big.NewInt(1_000_000)

// Service runs the signup state machine and login checks against the
// credential store. It is stateless; the pending registration between
// BeginSignup and VerifyCode belongs to the caller's session.
type Service struct {
	creds  CredentialStore
	sender CodeSender
	now    func() time.Time
}

func NewService(creds CredentialStore, sender CodeSender) *Service {
	return &Service{
		creds:  creds,
		sender: sender,
		now:    time.Now,
	}
}

// BeginSignup validates the signup fields, hashes the password, and returns a
// pending registration carrying a fresh 6-digit code, which is also handed to
// the code sender. The caller stores the result as the session's sole pending
// registration; any prior pending record is left untouched on failure.
func (s *Service) BeginSignup(ctx context.Context, username, email, password string) (PendingRegistration, error) {
	if username == "" {
		return PendingRegistration{}, &FieldError{Field: "username", Message: "username is required"}
	}
	if email == "" {
		return PendingRegistration{}, &FieldError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return PendingRegistration{}, &FieldError{Field: "password", Message: "password is required"}
	}

	if _, err := s.creds.FindByUsername(ctx, username); err == nil {
		return PendingRegistration{}, &FieldError{
			Field:   "username",
			Message: fmt.Sprintf("user %s is already registered", username),
		}
	} else if !errors.Is(err, ErrNotFound) {
		return PendingRegistration{}, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.creds.FindByEmail(ctx, email); err == nil {
		return PendingRegistration{}, &FieldError{
			Field:   "email",
			Message: fmt.Sprintf("email %s is already registered", email),
		}
	} else if !errors.Is(err, ErrNotFound) {
		return PendingRegistration{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return PendingRegistration{}, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return PendingRegistration{}, fmt.Errorf("generate code: %w", err)
	}

	pending := PendingRegistration{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Code:         code,
		CreatedAt:    s.now(),
	}

	if err := s.sender.SendCode(ctx, email, code); err != nil {
		return PendingRegistration{}, fmt.Errorf("send verification code: %w", err)
	}

	return pending, nil
}

// VerifyCode compares the submitted code against the pending registration
// and, on a match, commits the credential. A mismatch leaves the pending
// registration usable for another attempt. A uniqueness conflict at commit
// time means a concurrent signup won the race; the caller must discard the
// pending record and restart.
func (s *Service) VerifyCode(ctx context.Context, pending PendingRegistration, code string) (Credential, error) {
	if code != pending.Code {
		return Credential{}, ErrInvalidCode
	}

	cred := Credential{
		ID:           uuid.NewString(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		CreatedAt:    s.now(),
	}

	if err := s.creds.Insert(ctx, cred); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Credential{}, ErrRegistrationConflict
		}
		return Credential{}, fmt.Errorf("insert credential: %w", err)
	}

	return cred, nil
}

// Login verifies the password against the stored hash. ErrUnknownUser and
// ErrBadPassword are distinguishable here; callers present them identically.
func (s *Service) Login(ctx context.Context, username, password string) (Credential, error) {
	cred, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Credential{}, ErrUnknownUser
		}
		return Credential{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return Credential{}, ErrBadPassword
	}

	return cred, nil
}

// generateCode draws a uniform 6-digit numeric code, leading zeros allowed.
// Codes are single-use and session-scoped; there is no attempt throttling.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
