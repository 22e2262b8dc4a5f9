package auth

import (
	"context"
	"log"
)

// CodeSender delivers a verification code to the address controlled by the
// registrant. Actual delivery transport is a deployment concern.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes codes to the server log for operator visibility.
// It stands in for a real mail integration.
type LogCodeSender struct{}

func (LogCodeSender) SendCode(_ context.Context, email, code string) error {
	log.Printf("verification code for %s: %s", email, code)
	return nil
}
