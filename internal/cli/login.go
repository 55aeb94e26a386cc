package cli

import (
	"context"

	"github.com/spec-kit/ticket-booking/internal/service"
)

// LoginForm prompts for credentials on the console.
type LoginForm struct {
	console *Console
}

var _ service.CredentialSource = (*LoginForm)(nil)

// NewLoginForm builds the form.
func NewLoginForm(console *Console) *LoginForm {
	return &LoginForm{console: console}
}

// Credentials asks for one username/password pair.
func (f *LoginForm) Credentials(ctx context.Context) (string, string, error) {
	username, err := f.console.ReadLineContext(ctx, "Enter your username: ")
	if err != nil {
		return "", "", err
	}
	password, err := f.console.ReadPassword(ctx, "Enter your password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Rejected reports a failed attempt.
func (f *LoginForm) Rejected(_ context.Context, _ int) {
	f.console.Linef("Incorrect Username and/or Password. Please try again.")
}
