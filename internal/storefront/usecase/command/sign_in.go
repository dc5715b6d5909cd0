package command

import (
	"context"
	"strings"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// SignInCommand represents the command to sign in with email and password
type SignInCommand struct {
	Email    string
	Password string
}

// SignInHandler handles sign in command
type SignInHandler struct {
	auth domain.Authenticator
}

// NewSignInHandler creates a new sign in handler
func NewSignInHandler(auth domain.Authenticator) *SignInHandler {
	return &SignInHandler{auth: auth}
}

// Handle executes the sign in command
func (h *SignInHandler) Handle(ctx context.Context, cmd SignInCommand) (*domain.User, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, domain.NewAuthError(domain.ReasonValidation, "sign in", "Email and password are required.", domain.ErrBlankInput)
	}

	user, err := h.auth.SignIn(ctx, email, cmd.Password)
	if err != nil {
		return nil, classifyAuthError("sign in", err)
	}
	return user, nil
}

// classifyAuthError makes sure every auth failure is an AuthError
func classifyAuthError(op string, err error) error {
	if domain.IsKind(err, domain.KindAuth) {
		return err
	}
	return domain.NewAuthError(domain.ReasonNetwork, op, "An unexpected error occurred.", err)
}
