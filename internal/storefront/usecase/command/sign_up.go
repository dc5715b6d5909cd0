package command

import (
	"context"
	"strings"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// SignUpCommand represents the command to register a new account
type SignUpCommand struct {
	Email    string
	Password string
}

// SignUpHandler handles sign up command
type SignUpHandler struct {
	auth domain.Authenticator
}

// NewSignUpHandler creates a new sign up handler
func NewSignUpHandler(auth domain.Authenticator) *SignUpHandler {
	return &SignUpHandler{auth: auth}
}

// Handle executes the sign up command
func (h *SignUpHandler) Handle(ctx context.Context, cmd SignUpCommand) (*domain.User, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, domain.NewAuthError(domain.ReasonValidation, "sign up", "Email and password are required.", domain.ErrBlankInput)
	}

	user, err := h.auth.SignUp(ctx, email, cmd.Password)
	if err != nil {
		return nil, classifyAuthError("sign up", err)
	}
	return user, nil
}
