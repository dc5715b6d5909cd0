package command

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// SignOutHandler handles sign out command
type SignOutHandler struct {
	auth domain.Authenticator
}

// NewSignOutHandler creates a new sign out handler
func NewSignOutHandler(auth domain.Authenticator) *SignOutHandler {
	return &SignOutHandler{auth: auth}
}

// Handle executes the sign out command
func (h *SignOutHandler) Handle(ctx context.Context) error {
	if err := h.auth.SignOut(ctx); err != nil {
		return classifyAuthError("sign out", err)
	}
	return nil
}
