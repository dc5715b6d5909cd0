package domain

import "strings"

// User is the authenticated identity. A nil *User means no active session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUser builds an identity, refusing partial ones
func NewUser(id, email string) (*User, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(email) == "" {
		return nil, &Error{Kind: KindAuth, Reason: ReasonValidation, Op: "new user", Message: "identity requires both id and email"}
	}
	return &User{ID: id, Email: email}, nil
}
