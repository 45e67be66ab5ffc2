package service

import "energytrack/internal/domain"

// Identity is what a verified session token proves.
type Identity struct {
	UserID   domain.UserID
	Username string
}

type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*Identity, error)
	// Refresh trusts the presented token and mints one with a fresh expiry.
	Refresh(token string) (string, error)
}
