package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"energytrack/internal/domain"
	"energytrack/internal/dto"
	"energytrack/internal/observability/metrics"
	"energytrack/internal/observability/middleware"
	"energytrack/internal/service"
	"energytrack/internal/store"

	"github.com/google/uuid"
)

const resetTokenBytes = 20

type AuthServiceImpl struct {
	Store           *store.Store
	PasswordService service.PasswordService
	TService        service.TokenService
	Mail            service.MailService
	ResetTokenTTL   time.Duration
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, mail service.MailService, resetTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           st,
		PasswordService: passwordService,
		TService:        tokenService,
		Mail:            mail,
		ResetTokenTTL:   resetTTL,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Username == "" || r.Password == "" {
		result = "failure"
		return nil, domain.ErrMissingFields
	}

	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	var user *domain.User
	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		// Duplicate checks run in the same transaction as the insert; the
		// unique indexes still back them up under concurrent registration.
		if _, err := tx.Users().GetByEmail(ctx, r.Email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if _, err := tx.Users().GetByUsername(ctx, r.Username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		user = &domain.User{
			ID:           uuid.New(),
			Email:        r.Email,
			Username:     r.Username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	token, err := a.TService.Issue(user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "request_id", middleware.RequestIDFromContext(ctx))

	return &dto.AuthResponse{Token: token, User: userView(user)}, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()

	identifier := loginIdentifier(r)
	if identifier == "" || r.Password == "" {
		result = "failure"
		return nil, domain.ErrMissingFields
	}

	var user *domain.User
	var err error
	if looksLikeEmail(identifier) {
		user, err = a.Store.Users().GetByEmail(ctx, identifier)
	} else {
		user, err = a.Store.Users().GetByUsername(ctx, identifier)
	}
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			// Same error as a bad password so callers can't probe for accounts.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	token, err := a.TService.Issue(user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "request_id", middleware.RequestIDFromContext(ctx))

	return &dto.AuthResponse{Token: token, User: userView(user)}, nil
}

func (a *AuthServiceImpl) GetProfile(ctx context.Context, userID domain.UserID) (*dto.UserView, error) {
	user, err := a.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	v := userView(user)
	return &v, nil
}

func (a *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc()
	}()

	if email == "" {
		result = "failure"
		return domain.ErrMissingFields
	}

	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		result = "failure"
		return err
	}
	expires := time.Now().UTC().Add(a.ResetTokenTTL)

	if err := a.Store.Users().SetResetToken(ctx, user.ID, token, expires); err != nil {
		result = "failure"
		return err
	}

	if err := a.Mail.SendPasswordReset(ctx, user.Email, token); err != nil {
		result = "failure"
		return err
	}

	slog.Info("password reset requested", "user_id", user.ID, "request_id", middleware.RequestIDFromContext(ctx))
	return nil
}

func (a *AuthServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("confirm", result).Inc()
	}()

	if token == "" || newPassword == "" {
		result = "failure"
		return domain.ErrMissingFields
	}

	hash, err := a.PasswordService.Hash(newPassword)
	if err != nil {
		result = "failure"
		return err
	}

	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByResetToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidResetToken
			}
			return err
		}
		if user.ResetExpires == nil || user.ResetExpires.Before(time.Now().UTC()) {
			return domain.ErrInvalidResetToken
		}

		if err := tx.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		// Single use: the token is gone the moment the new password lands.
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
	if err != nil {
		result = "failure"
		return err
	}

	slog.Info("password reset confirmed", "request_id", middleware.RequestIDFromContext(ctx))
	return nil
}

func looksLikeEmail(s string) bool { return strings.ContainsRune(s, '@') }

func loginIdentifier(r dto.LoginRequest) string {
	if r.Identifier != "" {
		return r.Identifier
	}
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func userView(u *domain.User) dto.UserView {
	return dto.UserView{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
