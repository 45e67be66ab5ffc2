package impl

import (
	"errors"
	"time"

	"energytrack/internal/domain"
	"energytrack/internal/observability/metrics"
	"energytrack/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "energytrack"
	TTL        time.Duration // e.g. 7 * 24h
	SigningKey []byte        // HS256 secret
}

// ====== Claims ======

type SessionClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ====== Service ======

type TokenServiceImpl struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg}
}

func (t *TokenServiceImpl) Issue(user *domain.User) (string, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("issue", result).Inc()
	}()

	tok, err := t.sign(user.ID, user.Username, time.Now().UTC())
	if err != nil {
		result = "failure"
		return "", err
	}
	return tok, nil
}

func (t *TokenServiceImpl) Verify(token string) (*service.Identity, error) {
	claims, err := t.parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &service.Identity{UserID: userID, Username: claims.Username}, nil
}

// Refresh re-verifies the presented token and mints a new one with a fresh
// expiry. There is no revocation list; expiry is the only invalidation.
func (t *TokenServiceImpl) Refresh(token string) (string, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()

	claims, err := t.parse(token)
	if err != nil {
		result = "failure"
		return "", err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		result = "failure"
		return "", domain.ErrTokenInvalid
	}
	tok, err := t.sign(userID, claims.Username, time.Now().UTC())
	if err != nil {
		result = "failure"
		return "", err
	}
	return tok, nil
}

// ====== Helpers ======

func (t *TokenServiceImpl) sign(userID uuid.UUID, username string, now time.Time) (string, error) {
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) parse(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
