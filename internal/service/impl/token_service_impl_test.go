package impl

import (
	"testing"
	"time"

	"energytrack/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(ttl time.Duration) *TokenServiceImpl {
	return NewTokenServiceHS256(TokenConfig{
		Issuer:     "energytrack-test",
		TTL:        ttl,
		SigningKey: []byte("unit-test-signing-key"),
	})
}

func testUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:        uuid.New(),
		Email:     "alice@example.com",
		Username:  "alice",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	ts := testTokenService(time.Hour)
	user := testUser()

	tok, err := ts.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := ts.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, user.Username, id.Username)
}

func TestTokenVerifyExpired(t *testing.T) {
	ts := testTokenService(-time.Minute)
	tok, err := ts.Issue(testUser())
	require.NoError(t, err)

	_, err = ts.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenVerifyTampered(t *testing.T) {
	ts := testTokenService(time.Hour)
	tok, err := ts.Issue(testUser())
	require.NoError(t, err)

	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "energytrack-test",
		TTL:        time.Hour,
		SigningKey: []byte("a-different-key"),
	})
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = ts.Verify("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenVerifyWrongIssuer(t *testing.T) {
	issued := NewTokenServiceHS256(TokenConfig{
		Issuer:     "someone-else",
		TTL:        time.Hour,
		SigningKey: []byte("unit-test-signing-key"),
	})
	tok, err := issued.Issue(testUser())
	require.NoError(t, err)

	_, err = testTokenService(time.Hour).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenRefresh(t *testing.T) {
	ts := testTokenService(time.Hour)
	user := testUser()

	tok, err := ts.Issue(user)
	require.NoError(t, err)

	refreshed, err := ts.Refresh(tok)
	require.NoError(t, err)

	id, err := ts.Verify(refreshed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)

	// A dead token cannot be refreshed.
	expired := testTokenService(-time.Minute)
	deadTok, err := expired.Issue(user)
	require.NoError(t, err)
	_, err = expired.Refresh(deadTok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
