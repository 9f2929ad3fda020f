package auth

import (
	"context"
	"errors"
	"solara/database"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type fakeStore struct {
	accounts map[string]*database.Account
	err      error
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*database.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeStore{accounts: map[string]*database.Account{
		"admin@solara.com": {ID: 7, Email: "admin@solara.com", PasswordHash: string(hash)},
	}}

	issuer, err := NewIssuer(store, testSecret, 24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestAuthenticateIssuesTokenForAccount(t *testing.T) {
	issuer := newTestIssuer(t)

	session, err := issuer.Authenticate(context.Background(), "admin@solara.com", "senha123")
	require.NoError(t, err)
	assert.Empty(t, session.Account.PasswordHash)
	assert.Equal(t, uint(7), session.Account.ID)

	claims, err := issuer.ParseToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "admin@solara.com", claims.Email)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthenticateRejects(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@solara.com", "senha124"},
		{"unknown email", "ghost@solara.com", "senha123"},
		{"empty password", "admin@solara.com", ""},
		{"empty everything", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := issuer.Authenticate(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, session)
		})
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	issuer, err := NewIssuer(&fakeStore{err: boom}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Authenticate(context.Background(), "admin@solara.com", "senha123")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewIssuerRejectsShortSecret(t *testing.T) {
	_, err := NewIssuer(&fakeStore{}, "", time.Hour)
	assert.Error(t, err)

	_, err = NewIssuer(&fakeStore{}, "short", time.Hour)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	issuer := newTestIssuer(t)
	issuer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, err := issuer.Issue(&database.Account{ID: 7, Email: "admin@solara.com"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewIssuer(&fakeStore{}, strings.Repeat("x", 40), time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(&database.Account{ID: 7, Email: "admin@solara.com"})
	require.NoError(t, err)

	_, err = issuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	issuer := newTestIssuer(t)

	claims := &Claims{
		Email: "admin@solara.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	issuer := newTestIssuer(t)

	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}
