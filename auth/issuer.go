package auth

import (
	"context"
	"errors"
	"fmt"
	"solara/constants"
	"solara/database"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// CredentialStore looks accounts up by email. Absence is reported as
// database.ErrNotFound.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*database.Account, error)
}

// Claims is the payload of an access token. Subject holds the account id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccountID parses the subject back into an account id.
func (c *Claims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return uint(id), nil
}

type Session struct {
	AccessToken string
	Account     database.Account
}

// Issuer checks credentials and signs HS256 access tokens. Tokens cannot be
// revoked or refreshed; they simply expire.
type Issuer struct {
	accounts CredentialStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(accounts CredentialStore, secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < constants.MIN_JWT_SECRET_LENGTH {
		return nil, fmt.Errorf("signing secret must be at least %d characters", constants.MIN_JWT_SECRET_LENGTH)
	}
	if ttl <= 0 {
		ttl = constants.DEFAULT_TOKEN_TTL
	}

	return &Issuer{
		accounts: accounts,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Authenticate returns a signed session for a matching email and password,
// and ErrInvalidCredentials for anything else.
func (i *Issuer) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	account, err := i.accounts.FindByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := i.Issue(account)
	if err != nil {
		return nil, err
	}

	safe := *account
	safe.PasswordHash = ""
	return &Session{AccessToken: token, Account: safe}, nil
}

// Issue signs a token for account valid for the issuer's ttl.
func (i *Issuer) Issue(account *database.Account) (string, error) {
	now := i.now()
	claims := &Claims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry. Only HMAC-signed tokens are accepted.
func (i *Issuer) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
