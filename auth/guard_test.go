package auth

import (
	"net/http"
	"net/http/httptest"
	"solara/database"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedHandler(t *testing.T, issuer *Issuer) (http.Handler, *bool) {
	t.Helper()
	reached := false
	h := Guard(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims := ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, "7", claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &reached
}

func TestGuardRejectsWithoutValidToken(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic YWRtaW46c2VuaGE="},
		{"bearer without token", "Bearer "},
		{"token without scheme", "eyJhbGciOiJIUzI1NiJ9"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, reached := guardedHandler(t, issuer)

			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"statusCode":401`)
			assert.False(t, *reached)
		})
	}
}

func TestGuardAcceptsValidToken(t *testing.T) {
	issuer := newTestIssuer(t)
	token, err := issuer.Issue(&database.Account{ID: 7, Email: "admin@solara.com"})
	require.NoError(t, err)

	h, reached := guardedHandler(t, issuer)

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, *reached)
}

func TestClaimsFromContextOutsideGuard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	assert.Nil(t, ClaimsFromContext(req.Context()))
}
