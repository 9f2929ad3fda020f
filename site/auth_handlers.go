package site

import (
	"errors"
	"net/http"
	"solara/auth"
	"solara/logging"
	"solara/metrics"
	"solara/response"
)

// loginRequest is not validated. Anything that matches no account,
// malformed input included, is a 401.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles POST /auth/login.
func (s *Site) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "account")
		return
	}

	session, err := s.issuer.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.RecordLogin(false)
		logging.Ctx(r.Context()).Warn().Str("email", req.Email).Msg("login rejected")
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, r, err, "account")
		return
	}

	metrics.RecordLogin(true)
	logging.Ctx(r.Context()).Info().Uint("account_id", session.Account.ID).Msg("admin signed in")
	response.JSON(w, http.StatusOK, loginResponse{AccessToken: session.AccessToken})
}
