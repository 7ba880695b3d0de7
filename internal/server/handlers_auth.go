package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/almanac/internal/auth"
	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
	"github.com/louisbranch/almanac/internal/storage"
	"github.com/louisbranch/almanac/internal/user"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var errInvalidCredentials = apperrors.New(apperrors.CodeCredentialInvalid, "invalid username or password")

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := user.CreateUser(user.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
	}, s.clock, s.newID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = s.users.GetUserByUsername(r.Context(), created.Username)
	switch {
	case err == nil:
		writeError(w, r, apperrors.New(apperrors.CodeUsernameTaken, "username is already taken"))
		return
	case !errors.Is(err, storage.ErrNotFound):
		writeError(w, r, err)
		return
	}

	if err := s.users.PutUser(r.Context(), created); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		writeError(w, r, user.ErrEmptyUsername)
		return
	}
	if req.Password == "" {
		writeError(w, r, user.ErrEmptyPassword)
		return
	}

	// Unknown usernames and wrong passwords produce the same rejection so
	// login cannot be used to probe for accounts.
	account, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, errInvalidCredentials)
			return
		}
		writeError(w, r, err)
		return
	}
	if !user.CheckPassword(account, req.Password) {
		writeError(w, r, errInvalidCredentials)
		return
	}

	token, err := auth.IssueToken(account.ID, s.tokens)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{Token: token})
}

func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	raw, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, r, auth.ErrMissingToken)
		return
	}
	claims, err := auth.VerifyToken(raw, s.tokens)
	if err != nil {
		writeError(w, r, err)
		return
	}

	account, err := s.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "token subject no longer exists"))
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		User    struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}{
		Message: "Token is valid",
		User: struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		}{ID: account.ID, Username: account.Username},
	})
}
