package server

import (
	"net/http"

	"github.com/louisbranch/almanac/internal/auth"
)

// authedHandler receives the user id carried by a verified bearer token.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requireAuth rejects requests without a valid bearer token and passes
// the claimed user id to the wrapped handler.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		next(w, r, claims.UserID)
	}
}
