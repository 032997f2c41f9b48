package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/utils"
)

// auth guards a route group behind bearer-token authentication. The token
// from the "Authorization" header is verified through
// [service.AuthService.ParseToken]; the resulting user ID is placed in the
// request context under [utils.UserIDCtxKey] for the handlers behind it.
// A missing, malformed, expired, or otherwise invalid token yields 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := h.services.AuthService.ParseToken(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenIsExpired) {
				log.Err(err).Msg("token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// downstream handlers read the ID instead of re-parsing the token
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader pulls the token out of a "<scheme> <token>" header
// value. It reports [ErrInvalidAuthorizationHeader] when there is no second
// part at all and [ErrEmptyToken] when the second part is blank.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}
	if parts[1] == "" {
		return "", ErrEmptyToken
	}

	return parts[1], nil
}
