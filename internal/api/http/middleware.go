package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/emelnikov/linkly/internal/models"
	"github.com/emelnikov/linkly/pkg/response"
	"github.com/go-chi/render"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyRole
)

const bearerPrefix = "Bearer "

// authenticate rejects requests without a valid bearer token and injects
// the caller's account id and role into the request context.
func authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.MissingTokenResponse)
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.InvalidTokenResponse)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.InvalidTokenResponse)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			ctx = context.WithValue(ctx, ctxKeyRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin guards administrative routes. It must run after
// authenticate.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(ctxKeyRole).(string)
		if role != models.RoleAdmin {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.ForbiddenResponse)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func userIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(ctxKeyUserID).(int64)
	return userID, ok
}
