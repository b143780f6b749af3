package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/handlers/principalctx"
	"github.com/sarcolor/backend/internal/handlers/render"
	"github.com/sarcolor/backend/internal/models"
)

type principalResolver interface {
	Authenticate(ctx context.Context, authHeader string) (models.Principal, error)
}

// AuthMiddleware resolves the bearer token into a principal and stores it
// in the request context. Status codes follow the resolver classification:
// only an inactive account gets 403, every other failure is 401.
func AuthMiddleware(resolver principalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, apperrors.ErrUserInactive) {
					status = http.StatusForbidden
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.ServiceError(w, err.Error(), status)
				return
			}

			ctx := principalctx.New(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
