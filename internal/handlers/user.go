package handlers

import (
	"net/http"

	"github.com/sarcolor/backend/internal/handlers/principalctx"
	"github.com/sarcolor/backend/internal/handlers/render"
	"github.com/sarcolor/backend/internal/service/auth"
)

// Current authenticated principal. Runs behind the auth middleware, so the
// principal is always present in the context.
func handleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := principalctx.FromContext(r.Context())
		render.JSON(w, principal)
	})
}

// Logout clears the refresh cookie. Already issued access tokens remain
// valid until their own expiry; there is no server side revocation.
func handleLogout(cookie auth.CookieManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	})
}
