package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter mounts the auth surface under /api/v1/auth plus the root and
// health endpoints. withAuth guards the routes that need a resolved
// principal; logout is guarded too: it answers 401/403 like any protected
// route before it clears the cookie.
func NewRouter(
	authHandler *AuthHandler,
	withAuth func(http.Handler) http.Handler,
	mds ...func(next http.Handler) http.Handler,
) http.Handler {
	authmux := http.NewServeMux()
	authmux.Handle("/", authHandler.Handler())
	authmux.Handle("GET /me", withAuth(handleMe()))
	authmux.Handle("POST /logout", withAuth(handleLogout(authHandler.authService.Cookie())))

	root := http.NewServeMux()
	root.Handle("/api/v1/auth/", http.StripPrefix("/api/v1/auth", authmux))
	root.Handle("GET /health", handleHealth())
	root.Handle("GET /{$}", handleRoot())

	return chain(root, mds...)
}
