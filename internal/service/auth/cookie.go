package auth

import (
	"net/http"
	"time"

	"github.com/sarcolor/backend/internal/apperrors"
)

// RefreshCookieName is fixed: browsers match deletions by name and flags
const RefreshCookieName = "refresh_token"

// CookieManager owns the cookie that delivers the refresh token.
// The flag set never varies: HttpOnly keeps the long lived credential away
// from scripts, Secure keeps it off plain HTTP, SameSite=Lax limits
// cross-site sends.
type CookieManager struct {
	ttl time.Duration
}

func NewCookieManager(refreshTTL time.Duration) CookieManager {
	return CookieManager{ttl: refreshTTL}
}

// Attach sets the refresh cookie on the response
func (m CookieManager) Attach(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear issues a deletion with the same name and flags
// Browsers only honor deletion when the flags match the original cookie
func (m CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the refresh token from the request cookie
func (m CookieManager) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrRefreshCookieMissing
	}
	return cookie.Value, nil
}
