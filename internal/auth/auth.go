package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gohan-planner/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "gohan_auth"
	LoginPath  = "/login"
	// SessionTTL is both the cookie lifetime and the token expiry.
	SessionTTL = 30 * 24 * time.Hour

	keyLabel = "gohan-planner/session/v1:"
	subject  = "site"
)

var (
	ErrPasswordNotConfigured = errors.New("パスワードが設定されていません")
	ErrWrongPassword         = errors.New("パスワードが違います")
)

// Decision is the outcome of the gate for one page request.
type Decision int

const (
	Allow Decision = iota
	Redirect
)

// Gate guards pages with a single shared password.
type Gate struct {
	password string
	key      []byte
	secure   bool
	now      func() time.Time
}

// NewGate creates a gate for password. An empty password disables the gate.
// secure marks the session cookie Secure.
func NewGate(password string, secure bool) *Gate {
	g := &Gate{password: password, secure: secure, now: time.Now}
	if password != "" {
		sum := sha256.Sum256([]byte(keyLabel + password))
		g.key = sum[:]
	}
	return g
}

// Enabled reports whether a password is configured.
func (g *Gate) Enabled() bool {
	return g.password != ""
}

// Login checks the submitted password and returns a session token.
func (g *Gate) Login(password string) (string, error) {
	if !g.Enabled() {
		return "", apperr.Configuration("", ErrPasswordNotConfigured)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return "", apperr.Auth("", ErrWrongPassword)
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	})
	return token.SignedString(g.key)
}

// Authenticated reports whether token is a live session for the current
// password. Tokens signed for a previous password fail verification.
func (g *Gate) Authenticated(token string) bool {
	if !g.Enabled() || token == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return g.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	return err == nil && parsed.Valid && claims.Subject == subject
}

// Allowed reports whether a request carrying cookie may proceed, ignoring
// path-based bypasses.
func (g *Gate) Allowed(cookie string) bool {
	return !g.Enabled() || g.Authenticated(cookie)
}

// Check decides a page request. On Redirect the second value is the login
// URL carrying the original path.
func (g *Gate) Check(path, cookie string) (Decision, string) {
	if Bypassed(path) || g.Allowed(cookie) {
		return Allow, ""
	}
	return Redirect, LoginPath + "?" + url.Values{"redirect": {path}}.Encode()
}

// Bypassed reports whether path skips the page gate. API routes apply their
// own check.
func Bypassed(path string) bool {
	return path == LoginPath || strings.HasPrefix(path, "/api/")
}

// SessionCookie builds the cookie carrying a session token.
func (g *Gate) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session.
func (g *Gate) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SafeRedirect returns target when it is a local absolute path and "/"
// otherwise.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
