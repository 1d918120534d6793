// Package auth resolves the identity behind a request.
//
// A Resolver combines the configured Credentials with a TokenCodec. Browsers
// carry a signed token in the session cookie; API clients may send HTTP Basic
// credentials instead. Either way the caller ends up with a *Session or
// ErrUnauthorized.
package auth

import (
	"errors"
	"net/http"

	"github.com/eleven-am/bulldoggy/internal/logger"
)

// DefaultCookieName is the session cookie set after login.
const DefaultCookieName = "reminders_session"

// ErrUnauthorized is returned when a request carries no valid identity.
var ErrUnauthorized = errors.New("unauthorized")

// Options configures a Resolver. It is copied on construction.
type Options struct {
	Users         map[string]string
	SecretKey     string
	CookieName    string
	SecureCookies bool
}

// Session is an authenticated identity and the token that proves it.
type Session struct {
	CookieName string
	Token      string
	Username   string
}

// Resolver authenticates requests.
type Resolver struct {
	credentials   *Credentials
	codec         *TokenCodec
	cookieName    string
	secureCookies bool
}

func NewResolver(opts Options) *Resolver {
	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Resolver{
		credentials:   NewCredentials(opts.Users),
		codec:         NewTokenCodec([]byte(opts.SecretKey)),
		cookieName:    name,
		secureCookies: opts.SecureCookies,
	}
}

// CookieName returns the name of the session cookie.
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// Login checks a username and password and mints a fresh session.
func (r *Resolver) Login(username, password string) (*Session, error) {
	if !r.credentials.Authenticate(username, password) {
		authLog().Info("login rejected", "username", username)
		return nil, ErrUnauthorized
	}

	token, err := r.codec.Encode(username)
	if err != nil {
		return nil, err
	}

	return &Session{CookieName: r.cookieName, Token: token, Username: username}, nil
}

// FromToken validates a session token. The user must still be configured.
func (r *Resolver) FromToken(token string) (*Session, bool) {
	username, ok := r.codec.Decode(token)
	if !ok || !r.credentials.Has(username) {
		return nil, false
	}
	return &Session{CookieName: r.cookieName, Token: token, Username: username}, true
}

// FromCookie authenticates a request by its session cookie only. Pages use
// this; they never accept Basic credentials.
func (r *Resolver) FromCookie(req *http.Request) (*Session, bool) {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return r.FromToken(cookie.Value)
}

// Resolve authenticates a request from its session cookie, falling back to
// HTTP Basic credentials.
func (r *Resolver) Resolve(req *http.Request) (*Session, error) {
	if session, ok := r.FromCookie(req); ok {
		return session, nil
	}

	if username, password, ok := req.BasicAuth(); ok {
		return r.Login(username, password)
	}

	return nil, ErrUnauthorized
}

// Cookie builds the session cookie for s.
func (r *Resolver) Cookie(s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that makes the browser drop the session.
func (r *Resolver) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func authLog() logger.Logger {
	return logger.Auth()
}
