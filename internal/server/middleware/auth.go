// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the resolved caller identity.
const identityKey ContextKey = "identity"

// Trusted identity headers, set by an upstream edge that has already verified
// the caller.
const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "token"

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   types.Role
}

// TokenValidator is an interface for validating signed tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (IdentityClaims, error)
}

// IdentityClaims exposes the identity carried by validated token claims.
type IdentityClaims interface {
	GetUserID() uuid.UUID
	GetRole() types.Role
}

// Options configure identity resolution.
type Options struct {
	CookieName           string
	CookieSecure         bool
	TrustIdentityHeaders bool
}

// Gate resolves caller identities and enforces role requirements.
type Gate struct {
	validator TokenValidator
	opts      Options
}

// NewGate creates a gate that verifies tokens with validator.
func NewGate(validator TokenValidator, opts Options) *Gate {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Gate{validator: validator, opts: opts}
}

// CookieName returns the name of the session cookie.
func (g *Gate) CookieName() string {
	return g.opts.CookieName
}

// SetSessionCookie stores token in the session cookie for maxAge.
func (g *Gate) SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	SetCookie(w, g.opts.CookieName, token, int(maxAge.Seconds()), g.opts.CookieSecure)
}

// ClearSessionCookie expires the session cookie.
func (g *Gate) ClearSessionCookie(w http.ResponseWriter) {
	ClearCookie(w, g.opts.CookieName, g.opts.CookieSecure)
}

// Resolve determines the caller identity. Sources are tried in order: the
// trusted header pair (when enabled), the session cookie, then a bearer token.
// A session cookie that fails verification ends resolution unauthenticated
// and is cleared on w.
func (g *Gate) Resolve(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	if g.opts.TrustIdentityHeaders {
		if id, ok := identityFromHeaders(r.Header); ok {
			return id, true
		}
	}

	if cookie, err := r.Cookie(g.opts.CookieName); err == nil && cookie.Value != "" {
		id, err := g.validate(cookie.Value)
		if err != nil {
			ClearCookie(w, g.opts.CookieName, g.opts.CookieSecure)
			return Identity{}, false
		}
		return id, true
	}

	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		if id, err := g.validate(token); err == nil {
			return id, true
		}
	}

	return Identity{}, false
}

func (g *Gate) validate(token string) (Identity, error) {
	if g.validator == nil {
		return Identity{}, fmt.Errorf("no token validator configured")
	}
	claims, err := g.validator.ValidateToken(token)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{UserID: claims.GetUserID(), Role: claims.GetRole()}
	if id.UserID == uuid.Nil || !id.Role.Valid() {
		return Identity{}, fmt.Errorf("token carries no usable identity")
	}
	return id, nil
}

// OptionalAuth attaches the caller identity to the request context when one
// resolves, and never blocks.
func (g *Gate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := g.Resolve(w, r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without an identity, or whose role is not
// among roles when any are given. Both failures answer 401.
func (g *Gate) RequireAuth(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.Resolve(w, r)
			if !ok || !roleAllowed(id.Role, roles) {
				Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Require is RequireAuth for a single handler function.
func (g *Gate) Require(h http.HandlerFunc, roles ...types.Role) http.Handler {
	return g.RequireAuth(roles...)(h)
}

// Optional is OptionalAuth for a single handler function.
func (g *Gate) Optional(h http.HandlerFunc) http.Handler {
	return g.OptionalAuth(h)
}

func roleAllowed(role types.Role, roles []types.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		if role == want {
			return true
		}
	}
	return false
}

func identityFromHeaders(h http.Header) (Identity, bool) {
	rawID := strings.TrimSpace(h.Get(HeaderUserID))
	rawRole := strings.TrimSpace(h.Get(HeaderUserRole))
	if rawID == "" || rawRole == "" {
		return Identity{}, false
	}
	userID, err := uuid.Parse(rawID)
	if err != nil || userID == uuid.Nil {
		return Identity{}, false
	}
	role := types.Role(strings.ToUpper(rawRole))
	if !role.Valid() {
		return Identity{}, false
	}
	return Identity{UserID: userID, Role: role}, true
}

// bearerToken parses "Bearer <token>", case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Unauthorized writes the 401 response shared by every gated route.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// SetCookie stores a session token cookie.
func SetCookie(w http.ResponseWriter, name, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session token cookie.
func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	SetCookie(w, name, "", -1, secure)
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the caller identity from the request context.
func GetIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := GetIdentity(r)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return id.UserID, nil
}
