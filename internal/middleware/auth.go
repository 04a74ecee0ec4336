package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"console/internal/access"
	"console/internal/model"
	"console/internal/session"
	"console/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser clients
const SessionCookie = "access_token"

const userKey = "sessionUser"

// Session rejections; the messages are sent to the client as is
var (
	ErrInvalidToken    = errors.New("Invalid token")
	ErrAccountRemoved  = errors.New("Account no longer exists")
	ErrAccountInactive = errors.New("Account is not active")
)

// AuthStatus is the HTTP status a rejection from Authenticate answers with
func AuthStatus(err error) int {
	if errors.Is(err, ErrAccountInactive) {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// UserLookup resolves the stored account behind a session
type UserLookup func(ctx context.Context, id string) (*model.User, bool)

// Auth validates session tokens and manages the session cookie
type Auth struct {
	sessions *session.Manager
	secure   bool
	lookup   UserLookup
}

func NewAuth(sessions *session.Manager, cookieSecure bool) *Auth {
	return &Auth{sessions: sessions, secure: cookieSecure}
}

// WithUserLookup makes every request see the stored roles and activation
// state instead of the ones frozen into the token
func (a *Auth) WithUserLookup(lookup UserLookup) *Auth {
	a.lookup = lookup
	return a
}

// SessionTTL is the lifetime of issued sessions, used as the cookie max age
func (a *Auth) SessionTTL() time.Duration {
	return a.sessions.TTL()
}

// SetSessionCookie stores the token as an HttpOnly cookie
func (a *Auth) SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	if a.secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", a.secure, true)
}

// ClearSessionCookie expires the session cookie
func (a *Auth) ClearSessionCookie(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	if a.secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(SessionCookie, "", -1, "/", "", a.secure, true)
}

// tokenFrom reads the cookie first, then a Bearer header
func tokenFrom(c *gin.Context) (string, string) {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// Authenticate resolves a token to its session user. With a user lookup
// the stored account replaces the token claims, and a removed or
// deactivated account is rejected.
func (a *Auth) Authenticate(ctx context.Context, token string) (*model.User, error) {
	user, err := a.sessions.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if a.lookup == nil {
		return user, nil
	}
	stored, found := a.lookup(ctx, user.ID)
	if !found {
		return nil, ErrAccountRemoved
	}
	if !stored.CanLogin() {
		return nil, ErrAccountInactive
	}
	refreshed := stored.Sanitized()
	return &refreshed, nil
}

// RequireSession rejects requests without a valid session and stores the
// session user for the handlers
func (a *Auth) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := tokenFrom(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := AuthStatus(err)
			c.AbortWithStatusJSON(status, response.Error(status, err.Error()))
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireSection allows the request only when the session user may open the section
func RequireSection(section access.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.HasAccess(CurrentUser(c), section) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireCapability gates a route on one of the access predicates
func RequireCapability(name string, allowed func(*model.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(CurrentUser(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+name+"'"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session user set by RequireSession, or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
