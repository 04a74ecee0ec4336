package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"console/internal/access"
	"console/internal/model"
	"console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager("middleware-secret", time.Hour)
	auth := NewAuth(sessions, false)

	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	api := r.Group("/api", auth.RequireSession())
	api.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).ID)
	})
	api.GET("/concerts", RequireSection(access.SectionConcerts), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.GET("/tickets", RequireCapability("tickets.execute", access.CanExecuteTickets), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r, sessions
}

func issue(t *testing.T, sessions *session.Manager, roles ...model.UserRole) string {
	t.Helper()
	token, _, err := sessions.Issue(model.User{ID: "u1", Login: "u1", Roles: model.RoleSet(roles)})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func TestRequireSession(t *testing.T) {
	r, sessions := newTestRouter(t)
	token := issue(t, sessions, model.RoleConcerts)

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"missing", func(req *http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(req *http.Request) { req.Header.Set("Authorization", "Token "+token) }, http.StatusUnauthorized},
		{"garbage token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("expected session user u1, got %q", w.Body.String())
			}
		})
	}
}

func TestRequireSectionAndCapability(t *testing.T) {
	r, sessions := newTestRouter(t)

	cases := []struct {
		path   string
		roles  []model.UserRole
		status int
	}{
		{"/api/concerts", []model.UserRole{model.RoleConcerts}, http.StatusNoContent},
		{"/api/concerts", []model.UserRole{model.RoleParking}, http.StatusForbidden},
		{"/api/concerts", []model.UserRole{model.RoleAdmin}, http.StatusNoContent},
		{"/api/tickets", []model.UserRole{model.RoleITTickets}, http.StatusForbidden},
		{"/api/tickets", []model.UserRole{model.RoleITAdmin}, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, sessions, tc.roles...))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%s with %v: expected %d, got %d", tc.path, tc.roles, tc.status, w.Code)
		}
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuth(session.NewManager("s", time.Hour), true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	auth.SetSessionCookie(c, "tok", time.Hour)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "tok" || !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("unexpected cookie: %+v", cookies)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	auth.ClearSessionCookie(c)
	cookies = w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestUserLookupAppliesStoredState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager("lookup-secret", time.Hour)
	stored := map[string]model.User{
		"active":   {ID: "active", Login: "a", Roles: model.RoleSet{model.RoleAdmin}, IsActive: true},
		"disabled": {ID: "disabled", Login: "d", IsActive: false},
	}
	auth := NewAuth(sessions, false).WithUserLookup(func(_ context.Context, id string) (*model.User, bool) {
		u, ok := stored[id]
		return &u, ok
	})

	r := gin.New()
	r.GET("/me", auth.RequireSession(), func(c *gin.Context) {
		if !access.IsAdmin(CurrentUser(c)) {
			c.Status(http.StatusForbidden)
			return
		}
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"active":   http.StatusNoContent, // admin role comes from the store, not the token
		"disabled": http.StatusForbidden,
		"deleted":  http.StatusUnauthorized,
	}
	for id, want := range cases {
		token, _, err := sessions.Issue(model.User{ID: id, Login: id})
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: expected %d, got %d", id, want, w.Code)
		}
	}
}
