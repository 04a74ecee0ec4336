package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"console/internal/handler"
	"console/internal/middleware"
	"console/internal/model"
	"console/internal/service"
	"console/internal/session"
	"console/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

type server struct {
	router *gin.Engine
	h      *testutil.Harness
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := testutil.NewHarness(t)
	clock := testutil.NewClock(testutil.ReferenceTime())
	deps := service.Deps{Repos: h.Repos, Log: zerolog.Nop(), Notifier: h.Notifier, Now: clock.Now}

	sessions := session.NewManager("handler-secret", time.Hour)
	auth := middleware.NewAuth(sessions, false).WithUserLookup(h.Repos.Users.GetByID)

	events := service.NewEventService(deps)
	reminders := service.NewReminderService(deps)
	routes := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewSystemHandler(h.Repos.Settings),
		handler.NewUserHandler(service.NewUserService(deps, sessions), auth),
		handler.NewRoleHandler(auth),
		handler.NewDashboardHandler(service.NewDashboardService(deps, events, reminders), auth),
		handler.NewEventHandler(events, auth),
		handler.NewDirectoryHandler(service.NewDirectoryService(deps), auth),
		handler.NewHelpdeskHandler(service.NewHelpdeskService(deps), auth),
		handler.NewInventoryHandler(service.NewInventoryService(deps), auth),
		handler.NewParkingHandler(service.NewParkingService(deps, events), auth),
		handler.NewContentHandler(service.NewArticleService(deps), reminders, service.NewGuideService(deps), auth),
		handler.NewAuditHandler(service.NewAuditService(deps), auth),
		handler.NewNotificationHandler(service.NewNotificationService(deps, reminders), auth),
	}

	r := gin.New()
	r.Use(middleware.Recovery(zerolog.Nop()))
	for _, route := range routes {
		route.RegisterRoutes(r.Group(""))
	}
	return &server{router: r, h: h}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("bad data %s: %v", env.Data, err)
		}
	}
	return env
}

func (s *server) login(t *testing.T, login, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", service.LoginRequest{Login: login, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %q: expected 200, got %d (%s)", login, w.Code, w.Body.String())
	}
	var res service.SessionResponse
	decode(t, w, &res)
	return res.Token
}

func (s *server) adminToken(t *testing.T) string {
	return s.login(t, model.AdminLogin, testutil.BootstrapPassword)
}

// staffToken registers an account, lets the admin activate it with roles and logs in
func (s *server) staffToken(t *testing.T, fio string, roles ...model.UserRole) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", service.RegisterRequest{
		FullName: fio, Password: "secret1", Department: "Техслужба", Birthday: "1991-02-03",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var user model.User
	decode(t, w, &user)

	active := true
	w = s.do(t, http.MethodPut, "/api/users/"+user.ID, s.adminToken(t), service.UpdateUserRequest{IsActive: &active, Roles: &roles})
	if w.Code != http.StatusOK {
		t.Fatalf("activate: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	return s.login(t, fio, "secret1"), user.ID
}

func TestLoginSetsCookieAndMe(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", service.LoginRequest{Login: "admin", Password: testutil.BootstrapPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly || cookie.MaxAge <= 0 {
		t.Fatalf("expected a session cookie, got %+v", w.Result().Cookies())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var me service.SessionResponse
	decode(t, w, &me)
	if me.User.Login != model.AdminLogin || me.User.Password != "" {
		t.Errorf("unexpected user: %+v", me.User)
	}
	if len(me.Navigation) != 6 || !me.Capabilities.IsAdmin {
		t.Errorf("admin should see every section, got %v %+v", me.Navigation, me.Capabilities)
	}
}

func TestAuthErrorsMapToStatusCodes(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"bad password", "/api/auth/login", service.LoginRequest{Login: "admin", Password: "wrong"}, http.StatusUnauthorized},
		{"missing fields", "/api/auth/register", map[string]string{"fio": "Кто-то"}, http.StatusBadRequest},
		{"bad birthday", "/api/auth/register", service.RegisterRequest{FullName: "Орлов Олег", Password: "p", Department: "IT", Birthday: "03.02.1991"}, http.StatusBadRequest},
		{"register", "/api/auth/register", service.RegisterRequest{FullName: "Орлов Олег", Password: "p", Department: "IT", Birthday: "1991-02-03"}, http.StatusCreated},
		{"duplicate", "/api/auth/register", service.RegisterRequest{FullName: "орлов олег", Password: "p", Department: "IT", Birthday: "1991-02-03"}, http.StatusConflict},
		{"inactive login", "/api/auth/login", service.LoginRequest{Login: "Орлов Олег", Password: "p"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		w := s.do(t, http.MethodPost, tc.path, "", tc.body)
		if w.Code != tc.status {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.status, w.Code, w.Body.String())
		}
		if env := decode(t, w, nil); tc.status >= 400 && (env.Status != "error" || env.Error == "") {
			t.Errorf("%s: expected an error envelope, got %+v", tc.name, env)
		}
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/api/me", "/api/events", "/api/tickets", "/api/vehicles", "/api/dashboard", "/api/audit-logs"} {
		if w := s.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestSectionGatesFollowStoredRoles(t *testing.T) {
	s := newServer(t)
	token, id := s.staffToken(t, "Кузнецов Пётр Ильич", model.RoleConcerts)

	if w := s.do(t, http.MethodGet, "/api/events", token, nil); w.Code != http.StatusOK {
		t.Fatalf("concerts user should list events, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/vehicles", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("concerts user should not reach parking, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/events", token, model.ConcertEvent{Title: "x", Date: "2024-05-20"}); w.Code != http.StatusForbidden {
		t.Errorf("only admins may write events, got %d", w.Code)
	}

	// the same token loses access once the admin swaps the role
	roles := []model.UserRole{model.RoleParking}
	if w := s.do(t, http.MethodPut, "/api/users/"+id, s.adminToken(t), service.UpdateUserRequest{Roles: &roles}); w.Code != http.StatusOK {
		t.Fatalf("role change failed: %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/events", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 after role removal, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/watchman?day=1", token, nil); w.Code != http.StatusOK {
		t.Errorf("parking user should reach the watchman post, got %d", w.Code)
	}

	inactive := false
	s.do(t, http.MethodPut, "/api/users/"+id, s.adminToken(t), service.UpdateUserRequest{IsActive: &inactive})
	if w := s.do(t, http.MethodGet, "/api/me", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("deactivated account should be rejected, got %d", w.Code)
	}
}

func TestEventLifecycleAndPublicPage(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/events", admin, model.ConcertEvent{
		Title:     "Весенний концерт",
		Date:      "2024-05-20",
		StartTime: "19:00",
		Venue:     "Большой зал",
		IsPaid:    true,
		Staff:     model.StaffAssignment{"Звукорежиссер": "Петров Иван Сергеевич"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var created model.ConcertEvent
	decode(t, w, &created)
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}

	w = s.do(t, http.MethodPut, "/api/events/"+created.ID, admin, model.ConcertEvent{
		Title: "Весенний концерт", Date: "2024-05-20", StartTime: "19:00", IsCancelled: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var listed []model.ConcertEvent
	decode(t, s.do(t, http.MethodGet, "/api/events", admin, nil), &listed)
	if len(listed) != 1 || !listed[0].IsCancelled || listed[0].RentedEquipment == nil {
		t.Fatalf("unexpected list: %+v", listed)
	}

	w = s.do(t, http.MethodGet, "/api/public/events/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public page: expected 200, got %d", w.Code)
	}

	if w := s.do(t, http.MethodDelete, "/api/events/"+created.ID, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/public/events/"+created.ID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted event: expected 404, got %d", w.Code)
	}
}

func TestEventStatsAndReportQueries(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken(t)

	cases := map[string]int{
		"/api/events/stats?year=2024&month=5":          http.StatusOK,
		"/api/events/stats?year=2024&month=13":         http.StatusBadRequest,
		"/api/events/stats?year=abc":                   http.StatusBadRequest,
		"/api/events/report?kind=week&date=2024-05-15": http.StatusOK,
		"/api/events/report?date=15.05.2024":           http.StatusBadRequest,
	}
	for path, want := range cases {
		if w := s.do(t, http.MethodGet, path, admin, nil); w.Code != want {
			t.Errorf("%s: expected %d, got %d", path, want, w.Code)
		}
	}

	var report service.EventReport
	decode(t, s.do(t, http.MethodGet, "/api/events/report?kind=week&date=2024-05-15", admin, nil), &report)
	if report.From != "2024-05-13" || report.To != "2024-05-19" {
		t.Errorf("unexpected week range %s..%s", report.From, report.To)
	}
}

func TestTicketRoutes(t *testing.T) {
	s := newServer(t)
	reporter, _ := s.staffToken(t, "Сидорова Мария", model.RoleITTickets)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/tickets", reporter, service.CreateTicketRequest{
		Type: model.TicketEquipment, EquipmentAction: "refill", EquipmentModel: "HP 400",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var ticket model.HelpdeskTicket
	decode(t, w, &ticket)

	if w := s.do(t, http.MethodPut, "/api/tickets/"+ticket.ID+"/status", reporter, map[string]string{"status": "done"}); w.Code != http.StatusForbidden {
		t.Errorf("reporter cannot change status, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPut, "/api/tickets/"+ticket.ID+"/status", admin, map[string]string{"status": "closed"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: expected 400, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPut, "/api/tickets/missing/status", admin, map[string]string{"status": "done"}); w.Code != http.StatusNotFound {
		t.Errorf("missing ticket: expected 404, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPut, "/api/tickets/"+ticket.ID+"/status", admin, map[string]string{"status": "in-progress"}); w.Code != http.StatusOK {
		t.Errorf("status change: expected 200, got %d", w.Code)
	}

	var stats service.TicketStats
	decode(t, s.do(t, http.MethodGet, "/api/tickets/stats", reporter, nil), &stats)
	if stats.Total != 1 || stats.Open != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestPublicContentNeedsNoSession(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken(t)

	s.do(t, http.MethodPost, "/api/articles", admin, model.InfoArticle{Title: "Wi-Fi", Content: "SSID", IsPublic: true})
	s.do(t, http.MethodPost, "/api/articles", admin, model.InfoArticle{Title: "Внутреннее", Content: "..."})

	var public []model.InfoArticle
	w := s.do(t, http.MethodGet, "/api/public/articles", "", nil)
	decode(t, w, &public)
	if w.Code != http.StatusOK || len(public) != 1 || public[0].Title != "Wi-Fi" {
		t.Fatalf("unexpected public articles: %d %+v", w.Code, public)
	}

	var tmpl model.GuestGuide
	decode(t, s.do(t, http.MethodGet, "/api/guides/template", admin, nil), &tmpl)
	tmpl.IsActive = false
	var saved model.GuestGuide
	decode(t, s.do(t, http.MethodPost, "/api/guides", admin, tmpl), &saved)
	if w := s.do(t, http.MethodGet, "/api/public/guides/"+saved.ID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("inactive guide: expected 404, got %d", w.Code)
	}
}

func TestAuditLogsArePagedAndAdminOnly(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken(t)
	for _, venue := range []string{"Малый зал", "Фойе"} {
		if w := s.do(t, http.MethodPost, "/api/directory/venues", admin, handler.VenueRequest{Name: venue}); w.Code != http.StatusOK {
			t.Fatalf("add venue: %d (%s)", w.Code, w.Body.String())
		}
	}

	var page struct {
		Items []service.AuditLogResponse `json:"items"`
		Total int64                      `json:"total"`
		Limit int                        `json:"limit"`
		Pages int                        `json:"pages"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/audit-logs?limit=1&action="+model.ActionSaveDirectory, admin, nil), &page)
	if page.Total != 2 || len(page.Items) != 1 || page.Limit != 1 || page.Pages != 2 {
		t.Errorf("unexpected page: %+v", page)
	}

	staff, _ := s.staffToken(t, "Волков Ан", model.RoleConcerts)
	if w := s.do(t, http.MethodGet, "/api/audit-logs", staff, nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestStatusAndHealth(t *testing.T) {
	s := newServer(t)
	if w := s.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
	w := s.do(t, http.MethodGet, "/api/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}
}
