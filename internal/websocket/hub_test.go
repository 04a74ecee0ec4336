package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"console/internal/middleware"
	"console/internal/model"
	"console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// accounts is the stored user registry seen by the hub
var accounts = map[string]model.User{
	"u1":      {ID: "u1", Login: "u1", Roles: model.RoleSet{}, IsActive: true},
	"blocked": {ID: "blocked", Login: "blocked", Roles: model.RoleSet{}, IsActive: false},
}

func lookupAccount(_ context.Context, id string) (*model.User, bool) {
	u, ok := accounts[id]
	if !ok {
		return nil, false
	}
	return &u, true
}

func startServer(t *testing.T) (*Hub, *session.Manager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Close)

	sessions := session.NewManager("ws-secret", time.Hour)
	auth := middleware.NewAuth(sessions, false).WithUserLookup(lookupAccount)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, auth) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, sessions, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServeWsRejectsBadTokens(t *testing.T) {
	_, _, url := startServer(t)

	for _, suffix := range []string{"", "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(url+suffix, nil)
		if err == nil {
			t.Fatalf("expected dial %q to fail", suffix)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for %q, got %+v", suffix, resp)
		}
	}
}

func TestServeWsRejectsRemovedAndInactiveAccounts(t *testing.T) {
	hub, sessions, url := startServer(t)

	cases := []struct {
		id     string
		status int
	}{
		{"blocked", http.StatusForbidden},
		{"ghost", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		token, _, err := sessions.Issue(model.User{ID: tc.id, Login: tc.id})
		if err != nil {
			t.Fatal(err)
		}
		_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
		if err == nil {
			t.Fatalf("expected dial as %q to fail", tc.id)
		}
		if resp == nil || resp.StatusCode != tc.status {
			t.Errorf("expected %d for %q, got %+v", tc.status, tc.id, resp)
		}
	}
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected no registered clients, got %d", n)
	}
}

func TestPublishReachesClients(t *testing.T) {
	hub, sessions, url := startServer(t)

	token, _, err := sessions.Issue(model.User{ID: "u1", Login: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish("collection.updated", map[string]interface{}{"collection": model.KeyReminders})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("bad frame %q: %v", raw, err)
	}
	if msg.Event != "collection.updated" || msg.Data["collection"] != model.KeyReminders {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	// Run is not started, so the queue fills up
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("tick", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
