package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/responder"
	chatservice "github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	"github.com/zhouzirui/saturn-companion/backend/internal/store"
)

type received struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func startServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(store.NewMemoryStore(), responder.New(nil, responder.NewSeededPicker(5)), nil, nil, chatservice.Config{})
	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var hello received
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read connected: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("expected connected, got %s", hello.Type)
	}
	return conn
}

func TestWebSocketTextReply(t *testing.T) {
	srv, chatSvc := startServer(t)
	session, err := chatSvc.CreateSession(context.Background(), "sam")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	conn := dial(t, srv, session.ID)

	if err := conn.WriteJSON(map[string]any{
		"type": "text",
		"data": map[string]string{"text": "I have been so anxious lately", "emotion": "neutral"},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply received
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != "reply" {
		t.Fatalf("expected reply, got %s", reply.Type)
	}
	if reply.Data["category"] != "emotion_anxious" {
		t.Fatalf("unexpected category %v", reply.Data["category"])
	}
}

func TestWebSocketEmptyTextReturnsError(t *testing.T) {
	srv, chatSvc := startServer(t)
	session, err := chatSvc.CreateSession(context.Background(), "sam")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	conn := dial(t, srv, session.ID)

	if err := conn.WriteJSON(map[string]any{"type": "text", "data": map[string]string{"text": " "}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg received
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("expected error, got %s", msg.Type)
	}
}

func TestWebSocketUnknownSessionRejected(t *testing.T) {
	srv, _ := startServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}
