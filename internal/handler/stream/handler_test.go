package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/responder"
	chatservice "github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	"github.com/zhouzirui/saturn-companion/backend/internal/store"
)

func setup(t *testing.T) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(store.NewMemoryStore(), responder.New(nil, responder.NewSeededPicker(3)), nil, nil, chatservice.Config{})
	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func readEvents(t *testing.T, body string) []StreamResponse {
	t.Helper()
	var events []StreamResponse
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event StreamResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func TestStreamEmitsStartMessageEnd(t *testing.T) {
	r, chatSvc := setup(t)
	session, err := chatSvc.CreateSession(context.Background(), "sam")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	query := url.Values{"message": {"thank you so much"}, "emotion": {"happy"}}
	req := httptest.NewRequest(http.MethodGet, "/stream/"+session.ID+"?"+query.Encode(), nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	events := readEvents(t, resp.Body.String())
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Event != "start" || events[1].Event != "message" || events[2].Event != "end" {
		t.Fatalf("unexpected event order: %+v", events)
	}
	if events[1].Reply == nil || events[1].Reply.Category != "thanks" {
		t.Fatalf("unexpected reply: %+v", events[1].Reply)
	}
	if !events[2].Finished {
		t.Fatal("expected end event to be finished")
	}
}

func TestStreamRequiresMessage(t *testing.T) {
	r, chatSvc := setup(t)
	session, err := chatSvc.CreateSession(context.Background(), "sam")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/"+session.ID, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStreamUnknownSession(t *testing.T) {
	r, _ := setup(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/missing?message=hello", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
