package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/zhouzirui/saturn-companion/backend/internal/handler/chat"
	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
	chatService "github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	"github.com/zhouzirui/saturn-companion/backend/pkg/utils"
)

// Handler delivers companion replies via Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string      `json:"event"`
	Content   string      `json:"content,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Reply     *chat.Reply `json:"reply,omitempty"`
	Finished  bool        `json:"finished,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// RegisterRoutes 注册 SSE 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := strings.TrimSpace(r.URL.Query().Get("message"))
	emotion := r.URL.Query().Get("emotion")

	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, sessionID, userMessage, emotion); err != nil {
		log.Printf("[stream] error handling request: %v", err)
	}
}

// HandleStreamRequest answers one message for a session as start / message / end events.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage, emotion string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if err := h.sendSSE(w, flusher, StreamResponse{Event: "start", SessionID: sessionID}); err != nil {
		return err
	}

	reply, err := h.chatSvc.Chat(ctx, sessionID, userMessage, emotion)
	if err != nil {
		h.sendSSEError(w, flusher, sessionID, err)
		return err
	}

	if err := h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   reply.Response,
		Reply:     &reply,
	}); err != nil {
		return err
	}

	return h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, payload StreamResponse) error {
	return utils.SendSSEEvent(w, flusher, payload.Event, payload)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, sessionID string, cause error) {
	message := "reply failed"
	if chatHandler.StatusFor(cause) != http.StatusInternalServerError {
		message = cause.Error()
	}
	if err := h.sendSSE(w, flusher, StreamResponse{
		Event:     "error",
		SessionID: sessionID,
		Error:     message,
		Finished:  true,
	}); err != nil {
		log.Printf("[stream] failed to send error event: %v", err)
	}
}
