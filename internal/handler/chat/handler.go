package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	"github.com/zhouzirui/saturn-companion/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/chat", h.handleChat)
	r.Get("/conversation_history/{sessionID}", h.handleHistory)
	r.Get("/user_insights/{sessionID}", h.handleInsights)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}

	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.Username)
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleChat 处理一条用户消息并返回回复
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
		Emotion   string `json:"emotion"`
	}

	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatSvc.Chat(r.Context(), payload.SessionID, payload.Message, payload.Emotion)
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// handleHistory 返回最近的对话记录，最新的在前
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.chatSvc.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"history": history})
}

// handleInsights 返回用户的情绪统计
func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.chatSvc.Insights(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, insights)
}

// StatusFor 把服务层错误映射为HTTP状态码。
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrEmptyMessage), errors.Is(err, chatService.ErrUserRequired):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError 写出服务层错误，内部错误不向客户端暴露细节。
func RespondServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[chat] request failed: %v", err)
		utils.RespondError(w, status, "internal error")
		return
	}
	utils.RespondError(w, status, err.Error())
}
