package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/resource"
	"github.com/zhouzirui/saturn-companion/backend/pkg/utils"
)

// Handler 健康资源的HTTP处理器
type Handler struct {
	resources resource.Store
}

// New 创建资源处理器
func New(resources resource.Store) *Handler {
	return &Handler{resources: resources}
}

// RegisterRoutes 注册资源相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.handleList)
	r.Get("/resources/breathing/{id}", h.handleBreathing)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"breathing": h.resources.Guides(),
		"contacts":  h.resources.Contacts(),
	})
}

func (h *Handler) handleBreathing(w http.ResponseWriter, r *http.Request) {
	guide, ok := h.resources.FindGuide(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "breathing guide not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, guide)
}
