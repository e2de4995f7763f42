package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/saturn-companion/backend/internal/handler/chat"
	"github.com/zhouzirui/saturn-companion/backend/internal/handler/resource"
	"github.com/zhouzirui/saturn-companion/backend/internal/handler/stream"
	"github.com/zhouzirui/saturn-companion/backend/internal/handler/ws"
	"github.com/zhouzirui/saturn-companion/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/saturn-companion/backend/internal/middleware"
	resourceModel "github.com/zhouzirui/saturn-companion/backend/internal/model/resource"
	chatService "github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	"github.com/zhouzirui/saturn-companion/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(resources resourceModel.Store, chatSvc *chatService.Service, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if rec != nil {
		r.Method(http.MethodGet, "/metrics", rec.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		chat.New(chatSvc).RegisterRoutes(api)
		stream.New(chatSvc).RegisterRoutes(api)
		ws.New(chatSvc).RegisterRoutes(api)
		resource.New(resources).RegisterRoutes(api)
	})

	return r
}
