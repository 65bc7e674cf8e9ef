package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	assistantHandler "github.com/zhouzirui/jashn-planner/backend/internal/handler/assistant"
	"github.com/zhouzirui/jashn-planner/backend/internal/handler/chat"
	"github.com/zhouzirui/jashn-planner/backend/internal/handler/planning"
	middlewarePkg "github.com/zhouzirui/jashn-planner/backend/internal/middleware"
	assistantService "github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/jashn-planner/backend/internal/service/chat"
	planningService "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
	"github.com/zhouzirui/jashn-planner/backend/pkg/utils"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Planning  *planningService.Service
	Chat      *chatService.Service
	Assistant chat.Assistant
	Provider  string
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	planningHandler := planning.New(deps.Planning)
	chatHandler := chat.New(deps.Chat, deps.Assistant, deps.Planning, logger)
	profileHandler := assistantHandler.New(assistantService.PlanPal, deps.Provider)

	r.Route("/api", func(api chi.Router) {
		planningHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		profileHandler.RegisterRoutes(api)
	})

	return r
}
