package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zhouzirui/langman/backend/internal/auth"
	"github.com/zhouzirui/langman/backend/internal/handler/game"
	"github.com/zhouzirui/langman/backend/internal/handler/phrase"
	"github.com/zhouzirui/langman/backend/internal/handler/stats"
	"github.com/zhouzirui/langman/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/langman/backend/internal/middleware"
	phraseModel "github.com/zhouzirui/langman/backend/internal/model/phrase"
	gameService "github.com/zhouzirui/langman/backend/internal/service/game"
	hintService "github.com/zhouzirui/langman/backend/internal/service/hint"
	statsService "github.com/zhouzirui/langman/backend/internal/service/stats"
)

// Dependencies 汇总路由需要的服务。Hints、Limiter 和 Gatherer 可以为空。
type Dependencies struct {
	Phrases        phraseModel.Store
	Games          *gameService.Service
	Stats          *statsService.Service
	Hints          *hintService.Service
	Issuer         *auth.Issuer
	Limiter        *middlewarePkg.RateLimiter
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(api chi.Router) {
		phrase.New(deps.Phrases).RegisterRoutes(api)
		game.New(deps.Games, deps.Hints, deps.Issuer, deps.Limiter).RegisterRoutes(api)
		stats.New(deps.Stats).RegisterRoutes(api)
	})

	return r
}
