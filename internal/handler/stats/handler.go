package stats

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/langman/backend/internal/service/stats"
	"github.com/zhouzirui/langman/backend/pkg/utils"
)

// Handler 玩家统计的HTTP处理器
type Handler struct {
	stats *stats.Service
}

// New 创建统计处理器
func New(svc *stats.Service) *Handler {
	return &Handler{stats: svc}
}

// RegisterRoutes 注册统计相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/players/{name}/stats", h.handleGetStats)
}

func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	player, err := h.stats.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, stats.ErrPlayerNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, player)
}
