package phrase

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
	"github.com/zhouzirui/langman/backend/pkg/utils"
)

// Language 描述一个可选的游戏语言。
type Language struct {
	Code    string `json:"code"`
	Phrases int    `json:"phrases"`
}

// Handler 词库相关的HTTP处理器
type Handler struct {
	phrases phrase.Store
}

// New 创建词库处理器
func New(phrases phrase.Store) *Handler {
	return &Handler{phrases: phrases}
}

// RegisterRoutes 注册词库相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/languages", h.handleListLanguages)
}

func (h *Handler) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	codes := h.phrases.Languages()
	languages := make([]Language, 0, len(codes))
	for _, code := range codes {
		languages = append(languages, Language{Code: code, Phrases: h.phrases.Count(code)})
	}
	utils.RespondJSON(w, http.StatusOK, languages)
}
