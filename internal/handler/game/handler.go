package game

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/langman/backend/internal/auth"
	"github.com/zhouzirui/langman/backend/internal/game"
	"github.com/zhouzirui/langman/backend/internal/middleware"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
	gameservice "github.com/zhouzirui/langman/backend/internal/service/game"
	"github.com/zhouzirui/langman/backend/internal/service/hint"
	"github.com/zhouzirui/langman/backend/pkg/utils"
)

const gameIDParam = "gameID"

// Handler 游戏相关的HTTP处理器
type Handler struct {
	games    *gameservice.Service
	hints    *hint.Service
	issuer   *auth.Issuer
	limiter  *middleware.RateLimiter
	upgrader websocket.Upgrader
}

// New 创建游戏处理器。hints 和 limiter 可以为 nil。
func New(games *gameservice.Service, hints *hint.Service, issuer *auth.Issuer, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		games:   games,
		hints:   hints,
		issuer:  issuer,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册游戏相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/games", h.handleCreateGame)

	r.Route("/games/{"+gameIDParam+"}", func(g chi.Router) {
		g.Use(h.issuer.RequireGame(gameIDParam))

		g.Get("/", h.handleGetGame)
		g.Delete("/", h.handleQuitGame)
		g.Post("/again", h.handlePlayAgain)
		g.Get("/hint", h.handleHint)
		g.Get("/ws", h.handleWebSocket)

		if h.limiter != nil {
			g.With(h.limiter.PerGame(gameIDParam)).Put("/", h.handleGuess)
		} else {
			g.Put("/", h.handleGuess)
		}
	})
}

type createGameRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type createGameResponse struct {
	gameservice.View
	AccessToken string `json:"accessToken"`
}

type guessRequest struct {
	Letter string `json:"letter"`
}

type playAgainRequest struct {
	Language string `json:"language"`
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.games.CreateGame(r.Context(), req.Name, req.Language)
	if err != nil {
		respondGameError(w, err)
		return
	}

	token, err := h.issuer.Issue(view.PlayerID, view.Player, view.GameID)
	if err != nil {
		log.Error().Err(err).Str("component", "game").Msg("issue access token failed")
		h.games.QuitGame(r.Context(), view.GameID)
		utils.RespondError(w, http.StatusInternalServerError, "failed to issue access token")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, createGameResponse{View: view, AccessToken: token})
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.GetGame(r.Context(), chi.URLParam(r, gameIDParam))
	if err != nil {
		respondGameError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.games.Guess(r.Context(), chi.URLParam(r, gameIDParam), req.Letter)
	if err != nil {
		respondGameError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, res)
}

func (h *Handler) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	var req playAgainRequest
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.games.PlayAgain(r.Context(), chi.URLParam(r, gameIDParam), req.Language)
	if err != nil {
		respondGameError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleQuitGame(w http.ResponseWriter, r *http.Request) {
	if h.games.QuitGame(r.Context(), chi.URLParam(r, gameIDParam)) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "One record deleted"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Zero records deleted"})
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.suggest(r, chi.URLParam(r, gameIDParam))
	if err != nil {
		respondGameError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, suggestion)
}

// suggest asks the hint service about the current position of gameID.
func (h *Handler) suggest(r *http.Request, gameID string) (hint.Suggestion, error) {
	view, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		return hint.Suggestion{}, err
	}
	if view.Status.Over() {
		return hint.Suggestion{}, game.ErrGameAlreadyOver
	}

	return h.hints.Suggest(r.Context(), hint.Request{
		Lang:    view.Lang,
		Usage:   view.Usage,
		Blanks:  view.Blanks,
		Guessed: []rune(view.UsedLetters),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gameservice.ErrPlayerRequired),
		errors.Is(err, phrase.ErrUnsupportedLanguage),
		errors.Is(err, game.ErrInvalidLetter):
		return http.StatusBadRequest
	case errors.Is(err, gameservice.ErrGameNotFound),
		errors.Is(err, game.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameAlreadyOver),
		errors.Is(err, hint.ErrNoLettersLeft):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondGameError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("component", "game").Msg("request failed")
		utils.RespondError(w, status, "internal error")
		return
	}
	utils.RespondError(w, status, err.Error())
}
