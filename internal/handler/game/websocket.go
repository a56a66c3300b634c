package game

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	gameservice "github.com/zhouzirui/langman/backend/internal/service/game"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

const msgTooManyGuesses = "too many guesses, slow down"

type inboundMessage struct {
	Type     string `json:"type"`
	Letter   string `json:"letter,omitempty"`
	Language string `json:"language,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	GameID    string      `json:"gameId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// socket serializes writes; gorilla connections allow one concurrent writer.
type socket struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	gameID string
}

func (s *socket) send(msgType string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{
		Type:      msgType,
		GameID:    s.gameID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Debug().Err(err).Str("component", "websocket").Str("game_id", s.gameID).Msg("write failed")
	}
}

func (s *socket) sendError(err error) {
	s.send("error", map[string]any{
		"message": err.Error(),
		"status":  statusFor(err),
	})
}

func (s *socket) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接，每条入站消息对应一个游戏命令
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, gameIDParam)

	view, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		respondGameError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "websocket").Msg("upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("component", "websocket").Str("game_id", gameID).Msg("connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	s := &socket{conn: conn, gameID: gameID}
	go pingLoop(ctx, s)

	s.send("state", view)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("component", "websocket").Str("game_id", gameID).Msg("read failed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if !h.handleMessage(r, s, &msg) {
			return
		}
	}
}

// handleMessage runs one command and reports whether the connection stays
// open. The connection closes once the game is gone.
func (h *Handler) handleMessage(r *http.Request, s *socket, msg *inboundMessage) bool {
	ctx := r.Context()

	var (
		msgType = "state"
		data    interface{}
		err     error
	)

	switch msg.Type {
	case "guess":
		if h.limiter != nil && !h.limiter.Allow(s.gameID) {
			s.send("error", map[string]any{
				"message": msgTooManyGuesses,
				"status":  http.StatusTooManyRequests,
			})
			return true
		}
		data, err = h.games.Guess(ctx, s.gameID, msg.Letter)
	case "again":
		data, err = h.games.PlayAgain(ctx, s.gameID, msg.Language)
	case "state":
		data, err = h.games.GetGame(ctx, s.gameID)
	case "hint":
		msgType = "hint"
		data, err = h.suggest(r, s.gameID)
	case "quit":
		h.games.QuitGame(ctx, s.gameID)
		s.send("bye", map[string]string{"message": "game closed"})
		return false
	default:
		s.send("error", map[string]any{
			"message": "unsupported message type: " + msg.Type,
			"status":  http.StatusBadRequest,
		})
		return true
	}

	if err != nil {
		s.sendError(err)
		return !errors.Is(err, gameservice.ErrGameNotFound)
	}
	s.send(msgType, data)
	return true
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, s *socket) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return
			}
		}
	}
}
