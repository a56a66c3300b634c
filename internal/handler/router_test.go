package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/langman/backend/internal/auth"
	"github.com/zhouzirui/langman/backend/internal/metrics"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
	gameService "github.com/zhouzirui/langman/backend/internal/service/game"
	hintService "github.com/zhouzirui/langman/backend/internal/service/hint"
	statsService "github.com/zhouzirui/langman/backend/internal/service/stats"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	items, err := phrase.Seed()
	require.NoError(t, err)
	store := phrase.NewMemoryStore(items, phrase.NewRand(7))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	statsSvc := statsService.NewService()

	hints, err := hintService.NewService(context.Background(), nil, hintService.Config{}, collector)
	require.NoError(t, err)
	issuer, err := auth.NewIssuer("router-secret", time.Hour)
	require.NoError(t, err)

	return NewRouter(Dependencies{
		Phrases:  store,
		Games:    gameService.NewService(store, gameService.WithStats(statsSvc), gameService.WithMetrics(collector)),
		Stats:    statsSvc,
		Hints:    hints,
		Issuer:   issuer,
		Gatherer: reg,
	})
}

func TestRouterEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/languages", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"fr"`)

	body, _ := json.Marshal(map[string]string{"name": "ada", "language": "fr-CA"})
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		GameID      string `json:"gameId"`
		Lang        string `json:"lang"`
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "fr", created.Lang)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/players/ada/stats", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"games":1`)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "langman_games_started_total")
}

func TestRouterHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
