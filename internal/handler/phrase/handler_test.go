package phrase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

func TestListLanguages(t *testing.T) {
	en, err := phrase.New("en", "apple", "An {word} a day.", "")
	require.NoError(t, err)
	fr, err := phrase.New("fr", "pomme", "", "")
	require.NoError(t, err)
	fr2, err := phrase.New("fr", "poire", "", "")
	require.NoError(t, err)

	r := chi.NewRouter()
	New(phrase.NewMemoryStore([]phrase.Phrase{en, fr, fr2}, phrase.NewRand(1))).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/languages", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var got []Language
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.ElementsMatch(t, []Language{{Code: "en", Phrases: 1}, {Code: "fr", Phrases: 2}}, got)
}
