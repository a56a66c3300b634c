package stats

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerID derives a stable identifier from a player name.
func PlayerID(name string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(strings.TrimSpace(name))).String()
}

// Player aggregates a player's game history.
type Player struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Games      int            `json:"games"`
	Outcomes   map[string]int `json:"outcomes"`
	ByLanguage map[string]int `json:"byLanguage"`
	FirstSeen  time.Time      `json:"firstSeen"`
	TotalTime  float64        `json:"totalSeconds"`
	AvgTime    float64        `json:"avgSeconds"`

	total time.Duration
}

// Service keeps per-player statistics in memory.
type Service struct {
	mu      sync.RWMutex
	players map[string]*Player
}

// NewService creates an empty stats service.
func NewService() *Service {
	return &Service{players: make(map[string]*Player)}
}

// GameStarted counts a new game for name in lang and returns the player id.
func (s *Service) GameStarted(_ context.Context, name, lang string, at time.Time) string {
	id := PlayerID(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		p = &Player{
			ID:         id,
			Name:       strings.TrimSpace(name),
			Outcomes:   make(map[string]int),
			ByLanguage: make(map[string]int),
			FirstSeen:  at.UTC(),
		}
		s.players[id] = p
	}

	p.Games++
	p.Outcomes["playing"]++
	p.ByLanguage[lang]++
	return id
}

// GameEnded moves one playing game of name to outcome and adds its duration.
func (s *Service) GameEnded(_ context.Context, name, outcome string, played time.Duration) {
	id := PlayerID(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return
	}

	if p.Outcomes["playing"] > 0 {
		p.Outcomes["playing"]--
	}
	p.Outcomes[outcome]++
	p.total += played
	p.TotalTime = p.total.Seconds()
	if p.Games > 0 {
		p.AvgTime = (p.total / time.Duration(p.Games)).Seconds()
	}
}

// Get returns a copy of the statistics for name.
func (s *Service) Get(_ context.Context, name string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[PlayerID(name)]
	if !ok {
		return Player{}, ErrPlayerNotFound
	}

	out := *p
	out.Outcomes = copyCounts(p.Outcomes)
	out.ByLanguage = copyCounts(p.ByLanguage)
	return out, nil
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
