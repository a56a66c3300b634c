package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/langman/backend/internal/game"
	"github.com/zhouzirui/langman/backend/internal/metrics"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
	"github.com/zhouzirui/langman/backend/internal/service/stats"
)

var (
	ErrPlayerRequired = errors.New("player name is required")
	ErrGameNotFound   = errors.New("game not found")
)

// table holds one player's machine. Its mutex serializes every command on
// the machine; tables share no state.
type table struct {
	mu       sync.Mutex
	id       string
	playerID string
	machine  *game.Machine
	lastSeen time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithStats records player statistics on start and finish.
func WithStats(svc *stats.Service) Option {
	return func(s *Service) { s.stats = svc }
}

// WithMetrics reports game activity to rec.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIdleTTL sets how long an untouched table survives Reap.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) { s.idleTTL = ttl }
}

// Service manages the game tables of all connected players.
type Service struct {
	mu      sync.RWMutex
	tables  map[string]*table
	phrases phrase.Store
	stats   *stats.Service
	metrics metrics.Recorder
	now     func() time.Time
	idleTTL time.Duration
}

// NewService bootstraps the in-memory game service.
func NewService(phrases phrase.Store, opts ...Option) *Service {
	s := &Service{
		tables:  make(map[string]*table),
		phrases: phrases,
		metrics: metrics.Nop{},
		now:     time.Now,
		idleTTL: 2 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame opens a new table for player and starts a game in lang.
func (s *Service) CreateGame(ctx context.Context, player, lang string) (View, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return View{}, ErrPlayerRequired
	}

	machine := game.NewMachine(s.phrases, game.WithClock(s.now))
	session, err := machine.Start(player, lang)
	if err != nil {
		return View{}, err
	}

	t := &table{
		id:       uuid.NewString(),
		playerID: stats.PlayerID(player),
		machine:  machine,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.tables[t.id] = t
	active := len(s.tables)
	s.mu.Unlock()

	s.started(ctx, t, session)
	s.metrics.ActiveGames(active)

	return newView(t.id, t.playerID, session), nil
}

// GetGame returns the current state of a table. Reading counts as activity
// for the idle reaper.
func (s *Service) GetGame(_ context.Context, gameID string) (View, error) {
	t, err := s.lookup(gameID)
	if err != nil {
		return View{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = s.now()

	session, ok := t.machine.Current()
	if !ok {
		return View{}, ErrGameNotFound
	}
	return newView(t.id, t.playerID, session), nil
}

// Guess applies letter to the table's current game.
func (s *Service) Guess(ctx context.Context, gameID, letter string) (GuessResult, error) {
	t, err := s.lookup(gameID)
	if err != nil {
		return GuessResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = s.now()

	res, err := t.machine.Guess(letter)
	if err != nil {
		if errors.Is(err, game.ErrInvalidLetter) {
			s.metrics.Guess(metrics.GuessInvalid)
		}
		return GuessResult{}, err
	}

	switch {
	case res.Repeated:
		s.metrics.Guess(metrics.GuessRepeat)
	case res.Hit:
		s.metrics.Guess(metrics.GuessHit)
	default:
		s.metrics.Guess(metrics.GuessMiss)
	}

	log.Debug().
		Str("component", "game").
		Str("game_id", t.id).
		Str("letter", string(res.Letter)).
		Bool("hit", res.Hit).
		Bool("repeated", res.Repeated).
		Int("bad_guesses", res.BadGuesses).
		Msg("guess applied")

	if !res.Repeated && res.Status.Over() {
		s.finished(ctx, t, res.Session)
	}

	return GuessResult{
		View:     newView(t.id, t.playerID, res.Session),
		Letter:   string(res.Letter),
		Hit:      res.Hit,
		Repeated: res.Repeated,
	}, nil
}

// PlayAgain starts a fresh game on the table. An empty lang keeps the
// language of the previous game.
func (s *Service) PlayAgain(ctx context.Context, gameID, lang string) (View, error) {
	t, err := s.lookup(gameID)
	if err != nil {
		return View{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen = s.now()

	if strings.TrimSpace(lang) == "" {
		if current, ok := t.machine.Current(); ok {
			lang = current.Phrase.Language
		}
	}

	session, err := t.machine.PlayAgain(lang)
	if err != nil {
		return View{}, err
	}

	s.started(ctx, t, session)
	return newView(t.id, t.playerID, session), nil
}

// QuitGame removes the table. It reports whether a table was removed.
func (s *Service) QuitGame(_ context.Context, gameID string) bool {
	s.mu.Lock()
	t, ok := s.tables[gameID]
	delete(s.tables, gameID)
	active := len(s.tables)
	s.mu.Unlock()

	if !ok {
		return false
	}

	t.mu.Lock()
	t.machine.Quit()
	t.mu.Unlock()

	s.metrics.ActiveGames(active)
	log.Info().Str("component", "game").Str("game_id", gameID).Msg("game closed")
	return true
}

// Reap drops tables idle for longer than the configured TTL and returns how
// many were removed.
func (s *Service) Reap(now time.Time) int {
	s.mu.Lock()
	removed := 0
	for id, t := range s.tables {
		t.mu.Lock()
		idle := now.Sub(t.lastSeen)
		t.mu.Unlock()
		if idle > s.idleTTL {
			delete(s.tables, id)
			removed++
		}
	}
	active := len(s.tables)
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.ActiveGames(active)
		log.Info().Str("component", "game").Int("removed", removed).Int("active", active).Msg("reaped idle games")
	}
	return removed
}

// RunJanitor calls Reap every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(s.now())
		}
	}
}

// ActiveGames returns the number of open tables.
func (s *Service) ActiveGames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

func (s *Service) lookup(gameID string) (*table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return t, nil
}

func (s *Service) started(ctx context.Context, t *table, session game.Session) {
	lang := session.Phrase.Language
	if s.stats != nil {
		s.stats.GameStarted(ctx, session.PlayerName, lang, session.StartedAt)
	}
	s.metrics.GameStarted(lang)

	log.Info().
		Str("component", "game").
		Str("game_id", t.id).
		Str("player_id", t.playerID).
		Str("lang", lang).
		Msg("game started")
}

func (s *Service) finished(ctx context.Context, t *table, session game.Session) {
	result := string(session.Status)
	if s.stats != nil {
		s.stats.GameEnded(ctx, session.PlayerName, result, session.Duration(s.now()))
	}
	s.metrics.GameFinished(result)

	log.Info().
		Str("component", "game").
		Str("game_id", t.id).
		Str("result", result).
		Int("bad_guesses", session.BadGuesses).
		Msg("game finished")
}
