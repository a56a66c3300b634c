// Package metrics exposes Prometheus counters for game activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the game and hint services report to.
type Recorder interface {
	GameStarted(lang string)
	GameFinished(result string)
	Guess(outcome string)
	ActiveGames(n int)
	Hint(source string)
}

// Guess outcomes.
const (
	GuessHit     = "hit"
	GuessMiss    = "miss"
	GuessRepeat  = "repeat"
	GuessInvalid = "invalid"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	gamesStarted  *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	activeGames   prometheus.Gauge
	hints         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "langman_games_started_total",
			Help: "Games started, by language.",
		}, []string{"lang"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "langman_games_finished_total",
			Help: "Games that reached a terminal state, by result.",
		}, []string{"result"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "langman_guesses_total",
			Help: "Letter guesses, by outcome.",
		}, []string{"outcome"}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "langman_active_games",
			Help: "Game tables currently held in memory.",
		}),
		hints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "langman_hints_total",
			Help: "Hints served, by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		c.gamesStarted,
		c.gamesFinished,
		c.guesses,
		c.activeGames,
		c.hints,
	)
	return c
}

func (c *Collector) GameStarted(lang string)    { c.gamesStarted.WithLabelValues(lang).Inc() }
func (c *Collector) GameFinished(result string) { c.gamesFinished.WithLabelValues(result).Inc() }
func (c *Collector) Guess(outcome string)       { c.guesses.WithLabelValues(outcome).Inc() }
func (c *Collector) ActiveGames(n int)          { c.activeGames.Set(float64(n)) }
func (c *Collector) Hint(source string)         { c.hints.WithLabelValues(source).Inc() }

// Nop discards everything.
type Nop struct{}

func (Nop) GameStarted(string)  {}
func (Nop) GameFinished(string) {}
func (Nop) Guess(string)        {}
func (Nop) ActiveGames(int)     {}
func (Nop) Hint(string)         {}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
