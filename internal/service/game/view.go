package game

import (
	"time"

	"github.com/zhouzirui/langman/backend/internal/game"
)

// View is the game state the presentation layer renders after each command.
type View struct {
	GameID        string      `json:"gameId"`
	Player        string      `json:"player"`
	PlayerID      string      `json:"playerId"`
	Usage         string      `json:"usage"`
	Blanks        string      `json:"blanks"`
	UsedLetters   string      `json:"usedLetters"`
	BadGuesses    int         `json:"badGuesses"`
	MaxBadGuesses int         `json:"maxBadGuesses"`
	Status        game.Status `json:"status"`
	Lang          string      `json:"lang"`
	Source        string      `json:"source,omitempty"`
	SecretWord    string      `json:"secretWord,omitempty"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       *time.Time  `json:"endTime,omitempty"`
}

// GuessResult is the view after a guess.
type GuessResult struct {
	View
	Letter   string `json:"letter"`
	Hit      bool   `json:"hit"`
	Repeated bool   `json:"repeated"`
}

func newView(gameID, playerID string, s game.Session) View {
	v := View{
		GameID:        gameID,
		Player:        s.PlayerName,
		PlayerID:      playerID,
		Usage:         s.Phrase.MaskedUsage(),
		Blanks:        s.Blanks,
		UsedLetters:   s.Guessed.String(),
		BadGuesses:    s.BadGuesses,
		MaxBadGuesses: game.MaxBadGuesses,
		Status:        s.Status,
		Lang:          s.Phrase.Language,
		Source:        s.Phrase.Source,
		StartTime:     s.StartedAt.UTC(),
	}
	if s.Status.Over() {
		v.SecretWord = s.Phrase.SecretWord
		end := s.EndedAt.UTC()
		v.EndTime = &end
	}
	return v
}
