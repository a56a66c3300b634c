package hint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/langman/backend/internal/analysis/frequency"
	"github.com/zhouzirui/langman/backend/internal/metrics"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

var ErrNoLettersLeft = errors.New("no letter left to suggest")

// Suggestion sources.
const (
	SourceModel     = "model"
	SourceFrequency = "frequency"
)

const systemPrompt = `You help a player of a hangman word game.
The hidden word is in the language with ISO code {lang}. Underscores mark letters that are still hidden.
Reply with exactly one lowercase letter that has not been guessed yet and is most likely to appear in the hidden word. Reply with the letter only.`

const userPrompt = `Clue sentence: {usage}
Hidden word: {blanks}
Letters already guessed: {guessed}`

// Config controls the hint service.
type Config struct {
	Enabled bool
}

// Request describes the game position to suggest a letter for.
type Request struct {
	Lang    string
	Usage   string
	Blanks  string
	Guessed []rune
}

// Suggestion is a letter worth guessing next.
type Suggestion struct {
	Letter string `json:"letter"`
	Source string `json:"source"`
}

// Service suggests letters with a chat model and falls back to a letter
// frequency heuristic. Suggestions never touch game state.
type Service struct {
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]
	metrics metrics.Recorder
}

// NewService creates the hint service. chatModel may be nil, in which case
// only the frequency heuristic is used.
func NewService(ctx context.Context, chatModel model.BaseChatModel, cfg Config, rec metrics.Recorder) (*Service, error) {
	if rec == nil {
		rec = metrics.Nop{}
	}
	svc := &Service{
		enabled: cfg.Enabled && chatModel != nil,
		metrics: rec,
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile hint chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Enabled reports whether the chat model is used.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Suggest returns a letter that is in the alphabet of req.Lang and has not
// been guessed yet.
func (s *Service) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	if s.Enabled() {
		if letter, ok := s.askModel(ctx, req); ok {
			s.record(SourceModel)
			return Suggestion{Letter: string(letter), Source: SourceModel}, nil
		}
	}

	decision, ok := frequency.Suggest(req.Lang, req.Guessed)
	if !ok {
		return Suggestion{}, ErrNoLettersLeft
	}
	s.record(SourceFrequency)
	return Suggestion{Letter: string(decision.Letter), Source: SourceFrequency}, nil
}

func (s *Service) askModel(ctx context.Context, req Request) (rune, bool) {
	input := map[string]any{
		"lang":    req.Lang,
		"usage":   strings.TrimSpace(req.Usage),
		"blanks":  req.Blanks,
		"guessed": formatGuessed(req.Guessed),
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Warn().Err(err).Str("component", "hint").Msg("hint model invoke failed, use fallback")
		return 0, false
	}
	if msg == nil {
		return 0, false
	}

	letter, ok := parseLetter(msg.Content, req)
	if !ok {
		log.Warn().Str("component", "hint").Str("content", msg.Content).Msg("hint model answer rejected, use fallback")
	}
	return letter, ok
}

func (s *Service) record(source string) {
	if s != nil && s.metrics != nil {
		s.metrics.Hint(source)
	}
}

// parseLetter takes the first letter of the model output and checks it is
// playable.
func parseLetter(content string, req Request) (rune, bool) {
	for _, r := range strings.TrimSpace(content) {
		if !unicode.IsLetter(r) {
			continue
		}
		if !phrase.InAlphabet(req.Lang, r) {
			return 0, false
		}
		key := phrase.Fold(r)
		for _, g := range req.Guessed {
			if phrase.Fold(g) == key {
				return 0, false
			}
		}
		return key, true
	}
	return 0, false
}

func formatGuessed(guessed []rune) string {
	if len(guessed) == 0 {
		return "none"
	}
	parts := make([]string, len(guessed))
	for i, r := range guessed {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
