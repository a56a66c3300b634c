package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/langman/backend/internal/analysis/frequency"
	"github.com/zhouzirui/langman/backend/internal/game"
	"github.com/zhouzirui/langman/backend/internal/logger"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
)

func main() {
	name := flag.String("name", "", "玩家名称，留空则使用 $USER")
	lang := flag.String("lang", "en", "游戏语言代码，例如 en、fr、es")
	phrasesPath := flag.String("phrases", "", "YAML 词库文件路径，默认使用内置词库")
	seed := flag.Uint64("seed", 0, "随机种子，0 表示按时间生成")
	flag.Parse()

	logger.Setup(os.Getenv("LOG_LEVEL"), true)
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("无法加载 .env，改用系统环境变量")
	}

	player := strings.TrimSpace(*name)
	if player == "" {
		player = os.Getenv("USER")
	}
	if player == "" {
		player = "player"
	}

	items, err := loadPhrases(*phrasesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("词库加载失败")
	}

	var rng phrase.Rand
	if *seed != 0 {
		rng = phrase.NewRand(*seed)
	}
	store := phrase.NewMemoryStore(items, rng)

	if err := play(os.Stdin, os.Stdout, game.NewMachine(store), player, *lang); err != nil {
		log.Fatal().Err(err).Msg("游戏异常结束")
	}
}

func loadPhrases(path string) ([]phrase.Phrase, error) {
	if path == "" {
		return phrase.Seed()
	}
	return phrase.LoadFile(path)
}

// play runs games on machine until the player quits or input ends.
func play(in io.Reader, out io.Writer, machine *game.Machine, player, lang string) error {
	scanner := bufio.NewScanner(in)

	session, err := machine.Start(player, lang)
	if err != nil {
		return err
	}
	defer machine.Quit()

	fmt.Fprintf(out, "Welcome %s! Guess the word, one letter at a time. '?' for a hint, ':q' to quit.\n", session.PlayerName)

	for {
		render(out, session)

		if session.Status.Over() {
			fmt.Fprintf(out, "The word was %q. You %s in %s.\n",
				session.Phrase.SecretWord, session.Status, session.Duration(time.Now()).Round(time.Second))
			fmt.Fprint(out, "Play again? [y/N/language] ")
			if !scanner.Scan() {
				return scanner.Err()
			}

			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			switch answer {
			case "y", "yes":
				answer = session.Phrase.Language
			case "", "n", "no", ":q":
				fmt.Fprintln(out, "Bye!")
				return nil
			}

			// Any other answer is a language code; one without phrases quits.
			next, err := machine.PlayAgain(answer)
			if err != nil {
				fmt.Fprintf(out, "Cannot start a new game: %v\nBye!\n", err)
				return nil
			}
			session = next
			continue
		}

		fmt.Fprint(out, "Letter: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case ":q":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "?":
			if d, ok := frequency.Suggest(session.Phrase.Language, session.Guessed.All()); ok {
				fmt.Fprintf(out, "Hint: try %q\n", d.Letter)
			} else {
				fmt.Fprintln(out, "No letters left to suggest.")
			}
			continue
		}

		res, err := machine.Guess(input)
		switch {
		case errors.Is(err, game.ErrInvalidLetter):
			fmt.Fprintln(out, "Please type a single letter of the alphabet.")
			continue
		case err != nil:
			return err
		}

		switch {
		case res.Repeated:
			fmt.Fprintf(out, "You already tried %q.\n", res.Letter)
		case res.Hit:
			fmt.Fprintf(out, "Yes, %q is in the word.\n", res.Letter)
		default:
			fmt.Fprintf(out, "No %q.\n", res.Letter)
		}
		session = res.Session
	}
}

func render(out io.Writer, s game.Session) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.Phrase.MaskedUsage())
	fmt.Fprintf(out, "  %s\n", spaced(s.Blanks))
	fmt.Fprintf(out, "  used: %s   misses: %d/%d\n", s.Guessed.String(), s.BadGuesses, game.MaxBadGuesses)
}

func spaced(blanks string) string {
	runes := []rune(blanks)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
