package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/zhouzirui/langman/backend/internal/auth"
	"github.com/zhouzirui/langman/backend/internal/config"
	"github.com/zhouzirui/langman/backend/internal/handler"
	"github.com/zhouzirui/langman/backend/internal/logger"
	"github.com/zhouzirui/langman/backend/internal/metrics"
	"github.com/zhouzirui/langman/backend/internal/middleware"
	"github.com/zhouzirui/langman/backend/internal/model/phrase"
	"github.com/zhouzirui/langman/backend/internal/service/game"
	"github.com/zhouzirui/langman/backend/internal/service/hint"
	"github.com/zhouzirui/langman/backend/internal/service/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("failed to load .env file, continuing with system environment variables only")
	}

	items, err := loadPhrases(cfg.Game.PhrasesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load phrase catalog")
	}
	phraseStore := phrase.NewMemoryStore(items, nil)
	log.Info().Int("phrases", len(items)).Strs("languages", phraseStore.Languages()).Msg("phrase catalog loaded")

	var (
		recorder metrics.Recorder = metrics.Nop{}
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewCollector(reg)
		gatherer = reg
	}

	statsService := stats.NewService()
	gameService := game.NewService(phraseStore,
		game.WithStats(statsService),
		game.WithMetrics(recorder),
		game.WithIdleTTL(cfg.Game.IdleTTL),
	)
	go gameService.RunJanitor(ctx, cfg.Game.ReapInterval)

	// Initialize hint service (LLM-based suggestion with frequency fallback)
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize chat model, 请检查 Ark 模型相关环境变量")
			chatModel = nil
		}
	} else {
		log.Info().Msg("Ark 凭证未配置，提示功能仅使用字母频率")
	}

	hintService, err := hint.NewService(ctx, chatModel, hint.Config{Enabled: cfg.AI.HintEnabled}, recorder)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize hint chain, falling back to heuristics")
		hintService, _ = hint.NewService(ctx, nil, hint.Config{}, recorder)
	} else if hintService.Enabled() {
		log.Info().Msg("hint model enabled")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.GuessesPerMinute / 60.0),
		Burst: cfg.RateLimit.Burst,
	})
	defer limiter.Stop()

	router := handler.NewRouter(handler.Dependencies{
		Phrases:        phraseStore,
		Games:          gameService,
		Stats:          statsService,
		Hints:          hintService,
		Issuer:         issuer,
		Limiter:        limiter,
		Gatherer:       gatherer,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

func loadPhrases(path string) ([]phrase.Phrase, error) {
	if path == "" {
		return phrase.Seed()
	}
	return phrase.LoadFile(path)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("langman backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
