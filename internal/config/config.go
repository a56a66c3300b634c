package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	AI        AIConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.RateLimit.GuessesPerMinute <= 0 {
		return nil, fmt.Errorf("invalid GUESS_RATE_PER_MINUTE value %v", cfg.RateLimit.GuessesPerMinute)
	}
	if cfg.RateLimit.Burst < 1 {
		cfg.RateLimit.Burst = 1
	}

	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	Addr           string   `env:"-"`
}

// GameConfig 描述游戏引擎相关配置。
type GameConfig struct {
	PhrasesFile  string        `env:"PHRASES_FILE"`
	IdleTTL      time.Duration `env:"GAME_IDLE_TTL" envDefault:"2h"`
	ReapInterval time.Duration `env:"GAME_REAP_INTERVAL" envDefault:"10m"`
}

// AuthConfig 描述游戏访问令牌配置。
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	TokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES" envDefault:"24h"`
}

// RateLimitConfig 限制每局游戏的猜测频率。
type RateLimitConfig struct {
	GuessesPerMinute float64 `env:"GUESS_RATE_PER_MINUTE" envDefault:"60"`
	Burst            int     `env:"GUESS_BURST" envDefault:"10"`
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// MetricsConfig 控制 Prometheus 指标端点。
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// AIConfig 描述大模型提示功能的配置。
type AIConfig struct {
	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
	HintEnabled bool     `env:"AI_HINT_ENABLED" envDefault:"true"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}
