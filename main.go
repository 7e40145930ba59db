package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/evebot-core/server/internal/assistant/graph"
	"github.com/evebot-core/server/internal/assistant/model"
	"github.com/evebot-core/server/internal/assistant/repo"
	"github.com/evebot-core/server/internal/assistant/search"
	"github.com/evebot-core/server/internal/core"
	"github.com/evebot-core/server/internal/server"
	logx "github.com/evebot-core/server/pkg/logger"
	pkgredis "github.com/evebot-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis   pkgredis.Config
	Catalog search.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Extract         model.ExtractModelConfig
	Synthesis       model.SynthesisModelConfig
	Prompt          model.AssistantPromptConfig
	Conversation    model.ConversationConfig
	IntentRulesPath string `envconfig:"INTENT_RULES_PATH"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	// Redis is the conversation store when configured; otherwise fall back
	// to the in-process store so the server still runs locally.
	var store model.ConversationStore
	if envCfg.Redis.URL != "" {
		rdb, err := envCfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()
		store = repo.NewRedisConversationStore(rdb, ttl)
		logx.Info().Msg("Connected to Redis successfully")
	} else {
		store = repo.NewMemoryConversationStore()
		logx.Warn().Msg("REDIS_URL not set, conversation history is in-memory only")
	}

	runner, err := graph.BuildTurnGraph(ctx, graph.Config{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ExtractModel:    envCfg.Extract,
		SynthesisModel:  envCfg.Synthesis,
		Prompt:          envCfg.Prompt,
		Conversation:    envCfg.Conversation,
		Store:           store,
		Catalog:         search.NewClientFromConfig(envCfg.Catalog),
		IntentRulesPath: envCfg.IntentRulesPath,
	})
	if err != nil {
		log.Fatalf("Failed to build turn graph: %v", err)
	}

	h := server.NewHandler(runner, store, envCfg.Conversation.History.DisplayTurns)
	e := server.NewEcho(h)

	logx.Info().Str("addr", envCfg.HTTPAddr).Msg("assistant server listening")
	if err := e.Start(envCfg.HTTPAddr); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
