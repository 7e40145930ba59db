package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/evebot-core/server/internal/assistant/model"
	logx "github.com/evebot-core/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	Extract    *model.ExtractModelConfig
	Synthesis  *model.SynthesisModelConfig
}

// ChatModels holds the extraction and synthesis chat models behind the
// BaseChatModel interface so tests can substitute deterministic fakes.
type ChatModels struct {
	Extract            einomodel.BaseChatModel
	Synthesis          einomodel.BaseChatModel
	ExtractModelName   string
	SynthesisModelName string
}

// NewChatModels creates both chat models on a shared Gemini client. The
// extraction model keeps its low fixed temperature here; the synthesis
// temperature is chosen per call.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	extractModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Extract.Model,
		Temperature: &config.Extract.Temperature,
		MaxTokens:   &config.Extract.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extraction model")
		return nil, fmt.Errorf("error creating extraction model: %w", err)
	}

	synthesisModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:    client,
		Model:     config.Synthesis.Model,
		MaxTokens: &config.Synthesis.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating synthesis model")
		return nil, fmt.Errorf("error creating synthesis model: %w", err)
	}

	return &ChatModels{
		Extract:            extractModel,
		Synthesis:          synthesisModel,
		ExtractModelName:   config.Extract.Model,
		SynthesisModelName: config.Synthesis.Model,
	}, nil
}
