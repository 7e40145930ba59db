package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"720h"`
	History struct {
		EnrichTurns  int `envconfig:"CONVERSATION_ENRICH_TURNS" default:"5"`
		DisplayTurns int `envconfig:"CONVERSATION_DISPLAY_TURNS" default:"30"`
	}
}

type ExtractModelConfig struct {
	Model       string  `envconfig:"EXTRACT_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"EXTRACT_MAX_TOKENS" default:"500"`
	Temperature float32 `envconfig:"EXTRACT_TEMPERATURE" default:"0.1"`
}

type SynthesisModelConfig struct {
	Model     string `envconfig:"SYNTHESIS_MODEL" default:"gemini-2.5-flash"`
	MaxTokens int    `envconfig:"SYNTHESIS_MAX_TOKENS" default:"1500"`
	// FirstTurnTemperature biases a user's very first turn toward precision.
	Temperature          float32 `envconfig:"SYNTHESIS_TEMPERATURE" default:"0.6"`
	FirstTurnTemperature float32 `envconfig:"SYNTHESIS_FIRST_TURN_TEMPERATURE" default:"0.2"`
}

type AssistantPromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"EveBot"`
	BusinessName  string `envconfig:"PROMPT_BUSINESS_NAME" default:"Eventure"`
}
