package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/evebot-core/server/internal/assistant/model"
)

//go:embed template/extract_prompt.txt
var extractSystemPrompt string

// RenderExtractSystem renders the extraction system prompt via the Eino
// prompt component. This triggers prompt callbacks and returns the final
// system prompt string.
func RenderExtractSystem(ctx context.Context, cfg model.AssistantPromptConfig, historyContext string) (string, error) {
	// Safely render known tokens only, to avoid interfering with the JSON
	// braces in the template.
	content := strings.NewReplacer(
		"{business_name}", cfg.BusinessName,
		"{history_context}", historyContext,
	).Replace(extractSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("extract prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("extract prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
