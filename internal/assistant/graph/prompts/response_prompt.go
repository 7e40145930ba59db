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

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// RenderResponseSystem renders the synthesis system prompt. When events were
// retrieved, their literal enumeration is embedded so the model can only
// describe those; otherwise the template carries the explicit nothing-found
// instruction.
func RenderResponseSystem(ctx context.Context, cfg model.AssistantPromptConfig, events []model.EventSummary, historyContext string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(responseSystemPrompt),
	)
	vars := map[string]any{
		"AssistantName":  cfg.AssistantName,
		"BusinessName":   cfg.BusinessName,
		"HasEvents":      len(events) > 0,
		"EventList":      FormatEventList(events),
		"HistoryContext": historyContext,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// FormatEventList renders the numbered enumeration shared by the synthesis
// prompt and the grounding guard's deterministic fallback reply.
func FormatEventList(events []model.EventSummary) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ev.DisplayLine())
	}
	return strings.TrimRight(b.String(), "\n")
}
