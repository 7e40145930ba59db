package nodes

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/evebot-core/server/internal/assistant/graph/conversations"
	"github.com/evebot-core/server/internal/assistant/graph/guard"
	"github.com/evebot-core/server/internal/assistant/graph/intents"
	"github.com/evebot-core/server/internal/assistant/graph/parsers"
	"github.com/evebot-core/server/internal/assistant/graph/prompts"
	"github.com/evebot-core/server/internal/assistant/model"
	"github.com/evebot-core/server/internal/assistant/search"
	logx "github.com/evebot-core/server/pkg/logger"
)

// Node names used when composing the turn graph.
const (
	NodeClassifier     = "Classifier"
	NodeCannedReply    = "CannedReply"
	NodeTrending       = "Trending"
	NodeEnricher       = "HistoryEnricher"
	NodeExtractPrompt  = "ExtractPrompt"
	NodeExtractModel   = "ExtractChatModel"
	NodeExtractParser  = "ExtractParser"
	NodeSearch         = "SearchOrchestrator"
	NodeSynthesizer    = "Synthesizer"
	NodeGroundingGuard = "GroundingGuard"
)

// NewClassifierPreHandler captures the raw input into state before anything
// else runs; every later node reads the message and user from state.
func NewClassifierPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.UserID = in.UserID
		s.Message = in.Message
		s.Events = []model.EventSummary{}
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewClassifierNode assigns exactly one intent per turn. Classification
// happens once; no later node may reclassify.
func NewClassifierNode(cls *intents.Classifier) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.TurnInput) (model.TurnPlan, error) {
		intent := cls.Classify(input.Message)
		logx.Debug().
			Str("user_id", input.UserID).
			Str("intent", string(intent)).
			Msg("message classified")
		return model.TurnPlan{
			UserID:  input.UserID,
			Message: input.Message,
			Intent:  intent,
		}, nil
	})
}

// NewClassifierPostHandler records the assigned intent in state.
func NewClassifierPostHandler() func(context.Context, model.TurnPlan, *model.TurnState) (model.TurnPlan, error) {
	return func(ctx context.Context, out model.TurnPlan, s *model.TurnState) (model.TurnPlan, error) {
		s.Intent = out.Intent
		return out, nil
	}
}

// NewTurnBranchCondition routes the classified turn: canned script, trending
// suggestions, or the full extract-search-synthesize pipeline.
func NewTurnBranchCondition() func(context.Context, model.TurnPlan) (string, error) {
	return func(ctx context.Context, plan model.TurnPlan) (string, error) {
		switch {
		case plan.Intent == model.IntentSmallTalk || plan.Intent.IsFAQ():
			return NodeCannedReply, nil
		case plan.Intent == model.IntentSuggestion:
			return NodeTrending, nil
		default:
			return NodeEnricher, nil
		}
	}
}

// NewCannedReplyNode answers small-talk and FAQ turns from the fixed scripts
// without touching the completion service or the catalog.
func NewCannedReplyNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, plan model.TurnPlan) (*schema.Message, error) {
		reply, ok := intents.CannedReply(plan.Intent)
		if !ok {
			// Branch routed here without a script; answer as small talk.
			logx.Warn().Str("intent", string(plan.Intent)).Msg("no canned script for intent")
			reply, _ = intents.CannedReply(model.IntentSmallTalk)
		}
		return schema.AssistantMessage(reply, nil), nil
	})
}

// NewTrendingNode fetches the catalog's trending events for suggestion turns.
func NewTrendingNode(orc *search.Orchestrator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, plan model.TurnPlan) ([]model.EventSummary, error) {
		events, err := orc.Trending(ctx)
		if err != nil {
			return nil, err
		}
		logx.Debug().Int("events", len(events)).Msg("trending events fetched")
		return events, nil
	})
}

// NewEnricherNode folds recent conversation history into the plan so the
// extractor can prefer continuity with prior topics when the message is
// ambiguous.
func NewEnricherNode(mm *conversations.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, plan model.TurnPlan) (model.TurnPlan, error) {
		plan.HistoryContext, plan.FirstTurn = mm.Enrich(ctx, plan.UserID)
		return plan, nil
	})
}

// NewEnricherPostHandler mirrors enrichment results into state for the
// synthesis tail.
func NewEnricherPostHandler() func(context.Context, model.TurnPlan, *model.TurnState) (model.TurnPlan, error) {
	return func(ctx context.Context, out model.TurnPlan, s *model.TurnState) (model.TurnPlan, error) {
		s.HistoryContext = out.HistoryContext
		s.FirstTurn = out.FirstTurn
		return out, nil
	}
}

// NewExtractPromptNode builds the extraction messages: constrained system
// prompt plus the raw user message.
func NewExtractPromptNode(promptCfg model.AssistantPromptConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, plan model.TurnPlan) ([]*schema.Message, error) {
		systemPrompt, err := prompts.RenderExtractSystem(ctx, promptCfg, plan.HistoryContext)
		if err != nil {
			return nil, fmt.Errorf("render extract system prompt: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(plan.Message),
		}, nil
	})
}

// NewModelUsagePostHandler computes and logs usage cost for a chat model
// node and accumulates the running total in state.
func NewModelUsagePostHandler(modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			state.TotalCostUSD += logUsage(modelName, out.ResponseMeta.Usage)
		}
		return out, nil
	}
}

func logUsage(modelName string, usage *schema.TokenUsage) float64 {
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(usage, pricing)
	logx.Debug().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
	return totalC
}

// NewExtractParserNode converts extractor output into an ExtractedQuery.
// Malformed output is a defined degraded default, never an error.
func NewExtractParserNode(parser *parsers.QueryParser) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.ExtractedQuery, error) {
		if resp == nil {
			return model.ExtractedQuery{TimeFilter: model.TimeFilterAll}, nil
		}
		q := parser.Parse(resp.Content)
		logx.Debug().
			Str("query", q.Query).
			Str("location", q.Location).
			Str("time_filter", string(q.TimeFilter)).
			Msg("entities extracted")
		return q, nil
	})
}

// NewSearchNode executes the catalog search with the widening fallback.
func NewSearchNode(orc *search.Orchestrator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, q model.ExtractedQuery) ([]model.EventSummary, error) {
		return orc.Search(ctx, q)
	})
}

// NewEventsPostHandler snapshots the retrieved events into state. Attached
// to both the search and trending nodes so the synthesis tail and the
// persistence step see the same result set.
func NewEventsPostHandler() func(context.Context, []model.EventSummary, *model.TurnState) ([]model.EventSummary, error) {
	return func(ctx context.Context, out []model.EventSummary, s *model.TurnState) ([]model.EventSummary, error) {
		if out == nil {
			out = []model.EventSummary{}
		}
		s.Events = out
		return out, nil
	}
}

// NewSynthesizerNode drafts the reply, constrained to the retrieved facts.
// The completion call runs with a lower temperature on a user's very first
// turn to bias toward precision over creativity.
func NewSynthesizerNode(
	chatModel einomodel.BaseChatModel,
	modelName string,
	synthCfg model.SynthesisModelConfig,
	promptCfg model.AssistantPromptConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, events []model.EventSummary) (*schema.Message, error) {
		var (
			message        string
			historyContext string
			firstTurn      bool
		)
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			message = state.Message
			historyContext = state.HistoryContext
			firstTurn = state.FirstTurn
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		systemPrompt, err := prompts.RenderResponseSystem(ctx, promptCfg, events, historyContext)
		if err != nil {
			return nil, fmt.Errorf("render response system prompt: %w", err)
		}

		temperature := synthCfg.Temperature
		if firstTurn {
			temperature = synthCfg.FirstTurnTemperature
		}

		out, err := chatModel.Generate(ctx,
			[]*schema.Message{
				schema.SystemMessage(systemPrompt),
				schema.UserMessage(message),
			},
			einomodel.WithTemperature(temperature),
		)
		if err != nil {
			return nil, err
		}

		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			cost := logUsage(modelName, out.ResponseMeta.Usage)
			_ = compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
				state.TotalCostUSD += cost
				return nil
			})
		}
		return out, nil
	})
}

// NewGroundingGuardNode checks the drafted reply against the actual result
// set and overrides contradictions. Corrections are silent self-healing,
// logged but never surfaced as errors.
func NewGroundingGuardNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, draft *schema.Message) (*schema.Message, error) {
		var events []model.EventSummary
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			events = state.Events
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		content := ""
		if draft != nil {
			content = draft.Content
		}
		final, overridden := guard.Review(content, events)
		if overridden {
			logx.Warn().
				Int("events", len(events)).
				Str("draft", content).
				Msg("grounding guard overrode synthesis draft")
		}
		return schema.AssistantMessage(final, nil), nil
	})
}

// NewReplyPostHandler is the single persistence step every reply branch
// converges on. It attaches the result-set snapshot to the outgoing message
// and appends the turn for authenticated users; anonymous turns are served
// but not stored.
func NewReplyPostHandler(mm *conversations.Manager) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out == nil {
			return out, nil
		}
		events := state.Events
		if events == nil {
			events = []model.EventSummary{}
		}
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["events"] = events

		if state.UserID != "" {
			if err := mm.SaveTurn(ctx, state.UserID, state.Message, out.Content, events); err != nil {
				logx.Error().
					Err(err).
					Str("user_id", state.UserID).
					Msg("failed to persist conversation turn")
			}
		}

		if state.TotalCostUSD > 0 {
			logx.Debug().Float64("total_cost_usd", state.TotalCostUSD).Msg("turn cost")
		}
		return out, nil
	}
}
