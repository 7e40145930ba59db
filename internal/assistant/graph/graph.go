package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	errx "github.com/evebot-core/server/internal/core/error"
	logx "github.com/evebot-core/server/pkg/logger"

	"github.com/evebot-core/server/internal/assistant/graph/conversations"
	"github.com/evebot-core/server/internal/assistant/graph/guard"
	"github.com/evebot-core/server/internal/assistant/graph/intents"
	"github.com/evebot-core/server/internal/assistant/graph/nodes"
	"github.com/evebot-core/server/internal/assistant/graph/observers"
	"github.com/evebot-core/server/internal/assistant/graph/parsers"
	"github.com/evebot-core/server/internal/assistant/model"
	"github.com/evebot-core/server/internal/assistant/search"
)

// Runner executes one conversational turn end-to-end.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (model.TurnResult, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs
// ChatModels and the conversation Manager.
type Config struct {
	APIKey          string
	BaseURL         string
	ExtractModel    model.ExtractModelConfig
	SynthesisModel  model.SynthesisModelConfig
	Prompt          model.AssistantPromptConfig
	Conversation    model.ConversationConfig
	Store           model.ConversationStore
	Catalog         search.Catalog
	IntentRulesPath string
}

// GraphConfig holds all configuration needed to build the graph.
type GraphConfig struct {
	ChatModels   *nodes.ChatModels
	Manager      *conversations.Manager
	Classifier   *intents.Classifier
	Parser       *parsers.QueryParser
	Orchestrator *search.Orchestrator
	Synthesis    model.SynthesisModelConfig
	Prompt       model.AssistantPromptConfig
}

// GraphBuilder handles the construction of the assistant turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *schema.Message]
	manager  *conversations.Manager
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (model.TurnResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return model.TurnResult{}, errx.NewValidation("message must not be empty")
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		// Internal failures never reach the user as errors; the turn
		// degrades to a safe reply and is still recorded.
		logx.Error().Err(err).Str("user_id", in.UserID).Msg("turn failed, degrading reply")
		result := model.TurnResult{
			Response: guard.DegradedReply,
			Events:   []model.EventSummary{},
		}
		if in.UserID != "" {
			if saveErr := r.manager.SaveTurn(ctx, in.UserID, in.Message, result.Response, result.Events); saveErr != nil {
				logx.Error().Err(saveErr).Str("user_id", in.UserID).Msg("failed to persist degraded turn")
			}
		}
		return result, nil
	}
	if out == nil {
		return model.TurnResult{Response: guard.DegradedReply, Events: []model.EventSummary{}}, nil
	}

	result := model.TurnResult{
		Response: out.Content,
		Events:   []model.EventSummary{},
	}
	if evs, ok := out.Extra["events"].([]model.EventSummary); ok && evs != nil {
		result.Events = evs
	}
	return result, nil
}

// BuildTurnGraph composes ChatModels, the conversation Manager, and the
// intent rules, builds the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("conversation store is nil")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog client is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Extract:   &cfg.ExtractModel,
		Synthesis: &cfg.SynthesisModel,
	})
	if err != nil {
		return nil, err
	}

	rules, err := intents.LoadRules(cfg.IntentRulesPath)
	if err != nil {
		return nil, err
	}

	mm := conversations.NewManager(cfg.Store, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:   cms,
		Manager:      mm,
		Classifier:   intents.NewClassifier(rules),
		Parser:       parsers.NewQueryParser(parsers.DefaultConfig()),
		Orchestrator: search.NewOrchestrator(cfg.Catalog),
		Synthesis:    cfg.SynthesisModel,
		Prompt:       cfg.Prompt,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable, manager: mm}, nil
}

// BuildGraph constructs and returns the compiled turn graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Extract == nil || config.ChatModels.Synthesis == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Manager == nil {
		return nil, fmt.Errorf("conversation manager is nil")
	}
	if config.Classifier == nil || config.Parser == nil || config.Orchestrator == nil {
		return nil, fmt.Errorf("turn components are not properly initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph.
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(b.config.Classifier),
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeCannedReply,
		nodes.NewCannedReplyNode(),
		compose.WithStatePostHandler(nodes.NewReplyPostHandler(b.config.Manager)),
	)

	b.graph.AddLambdaNode(nodes.NodeTrending,
		nodes.NewTrendingNode(b.config.Orchestrator),
		compose.WithStatePostHandler(nodes.NewEventsPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeEnricher,
		nodes.NewEnricherNode(b.config.Manager),
		compose.WithStatePostHandler(nodes.NewEnricherPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractPrompt,
		nodes.NewExtractPromptNode(b.config.Prompt),
	)

	b.graph.AddChatModelNode(nodes.NodeExtractModel,
		b.config.ChatModels.Extract,
		compose.WithStatePostHandler(nodes.NewModelUsagePostHandler(b.config.ChatModels.ExtractModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractParser,
		nodes.NewExtractParserNode(b.config.Parser),
	)

	b.graph.AddLambdaNode(nodes.NodeSearch,
		nodes.NewSearchNode(b.config.Orchestrator),
		compose.WithStatePostHandler(nodes.NewEventsPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeSynthesizer,
		nodes.NewSynthesizerNode(
			b.config.ChatModels.Synthesis,
			b.config.ChatModels.SynthesisModelName,
			b.config.Synthesis,
			b.config.Prompt,
		),
	)

	b.graph.AddLambdaNode(nodes.NodeGroundingGuard,
		nodes.NewGroundingGuardNode(),
		compose.WithStatePostHandler(nodes.NewReplyPostHandler(b.config.Manager)),
	)
}

// addEdges creates the main flow connections between nodes.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{nodes.NodeCannedReply, compose.END},
		{nodes.NodeTrending, nodes.NodeSynthesizer},
		{nodes.NodeEnricher, nodes.NodeExtractPrompt},
		{nodes.NodeExtractPrompt, nodes.NodeExtractModel},
		{nodes.NodeExtractModel, nodes.NodeExtractParser},
		{nodes.NodeExtractParser, nodes.NodeSearch},
		{nodes.NodeSearch, nodes.NodeSynthesizer},
		{nodes.NodeSynthesizer, nodes.NodeGroundingGuard},
		{nodes.NodeGroundingGuard, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the intent routing branch.
func (b *GraphBuilder) addBranches() error {
	turnBranch := compose.NewGraphBranch(
		nodes.NewTurnBranchCondition(),
		map[string]bool{
			nodes.NodeCannedReply: true,
			nodes.NodeTrending:    true,
			nodes.NodeEnricher:    true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, turnBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding turn branch")
		return fmt.Errorf("error adding turn branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph.
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
