package conversations

import (
	"context"
	"strings"
	"time"

	"github.com/evebot-core/server/internal/assistant/model"
	logx "github.com/evebot-core/server/pkg/logger"
	"github.com/google/uuid"
)

// Manager is the glue between the turn graph and the conversation store:
// it folds recent history into extraction context and persists finished turns.
type Manager struct {
	store       model.ConversationStore
	enrichTurns int
}

func NewManager(store model.ConversationStore, config model.ConversationConfig) *Manager {
	enrichTurns := config.History.EnrichTurns
	if enrichTurns <= 0 {
		enrichTurns = 5
	}
	return &Manager{
		store:       store,
		enrichTurns: enrichTurns,
	}
}

// Enrich reads the user's recent turns and returns the advisory history
// block for the LLM-bound prompts, plus whether this is the user's first
// turn. Enrichment is advisory, so store failures are logged and swallowed
// rather than failing the turn; anonymous users get no history and count as
// first-turn.
func (m *Manager) Enrich(ctx context.Context, userID string) (historyContext string, firstTurn bool) {
	if userID == "" {
		return "", true
	}

	count, err := m.store.Count(ctx, userID)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("failed to count turns, treating as first turn")
		return "", true
	}
	firstTurn = count == 0
	if firstTurn {
		return "", true
	}

	turns, err := m.store.Recent(ctx, userID, m.enrichTurns)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("failed to load recent turns, skipping enrichment")
		return "", false
	}

	names := distinctEventNames(turns)
	if len(names) == 0 {
		return "", false
	}
	return buildHistoryContext(names), false
}

// SaveTurn assigns identity and timestamp and appends the turn. Anonymous
// turns are not persisted.
func (m *Manager) SaveTurn(ctx context.Context, userID, message, response string, events []model.EventSummary) error {
	if userID == "" {
		return nil
	}
	if events == nil {
		events = []model.EventSummary{}
	}
	return m.store.Append(ctx, model.ConversationTurn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Response:  response,
		Events:    events,
		CreatedAt: time.Now().UTC(),
	})
}

// Recent exposes bounded history reads for the display surface.
func (m *Manager) Recent(ctx context.Context, userID string, limit int) ([]model.ConversationTurn, error) {
	return m.store.Recent(ctx, userID, limit)
}

// distinctEventNames collects event names across recent turns, most recent
// first, preserving first-seen order.
func distinctEventNames(turns []model.ConversationTurn) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, turn := range turns {
		for _, ev := range turn.Events {
			name := strings.TrimSpace(ev.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// buildHistoryContext renders the advisory continuity block injected into
// the LLM-bound prompts. It is guidance, not a hard rule.
func buildHistoryContext(names []string) string {
	var b strings.Builder
	b.WriteString("<conversation_history>\n")
	b.WriteString("Các sự kiện đã nhắc tới trong cuộc trò chuyện gần đây: ")
	b.WriteString(strings.Join(names, "; "))
	b.WriteString(".\n")
	b.WriteString("Nếu tin nhắn hiện tại mơ hồ, hãy ưu tiên tiếp nối các chủ đề trên. ")
	b.WriteString("Nếu tin nhắn rõ ràng chuyển sang chủ đề khác, hãy theo chủ đề mới.\n")
	b.WriteString("</conversation_history>")
	return b.String()
}
