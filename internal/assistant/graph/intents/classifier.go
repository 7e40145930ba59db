// Package intents classifies raw user messages into execution paths with
// layered keyword heuristics. Classification must stay cheap and local so a
// fixed FAQ script never costs an LLM round trip.
package intents

import (
	"strings"

	"github.com/evebot-core/server/internal/assistant/model"
)

// Classifier is a pure function of the input string over its Rules.
type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps a message to exactly one intent. It is deterministic, never
// errors, and maps empty or unmatched input to the general intent.
//
// Layer order, first match wins: small talk, FAQ (ticket > payment >
// account), event search (reclassified to suggestion when suggestion
// keywords appear), general. The small-talk layer is intentionally
// permissive: a false positive only costs a friendlier-than-needed reply,
// a false negative leaks small talk into the search/LLM path.
func (c *Classifier) Classify(message string) model.Intent {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return model.IntentGeneral
	}

	searchWorthy := containsAny(m, c.rules.Event)

	if containsAny(m, c.rules.SmallTalk) {
		return model.IntentSmallTalk
	}
	words := len(strings.Fields(m))
	if words < 4 && !searchWorthy && containsAny(m, c.rules.SmallTalkHints) {
		return model.IntentSmallTalk
	}
	if words <= 6 && !searchWorthy && containsAny(m, c.rules.YesNo) {
		return model.IntentSmallTalk
	}

	switch {
	case containsAny(m, c.rules.TicketFAQ):
		return model.IntentFAQTicket
	case containsAny(m, c.rules.PaymentFAQ):
		return model.IntentFAQPayment
	case containsAny(m, c.rules.AccountFAQ):
		return model.IntentFAQAccount
	}

	if searchWorthy {
		if containsAny(m, c.rules.Suggestion) {
			return model.IntentSuggestion
		}
		return model.IntentEventSearch
	}

	return model.IntentGeneral
}

func containsAny(m string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(m, p) {
			return true
		}
	}
	return false
}
