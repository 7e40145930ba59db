package model

import "strings"

// Intent is the per-turn classification that decides the execution path.
// Exactly one intent is assigned per turn; it is never exposed to the user.
type Intent string

const (
	IntentSmallTalk   Intent = "small_talk"
	IntentFAQTicket   Intent = "faq_ticket"
	IntentFAQPayment  Intent = "faq_payment"
	IntentFAQAccount  Intent = "faq_account"
	IntentSuggestion  Intent = "suggestion"
	IntentEventSearch Intent = "event_search"
	IntentGeneral     Intent = "general"
)

// IsFAQ reports whether the intent resolves to a canned FAQ script.
func (i Intent) IsFAQ() bool {
	return i == IntentFAQTicket || i == IntentFAQPayment || i == IntentFAQAccount
}

// TimeFilter narrows a catalog search to a time window.
type TimeFilter string

const (
	TimeFilterAll      TimeFilter = "all"
	TimeFilterUpcoming TimeFilter = "upcoming"
	TimeFilterFuture   TimeFilter = "future"
	TimeFilterPast     TimeFilter = "past"
)

// ParseTimeFilter normalises extractor output; unknown values mean "all".
func ParseTimeFilter(v string) TimeFilter {
	switch TimeFilter(strings.ToLower(strings.TrimSpace(v))) {
	case TimeFilterUpcoming:
		return TimeFilterUpcoming
	case TimeFilterFuture:
		return TimeFilterFuture
	case TimeFilterPast:
		return TimeFilterPast
	default:
		return TimeFilterAll
	}
}

// ExtractedQuery is the transient result of entity extraction. It is never
// persisted; the search orchestrator consumes it immediately.
type ExtractedQuery struct {
	Query      string     `json:"query"`
	Location   string     `json:"location"`
	TimeFilter TimeFilter `json:"time_filter"`
}

// IsEmpty reports whether there is nothing meaningful to search on.
func (q ExtractedQuery) IsEmpty() bool {
	return q.Query == "" && q.Location == "" && (q.TimeFilter == "" || q.TimeFilter == TimeFilterAll)
}

// TurnInput is the inbound surface of the core. UserID is optional;
// anonymous turns are handled but not persisted.
type TurnInput struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// TurnResult is what the caller receives for one turn.
type TurnResult struct {
	Response string         `json:"response"`
	Events   []EventSummary `json:"events"`
}

// TurnPlan is the classifier output that the branch routes on.
type TurnPlan struct {
	UserID         string
	Message        string
	Intent         Intent
	HistoryContext string
	FirstTurn      bool
}
