package model

// TurnState stores per-invocation state for the turn graph.
// Concurrency model:
//   - Registered as graph local state via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which Eino serializes, so no extra mutex is required.
//   - Do not touch TurnState outside handlers; persistence goes through the
//     conversations manager.
type TurnState struct {
	UserID         string
	Message        string
	Intent         Intent
	HistoryContext string
	FirstTurn      bool
	Events         []EventSummary // set once the catalog responded

	// Accumulated total LLM cost (USD) across model invocations for this turn.
	TotalCostUSD float64
}
