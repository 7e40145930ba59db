package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EventLocation is the display-safe venue projection attached to an event.
type EventLocation struct {
	VenueName string `json:"venue_name"`
	District  string `json:"district"`
	Province  string `json:"province"`
}

// EventSummary is a denormalized snapshot of a catalog event. It is attached
// to a ConversationTurn at write time and may drift from the live catalog
// afterward; that is accepted.
type EventSummary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Background    string        `json:"background"`
	Location      EventLocation `json:"location"`
	StartTime     time.Time     `json:"start_time"`
	OrganizerName string        `json:"organizer_name"`
	Status        string        `json:"status"`
}

// DisplayLine renders the one-line form used both inside synthesis prompts
// and in the deterministic enumeration the grounding guard falls back to.
func (e EventSummary) DisplayLine() string {
	parts := make([]string, 0, 3)
	loc := strings.TrimSpace(strings.Join(nonEmpty(e.Location.VenueName, e.Location.District, e.Location.Province), ", "))
	if loc != "" {
		parts = append(parts, loc)
	}
	if !e.StartTime.IsZero() {
		parts = append(parts, e.StartTime.Format("15:04 02/01/2006"))
	}
	if e.OrganizerName != "" {
		parts = append(parts, e.OrganizerName)
	}
	if len(parts) == 0 {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, strings.Join(parts, " - "))
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// ConversationTurn is one exchange: the user message, the synthesized reply
// and the events surfaced with it. Turns are created exactly once after
// synthesis completes and are never mutated.
type ConversationTurn struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Response  string         `json:"response"`
	Events    []EventSummary `json:"events"`
	CreatedAt time.Time      `json:"created_at"`
}

// ConversationStore owns persisted turns. The core only appends and reads
// by user, most-recent-first, bounded.
type ConversationStore interface {
	// Append persists a completed turn.
	Append(ctx context.Context, turn ConversationTurn) error

	// Recent returns up to limit turns for the user, most recent first.
	Recent(ctx context.Context, userID string, limit int) ([]ConversationTurn, error)

	// Count returns the number of persisted turns for the user.
	Count(ctx context.Context, userID string) (int, error)
}
