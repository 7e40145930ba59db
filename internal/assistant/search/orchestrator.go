package search

import (
	"context"

	"github.com/evebot-core/server/internal/assistant/model"
	logx "github.com/evebot-core/server/pkg/logger"
)

// Orchestrator turns an extracted query into catalog calls. Time-window
// filtering is the most common cause of an otherwise-findable event missing
// from the results, so an empty time-filtered search is retried once across
// all time before reporting nothing.
type Orchestrator struct {
	catalog Catalog
}

func NewOrchestrator(catalog Catalog) *Orchestrator {
	return &Orchestrator{catalog: catalog}
}

// Search executes the extracted query. A query with no usable criteria
// returns empty without touching the catalog. Results keep catalog order.
func (o *Orchestrator) Search(ctx context.Context, q model.ExtractedQuery) ([]model.EventSummary, error) {
	if q.IsEmpty() {
		logx.Debug().Msg("nothing to search on, skipping catalog call")
		return []model.EventSummary{}, nil
	}

	events, err := o.catalog.Search(ctx, Filter{
		Query:      q.Query,
		Location:   q.Location,
		TimeFilter: q.TimeFilter,
	})
	if err != nil {
		return nil, err
	}
	if len(events) > 0 || q.TimeFilter == model.TimeFilterAll || q.TimeFilter == "" {
		return events, nil
	}

	// Widening fallback: same query/location across all time.
	logx.Debug().
		Str("query", q.Query).
		Str("location", q.Location).
		Str("time_filter", string(q.TimeFilter)).
		Msg("time-filtered search empty, widening to all time")

	widened, err := o.catalog.Search(ctx, Filter{
		Query:    q.Query,
		Location: q.Location,
	})
	if err != nil {
		return nil, err
	}
	if len(widened) > 0 {
		return widened, nil
	}
	return []model.EventSummary{}, nil
}

// Trending surfaces the catalog's trending events for suggestion turns.
func (o *Orchestrator) Trending(ctx context.Context) ([]model.EventSummary, error) {
	return o.catalog.Trending(ctx)
}
