package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evebot-core/server/internal/assistant/model"
)

type fakeCatalog struct {
	searchFn   func(f Filter) ([]model.EventSummary, error)
	trendingFn func() ([]model.EventSummary, error)
	calls      []Filter
}

func (f *fakeCatalog) Search(ctx context.Context, filter Filter) ([]model.EventSummary, error) {
	f.calls = append(f.calls, filter)
	return f.searchFn(filter)
}

func (f *fakeCatalog) Trending(ctx context.Context) ([]model.EventSummary, error) {
	return f.trendingFn()
}

func events(names ...string) []model.EventSummary {
	out := make([]model.EventSummary, 0, len(names))
	for _, n := range names {
		out = append(out, model.EventSummary{ID: n, Name: n})
	}
	return out
}

func TestSearchSkipsEmptyQuery(t *testing.T) {
	cat := &fakeCatalog{
		searchFn: func(Filter) ([]model.EventSummary, error) {
			t.Fatal("catalog must not be called for an empty query")
			return nil, nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Search(context.Background(), model.ExtractedQuery{TimeFilter: model.TimeFilterAll})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, cat.calls, 0)
}

func TestSearchSingleCallWhenResultsFound(t *testing.T) {
	cat := &fakeCatalog{
		searchFn: func(Filter) ([]model.EventSummary, error) {
			return events("Rock Fest"), nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Search(context.Background(), model.ExtractedQuery{
		Query:      "rock",
		TimeFilter: model.TimeFilterUpcoming,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, cat.calls, 1)
	assert.Equal(t, model.TimeFilterUpcoming, cat.calls[0].TimeFilter)
}

func TestSearchWidensEmptyTimeFilteredResult(t *testing.T) {
	cat := &fakeCatalog{
		searchFn: func(f Filter) ([]model.EventSummary, error) {
			if f.TimeFilter == model.TimeFilterUpcoming {
				return []model.EventSummary{}, nil
			}
			return events("Đêm nhạc Trịnh", "Indie Night"), nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Search(context.Background(), model.ExtractedQuery{
		Query:      "nhạc",
		Location:   "Hà Nội",
		TimeFilter: model.TimeFilterUpcoming,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Exactly two calls: the filtered one, then the widened one with the
	// same query and location but no time filter.
	require.Len(t, cat.calls, 2)
	assert.Equal(t, model.TimeFilterUpcoming, cat.calls[0].TimeFilter)
	assert.Equal(t, model.TimeFilter(""), cat.calls[1].TimeFilter)
	assert.Equal(t, cat.calls[0].Query, cat.calls[1].Query)
	assert.Equal(t, cat.calls[0].Location, cat.calls[1].Location)
}

func TestSearchNoWideningWithoutTimeFilter(t *testing.T) {
	cat := &fakeCatalog{
		searchFn: func(Filter) ([]model.EventSummary, error) {
			return []model.EventSummary{}, nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Search(context.Background(), model.ExtractedQuery{Query: "opera"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, cat.calls, 1)
}

func TestSearchEmptyAfterWidening(t *testing.T) {
	cat := &fakeCatalog{
		searchFn: func(Filter) ([]model.EventSummary, error) {
			return []model.EventSummary{}, nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Search(context.Background(), model.ExtractedQuery{
		Query:      "opera",
		TimeFilter: model.TimeFilterPast,
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, cat.calls, 2)
}

func TestSearchPropagatesErrors(t *testing.T) {
	boom := errors.New("catalog down")
	cat := &fakeCatalog{
		searchFn: func(Filter) ([]model.EventSummary, error) {
			return nil, boom
		},
	}
	orc := NewOrchestrator(cat)

	_, err := orc.Search(context.Background(), model.ExtractedQuery{Query: "rock"})
	assert.ErrorIs(t, err, boom)
}

func TestSearchPropagatesWideningErrors(t *testing.T) {
	boom := errors.New("catalog down")
	cat := &fakeCatalog{
		searchFn: func(f Filter) ([]model.EventSummary, error) {
			if f.TimeFilter != "" {
				return []model.EventSummary{}, nil
			}
			return nil, boom
		},
	}
	orc := NewOrchestrator(cat)

	_, err := orc.Search(context.Background(), model.ExtractedQuery{
		Query:      "rock",
		TimeFilter: model.TimeFilterUpcoming,
	})
	assert.ErrorIs(t, err, boom)
}

func TestTrendingPassthrough(t *testing.T) {
	cat := &fakeCatalog{
		trendingFn: func() ([]model.EventSummary, error) {
			return events("Hot Show"), nil
		},
	}
	orc := NewOrchestrator(cat)

	got, err := orc.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Hot Show", got[0].Name)
}
