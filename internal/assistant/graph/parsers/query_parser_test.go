package parsers

import (
	"strings"
	"testing"

	"github.com/evebot-core/server/internal/assistant/model"
)

func TestParseValidJSON(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	got := p.Parse(`{"query": "nhạc rock", "location": "Quận 1", "time_filter": "upcoming"}`)
	want := model.ExtractedQuery{Query: "nhạc rock", Location: "Quận 1", TimeFilter: model.TimeFilterUpcoming}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseFencedJSON(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	content := "```json\n{\"query\": \"workshop nhiếp ảnh\", \"location\": \"\", \"time_filter\": \"all\"}\n```"
	got := p.Parse(content)
	if got.Query != "workshop nhiếp ảnh" || got.TimeFilter != model.TimeFilterAll {
		t.Errorf("Parse = %+v", got)
	}
}

func TestParseProseWrappedJSON(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	content := `Đây là kết quả: {"query": "lễ hội", "location": "Đà Nẵng", "time_filter": "future"} mong là đúng.`
	got := p.Parse(content)
	if got.Query != "lễ hội" || got.Location != "Đà Nẵng" || got.TimeFilter != model.TimeFilterFuture {
		t.Errorf("Parse = %+v", got)
	}
}

func TestParseDegradedDefaults(t *testing.T) {
	p := NewQueryParser(DefaultConfig())
	degraded := model.ExtractedQuery{TimeFilter: model.TimeFilterAll}

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "  \n  "},
		{"no json object", "xin lỗi, mình không hiểu câu hỏi"},
		{"broken json", `{"query": "rock", "location":`},
		{"not an object payload", `{"query": ["a", "b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Parse(tt.content); got != degraded {
				t.Errorf("Parse(%q) = %+v, want degraded default", tt.content, got)
			}
		})
	}
}

func TestParseOversizedContent(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	content := strings.Repeat("x", maxContentLen+100)
	if got := p.Parse(content); got != (model.ExtractedQuery{TimeFilter: model.TimeFilterAll}) {
		t.Errorf("Parse oversized = %+v", got)
	}
}

func TestParseFiltersGenericQuery(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	// A generic-only query is noise and must be dropped; the location
	// survives so the search can still run on it.
	got := p.Parse(`{"query": "sự kiện", "location": "Hà Nội", "time_filter": "all"}`)
	if got.Query != "" {
		t.Errorf("generic query not filtered: %q", got.Query)
	}
	if got.Location != "Hà Nội" {
		t.Errorf("location lost: %q", got.Location)
	}

	// Case-insensitive match.
	got = p.Parse(`{"query": "Event", "location": "", "time_filter": "all"}`)
	if got.Query != "" {
		t.Errorf("generic query not filtered case-insensitively: %q", got.Query)
	}

	// A specific query containing a generic word is kept.
	got = p.Parse(`{"query": "sự kiện âm nhạc indie", "location": "", "time_filter": "all"}`)
	if got.Query != "sự kiện âm nhạc indie" {
		t.Errorf("specific query wrongly filtered: %q", got.Query)
	}
}

func TestParseNormalisesTimeFilter(t *testing.T) {
	p := NewQueryParser(DefaultConfig())

	tests := []struct {
		raw  string
		want model.TimeFilter
	}{
		{"upcoming", model.TimeFilterUpcoming},
		{"UPCOMING", model.TimeFilterUpcoming},
		{"past", model.TimeFilterPast},
		{"future", model.TimeFilterFuture},
		{"next week", model.TimeFilterAll},
		{"", model.TimeFilterAll},
	}

	for _, tt := range tests {
		got := p.Parse(`{"query": "rock", "location": "", "time_filter": "` + tt.raw + `"}`)
		if got.TimeFilter != tt.want {
			t.Errorf("time_filter %q = %q, want %q", tt.raw, got.TimeFilter, tt.want)
		}
	}
}
