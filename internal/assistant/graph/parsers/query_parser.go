// Package parsers turns raw extractor-model output into an ExtractedQuery.
// Model output is untrusted text, so parsing never fails: anything that is
// not a usable JSON object degrades to the empty query, which makes the
// orchestrator skip the catalog entirely.
package parsers

import (
	"encoding/json"
	"strings"

	"github.com/evebot-core/server/internal/assistant/model"
	logx "github.com/evebot-core/server/pkg/logger"
)

// maxContentLen guards against pathological model output.
const maxContentLen = 16 * 1024

// Config tunes the parser. GenericTerms is the noise-word list: an extracted
// query that is itself just one of these terms carries no signal and must
// not be sent downstream as a false-precision filter.
type Config struct {
	GenericTerms []string
}

// DefaultConfig returns the built-in noise-word list.
func DefaultConfig() Config {
	return Config{
		GenericTerms: []string{
			"sự kiện", "event", "events", "show", "shows", "concert",
			"chương trình", "vé", "ticket", "tickets",
		},
	}
}

type QueryParser struct {
	generic map[string]struct{}
}

func NewQueryParser(cfg Config) *QueryParser {
	terms := cfg.GenericTerms
	if len(terms) == 0 {
		terms = DefaultConfig().GenericTerms
	}
	generic := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		generic[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &QueryParser{generic: generic}
}

// payload mirrors the JSON object the extraction prompt asks for.
type payload struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	TimeFilter string `json:"time_filter"`
}

// Parse extracts the query object from model output. Fenced or prose-wrapped
// JSON is tolerated by locating the outermost object; malformed content
// returns the degraded default instead of an error.
func (p *QueryParser) Parse(content string) model.ExtractedQuery {
	degraded := model.ExtractedQuery{TimeFilter: model.TimeFilterAll}

	content = strings.TrimSpace(content)
	if content == "" {
		return degraded
	}
	if len(content) > maxContentLen {
		logx.Warn().Int("orig_len", len(content)).Msg("extractor output truncated due to size limit")
		content = content[:maxContentLen]
	}

	raw, ok := extractObject(content)
	if !ok {
		logx.Warn().Str("snippet", snippet(content)).Msg("extractor output is not a JSON object, using degraded default")
		return degraded
	}

	var pl payload
	if err := json.Unmarshal([]byte(raw), &pl); err != nil {
		logx.Warn().Err(err).Str("snippet", snippet(raw)).Msg("extractor output failed to decode, using degraded default")
		return degraded
	}

	return model.ExtractedQuery{
		Query:      p.filterGeneric(strings.TrimSpace(pl.Query)),
		Location:   strings.TrimSpace(pl.Location),
		TimeFilter: model.ParseTimeFilter(pl.TimeFilter),
	}
}

// filterGeneric discards a query that is nothing but a noise word. An empty
// query with a location is still a meaningful search ("events in district X");
// a generic-only query is not discriminating.
func (p *QueryParser) filterGeneric(query string) string {
	if _, ok := p.generic[strings.ToLower(query)]; ok {
		logx.Debug().Str("query", query).Msg("discarding generic-only search query")
		return ""
	}
	return query
}

// extractObject returns the outermost {...} span, skipping markdown fences
// and surrounding prose the model may have added despite instructions.
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max]
}
