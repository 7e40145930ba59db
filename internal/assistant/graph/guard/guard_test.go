package guard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evebot-core/server/internal/assistant/model"
)

func sample(names ...string) []model.EventSummary {
	out := make([]model.EventSummary, 0, len(names))
	for _, n := range names {
		out = append(out, model.EventSummary{ID: n, Name: n})
	}
	return out
}

func TestReviewEmptyResultSet(t *testing.T) {
	tests := []struct {
		name           string
		draft          string
		wantOverridden bool
	}{
		{"honest not-found draft kept", "Xin lỗi, mình không tìm thấy sự kiện nào phù hợp.", false},
		{"english marker kept", "Sorry, no events matched your request.", false},
		{"invented content replaced", "Có 3 sự kiện tuyệt vời cuối tuần này!", true},
		{"empty draft replaced", "", true},
		{"vague draft replaced", "Bạn thử hỏi lại xem sao.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, overridden := Review(tt.draft, nil)
			assert.Equal(t, tt.wantOverridden, overridden)
			if overridden {
				assert.Equal(t, NotFoundReply, got)
			} else {
				assert.Equal(t, strings.TrimSpace(tt.draft), got)
			}
			// The empty-set law: the final reply always carries a
			// negative-result phrase.
			assert.True(t, containsNotFound(got))
		})
	}
}

func TestReviewNonEmptyResultSet(t *testing.T) {
	events := sample("Rock Fest", "Indie Night")

	t.Run("grounded draft kept verbatim", func(t *testing.T) {
		draft := "Mình tìm được 2 sự kiện cho bạn: Rock Fest và Indie Night."
		got, overridden := Review(draft, events)
		assert.False(t, overridden)
		assert.Equal(t, draft, got)
	})

	t.Run("false not-found claim replaced", func(t *testing.T) {
		got, overridden := Review("Xin lỗi, mình không tìm thấy sự kiện nào.", events)
		assert.True(t, overridden)
		assert.Equal(t, FoundReply(events), got)
		assert.False(t, containsNotFound(got))
	})

	t.Run("empty draft replaced", func(t *testing.T) {
		got, overridden := Review("", events)
		assert.True(t, overridden)
		assert.Contains(t, got, "Rock Fest")
		assert.Contains(t, got, "Indie Night")
	})
}

func TestFoundReplyEnumeratesAllEvents(t *testing.T) {
	events := sample("A", "B", "C")
	got := FoundReply(events)

	assert.Contains(t, got, "3 sự kiện")
	for _, ev := range events {
		assert.Contains(t, got, ev.Name)
	}
	// Non-empty-set law: the deterministic reply never reads as not-found.
	assert.False(t, containsNotFound(got))
}

func TestContainsNotFoundIsCaseInsensitive(t *testing.T) {
	assert.True(t, containsNotFound("KHÔNG TÌM THẤY sự kiện"))
	assert.True(t, containsNotFound("No Results here"))
	assert.False(t, containsNotFound("tìm thấy 2 sự kiện"))
}
