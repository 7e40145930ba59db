// Package guard is the post-hoc safety net over the response model. The
// model is not trusted to self-report absence or presence of results, so the
// drafted text is checked against the actual result set and overridden with
// deterministic content when the two contradict.
package guard

import (
	"strconv"
	"strings"

	"github.com/evebot-core/server/internal/assistant/graph/prompts"
	"github.com/evebot-core/server/internal/assistant/model"
)

// NotFoundReply is the fixed reply used whenever the result set is empty and
// the draft cannot be trusted.
const NotFoundReply = "Xin lỗi, mình không tìm thấy sự kiện nào phù hợp với yêu cầu của bạn. " +
	"Bạn thử đổi từ khóa hoặc khu vực khác xem sao nhé."

// DegradedReply is returned when a dependency failed mid-turn.
const DegradedReply = "Xin lỗi, hệ thống đang gặp chút trục trặc. Bạn vui lòng thử lại sau ít phút nhé."

// notFoundPhrases are the recognised negative-result markers. A reply about
// an empty result set must contain one of these; a reply about a non-empty
// result set must contain none.
var notFoundPhrases = []string{
	"không tìm thấy",
	"chưa tìm thấy",
	"không có sự kiện",
	"chưa có sự kiện",
	"not found",
	"no events",
	"no results",
	"nothing matching",
}

// Review checks the drafted reply against the retrieved events and returns
// the text to send, plus whether the draft was overridden.
//
// Empty result set: the reply must carry a negative-result phrase; a draft
// that drifts into invented content (or says nothing recognisable) is
// replaced by the fixed not-found reply.
//
// Non-empty result set: a draft claiming "not found" despite real data is a
// synthesis defect, replaced by the deterministic enumeration of the actual
// events. Otherwise the draft is used verbatim.
func Review(draft string, events []model.EventSummary) (string, bool) {
	draft = strings.TrimSpace(draft)

	if len(events) == 0 {
		if draft == "" || !containsNotFound(draft) {
			return NotFoundReply, true
		}
		return draft, false
	}

	if draft == "" || containsNotFound(draft) {
		return FoundReply(events), true
	}
	return draft, false
}

// FoundReply renders the deterministic enumeration of the actual result set,
// in the same format the synthesis prompt uses.
func FoundReply(events []model.EventSummary) string {
	var b strings.Builder
	b.WriteString("Mình tìm được ")
	b.WriteString(countLabel(len(events)))
	b.WriteString(" phù hợp với yêu cầu của bạn:\n")
	b.WriteString(prompts.FormatEventList(events))
	return b.String()
}

func countLabel(n int) string {
	return strconv.Itoa(n) + " sự kiện"
}

func containsNotFound(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
