package intents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evebot-core/server/internal/assistant/model"
)

func TestClassify(t *testing.T) {
	cls := NewClassifier(DefaultRules())

	tests := []struct {
		name    string
		message string
		want    model.Intent
	}{
		{"greeting phrase", "chào bạn", model.IntentSmallTalk},
		{"english greeting", "hello", model.IntentSmallTalk},
		{"thanks", "cảm ơn nhiều nha", model.IntentSmallTalk},
		{"short hint", "alo", model.IntentSmallTalk},
		{"short confirmation", "vậy phải không?", model.IntentSmallTalk},

		{"ticket purchase question", "mua vé như thế nào", model.IntentFAQTicket},
		{"ticket before payment overlap", "mua vé rồi thanh toán ra sao", model.IntentFAQTicket},
		{"payment question", "thanh toán qua momo như thế nào", model.IntentFAQPayment},
		{"refund question", "mình muốn hoàn tiền", model.IntentFAQPayment},
		{"account question", "quên mật khẩu thì làm sao", model.IntentFAQAccount},

		{"event search", "có concert nào ở Hà Nội cuối tuần này không", model.IntentEventSearch},
		{"direct greeting wins over event words", "chào buổi tối, tìm sự kiện nhạc rock giúp mình", model.IntentSmallTalk},
		{"suggestion", "gợi ý sự kiện nổi bật đi", model.IntentSuggestion},
		{"trending", "sự kiện nào đang trending vậy", model.IntentSuggestion},
		{"suggestion words without event words", "có gì hay ho không", model.IntentGeneral},

		{"empty", "", model.IntentGeneral},
		{"whitespace only", "   ", model.IntentGeneral},
		{"unmatched", "thời tiết hôm nay thế nào", model.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cls.Classify(tt.message)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	cls := NewClassifier(DefaultRules())
	msg := "có workshop nhiếp ảnh nào sắp tới không"

	first := cls.Classify(msg)
	for i := 0; i < 10; i++ {
		if got := cls.Classify(msg); got != first {
			t.Fatalf("run %d: Classify(%q) = %q, want %q", i, msg, got, first)
		}
	}
}

func TestClassifySearchWorthyBlocksSmallTalkHints(t *testing.T) {
	cls := NewClassifier(DefaultRules())

	// "hi" is a small-talk hint but the message carries an event keyword,
	// so the hint layer must not swallow it.
	got := cls.Classify("hi concert nào")
	if got != model.IntentEventSearch {
		t.Errorf("Classify = %q, want %q", got, model.IntentEventSearch)
	}
}

func TestCannedReplyCoversFAQIntents(t *testing.T) {
	for _, intent := range []model.Intent{
		model.IntentSmallTalk,
		model.IntentFAQTicket,
		model.IntentFAQPayment,
		model.IntentFAQAccount,
	} {
		reply, ok := CannedReply(intent)
		if !ok || reply == "" {
			t.Errorf("CannedReply(%q) missing script", intent)
		}
	}
	if _, ok := CannedReply(model.IntentEventSearch); ok {
		t.Error("event search must not have a canned script")
	}
}

func TestLoadRulesMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.yaml")
	content := []byte("event:\n  - \"hòa nhạc\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.Event) != 1 || rules.Event[0] != "hòa nhạc" {
		t.Errorf("Event table not overridden: %v", rules.Event)
	}
	// Untouched layers keep defaults.
	if len(rules.SmallTalk) == 0 {
		t.Error("SmallTalk defaults lost on merge")
	}
}

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.Event) == 0 {
		t.Error("expected default rules")
	}
}
