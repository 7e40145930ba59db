package intents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the keyword tables the classifier matches against, in the
// order the layers apply them. Keeping them as data instead of control flow
// lets the sets be tested and extended without touching classification logic.
type Rules struct {
	// SmallTalk phrases match anywhere in the message.
	SmallTalk []string `yaml:"small_talk"`
	// SmallTalkHints only count for messages under four words.
	SmallTalkHints []string `yaml:"small_talk_hints"`
	// YesNo marks short confirmation-style questions.
	YesNo []string `yaml:"yes_no"`

	// FAQ sets, checked ticket before payment before account because
	// ticket-purchase phrasing overlaps with payment terms.
	TicketFAQ  []string `yaml:"ticket_faq"`
	PaymentFAQ []string `yaml:"payment_faq"`
	AccountFAQ []string `yaml:"account_faq"`

	// Event marks search-worthy messages; Suggestion reclassifies them.
	Event      []string `yaml:"event"`
	Suggestion []string `yaml:"suggestion"`
}

// DefaultRules returns the built-in Vietnamese/English keyword tables.
func DefaultRules() Rules {
	return Rules{
		SmallTalk: []string{
			"xin chào", "chào bạn", "chào buổi", "hello", "hi there",
			"bạn là ai", "bạn tên gì", "who are you",
			"cảm ơn", "cám ơn", "thank you", "thanks",
			"tạm biệt", "goodbye", "bye bye",
		},
		SmallTalkHints: []string{
			"chào", "hi", "hey", "alo", "ok", "oke", "vâng", "ừ", "dạ",
		},
		YesNo: []string{
			"phải không", "đúng không", "có không", "được không", "à?",
		},
		TicketFAQ: []string{
			"mua vé", "đặt vé", "cách mua", "mua ở đâu", "lấy vé",
			"vé điện tử", "soát vé", "how to buy",
		},
		PaymentFAQ: []string{
			"thanh toán", "trả tiền", "chuyển khoản", "momo", "zalopay", "vnpay",
			"hoàn tiền", "refund", "payment",
		},
		AccountFAQ: []string{
			"tài khoản", "đăng ký", "đăng nhập", "mật khẩu", "quên mật khẩu",
			"đổi email", "account", "password",
		},
		Event: []string{
			"sự kiện", "event", "concert", "liveshow", "nhạc", "ca nhạc",
			"hội thảo", "workshop", "lễ hội", "festival", "triển lãm",
			"vở kịch", "kịch", "đêm nhạc", "show", "tìm", "diễn ra", "sắp tới",
		},
		Suggestion: []string{
			"gợi ý", "đề xuất", "recommend", "nổi bật", "trending",
			"thịnh hành", "phổ biến", "hot nhất", "đáng chú ý",
		},
	}
}

// LoadRules reads a YAML override file on top of the defaults. An empty
// path means no override; empty lists in the file keep the built-in table
// for that layer.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read intent rules: %w", err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return rules, fmt.Errorf("parse intent rules: %w", err)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&rules.SmallTalk, override.SmallTalk)
	merge(&rules.SmallTalkHints, override.SmallTalkHints)
	merge(&rules.YesNo, override.YesNo)
	merge(&rules.TicketFAQ, override.TicketFAQ)
	merge(&rules.PaymentFAQ, override.PaymentFAQ)
	merge(&rules.AccountFAQ, override.AccountFAQ)
	merge(&rules.Event, override.Event)
	merge(&rules.Suggestion, override.Suggestion)

	return rules, nil
}
