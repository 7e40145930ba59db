package intents

import "github.com/evebot-core/server/internal/assistant/model"

// cannedReplies are the fixed scripts for intents that never reach the
// completion service.
var cannedReplies = map[model.Intent]string{
	model.IntentSmallTalk: "Chào bạn! Mình là trợ lý của Eventure, mình có thể giúp bạn tìm sự kiện, " +
		"gợi ý chương trình nổi bật hoặc giải đáp thắc mắc về vé. Bạn cần gì nào?",
	model.IntentFAQTicket: "Để mua vé, bạn mở trang sự kiện muốn tham gia, chọn hạng vé và số lượng rồi bấm " +
		"\"Mua vé\". Sau khi thanh toán thành công, vé điện tử sẽ được gửi về email và mục \"Vé của tôi\" " +
		"trong tài khoản của bạn.",
	model.IntentFAQPayment: "Eventure hỗ trợ thanh toán qua Momo, ZaloPay, VNPay và chuyển khoản ngân hàng. " +
		"Nếu giao dịch đã trừ tiền mà vé chưa về, bạn đợi tối đa 15 phút hoặc liên hệ hỗ trợ để được hoàn tiền nhé.",
	model.IntentFAQAccount: "Bạn có thể đăng ký tài khoản bằng email hoặc số điện thoại. Nếu quên mật khẩu, " +
		"hãy dùng chức năng \"Quên mật khẩu\" ở màn hình đăng nhập để nhận liên kết đặt lại qua email.",
}

// CannedReply returns the fixed script for the intent, when one exists.
func CannedReply(intent model.Intent) (string, bool) {
	reply, ok := cannedReplies[intent]
	return reply, ok
}
