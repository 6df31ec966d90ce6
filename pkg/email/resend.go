package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	log      *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:     os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName: os.Getenv("EMAIL_FROM_NAME"),
		log:      log,
	}
}

func (s *EmailService) SendWelcomeEmail(to, name string) error {
	html := fmt.Sprintf(
		"<h2>Chào mừng %s!</h2><p>Tài khoản của bạn đã sẵn sàng. Đăng tin đầu tiên ngay hôm nay.</p>",
		name,
	)

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Chào mừng bạn đến với chợ đồ cũ",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.log.Warn("failed to send welcome email", zap.String("to", to), zap.Error(err))
		return err
	}

	s.log.Info("welcome email sent", zap.String("to", to), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) SendDepositApprovedEmail(to, name, amount string) error {
	html := fmt.Sprintf(
		"<p>Xin chào %s,</p><p>Khoản nạp %s đã được duyệt và cộng vào số dư của bạn.</p>",
		name, amount,
	)

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Nạp tiền thành công",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.log.Warn("failed to send deposit email", zap.String("to", to), zap.Error(err))
		return err
	}

	s.log.Info("deposit email sent", zap.String("to", to), zap.String("id", resp.Id))
	return nil
}
