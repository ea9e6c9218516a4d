package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// Mailer delivers transactional email. Dispatch is an external collaborator;
// the interface stays narrow so tests can stub it out.
type Mailer interface {
	SendVerificationEmail(name, to, code string) error
	SendPasswordResetEmail(name, to, code string) error
	SendRewardApprovedEmail(name, to, rewardName string, codes []string) error
}

type MailService struct {
	host   string
	addr   string
	sender string
	auth   smtp.Auth
}

func NewMailService() *MailService {
	cfg := infrastructures.Config
	return &MailService{
		host:   cfg.SMTP_HOST,
		addr:   cfg.SMTP_HOST + ":" + cfg.SMTP_PORT,
		sender: cfg.SMTP_SENDER,
		auth:   smtp.PlainAuth("", cfg.SMTP_SENDER, cfg.SMTP_PASSWORD, cfg.SMTP_HOST),
	}
}

func (s *MailService) SendVerificationEmail(name, to, code string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour Money Kaki verification code is %s.\r\nIf you did not request this, please ignore this email.\r\n",
		name, code,
	)
	return s.send(to, "Your Verification Code", body)
}

func (s *MailService) SendPasswordResetEmail(name, to, code string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour Money Kaki password reset code is %s.\r\nIf you did not request this, please ignore this email.\r\n",
		name, code,
	)
	return s.send(to, "Your Password Reset Code", body)
}

func (s *MailService) SendRewardApprovedEmail(name, to, rewardName string, codes []string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour reward \"%s\" has been approved by your advisor.\r\nYour code(s): %s\r\n",
		name, rewardName, strings.Join(codes, ", "),
	)
	return s.send(to, "Your Reward Has Been Approved", body)
}

func (s *MailService) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.sender, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.sender, []string{to}, []byte(msg)); err != nil {
		logrus.Errorf("failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}
