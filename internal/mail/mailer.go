package mail

import (
	"fmt"
	"net/smtp"

	"myshop/internal/config"

	"go.uber.org/zap"
)

// 送信はfire-and-forget。失敗しても呼び出し側にはエラーを返さず、
// 本文ごとログに残す（リセット/問い合わせのフローは送信済みとして進む）。
type Mailer interface {
	Send(subject string, to string, body string) error
}

type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// DI
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(subject string, to string, body string) error {
	// MAIL_SERVER未設定ならコンソールへ（開発用）
	if m.cfg.Host == "" {
		m.logger.Info("email (console)",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body),
		)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		// 配送失敗はログに本文ごと残して飲み込む
		m.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body),
			zap.Error(err),
		)
	}
	return nil
}
