package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"github.com/xela07ax/slaguard-prototype/internal/infra"
)

// SMTPNotifier доставляет алерт почтой.
// net/smtp не умеет контекст, поэтому дедлайн попытки обеспечивает
// обертка надежности уровнем выше.
type SMTPNotifier struct {
	cfg infra.SMTPConfig
}

func NewSMTPNotifier(cfg infra.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Deliver(_ context.Context, evt domain.AlertEvent, order domain.Order) error {
	if n.cfg.Host == "" || n.cfg.To == "" {
		return fmt.Errorf("smtp: notifier is not configured")
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + n.cfg.To,
		"Subject: " + renderSubject(evt, order),
		"",
		renderBody(evt, order),
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp: failed to send alert mail: %w", err)
	}
	return nil
}
