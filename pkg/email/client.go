package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/techforgyms/techforgyms_backend/config"
)

const kindHeader = "X-TFG-Kind"

// Sender is what services depend on; *Client implements it.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Client struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	c := &Client{cfg: cfg}
	if !cfg.Enabled {
		return c, nil
	}
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		return nil, fmt.Errorf("%w: smtp host is required when email is enabled", ErrInvalidMessage)
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("%w: from address is required when email is enabled", ErrInvalidMessage)
	}

	c.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	c.dialer.SSL = cfg.SMTP.ImplicitTLS
	c.dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTP.Host, MinVersion: tls.VersionTLS12}
	return c, nil
}

func (c *Client) Enabled() bool { return c.cfg.Enabled }

// Send delivers m, giving up at the SMTP timeout or when ctx ends, whichever
// comes first. An abandoned dial finishes in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	msg, err := buildMessage(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTP.Timeout)
	defer cancel()

	started := time.Now()
	done := make(chan error, 1)
	go func() { done <- c.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %s to %s: %v", ErrDelivery, m.Kind, m.To, err)
		}
		slog.DebugContext(ctx, "email sent", "kind", m.Kind, "elapsed", time.Since(started))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s to %s: %v", ErrDelivery, m.Kind, m.To, ctx.Err())
	}
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	to := strings.TrimSpace(m.To)
	subject := strings.TrimSpace(m.Subject)
	switch {
	case from == "":
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	case to == "":
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	case subject == "":
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.HTML) == "":
		return nil, fmt.Errorf("%w: a text or html body is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	if m.Kind != "" {
		msg.SetHeader(kindHeader, string(m.Kind))
	}

	if m.Text != "" {
		msg.SetBody("text/plain", m.Text)
		if m.HTML != "" {
			msg.AddAlternative("text/html", m.HTML)
		}
	} else {
		msg.SetBody("text/html", m.HTML)
	}
	return msg, nil
}
