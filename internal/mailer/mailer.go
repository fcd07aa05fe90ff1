package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/rtodev/sim-admin/internal/config"
)

// Client sends plain-text token emails over SMTP. It satisfies
// account.Dispatcher.
type Client struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Send(to, subject, body string) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	from := c.cfg.FromAddress
	if from == "" {
		from = c.cfg.Username
	}
	if from == "" {
		return fmt.Errorf("smtp from address is not configured")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	msg := buildMessage(formatFrom(c.cfg.FromName, from), to, subject, body)

	if c.cfg.Username == "" && c.cfg.Password == "" {
		return smtp.SendMail(addr, nil, from, []string{to}, []byte(msg))
	}

	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)

	if c.cfg.Port == 465 {
		return c.sendSMTPTLS(addr, auth, from, to, msg)
	}

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

// sendSMTPTLS handles implicit-TLS servers, which smtp.SendMail cannot.
func (c *Client) sendSMTPTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: c.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// formatFrom builds the display From header; the bare address is still
// what goes on the SMTP envelope.
func formatFrom(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s", from, to, subject, body)
}
