// README: SMTP transport with an HTML rendering of the booking template.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"sort"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

var bookingEmail = template.Must(template.New("booking").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>{{index . "message"}}</h2>
<table>
{{range .rows}}<tr><td><strong>{{.Key}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type row struct {
	Key   string
	Value any
}

// Send ignores ctx once the SMTP dialogue has started; net/smtp has no context support.
func (s *SMTPSender) Send(ctx context.Context, to Recipient, params map[string]any) error {
	if s.cfg.Host == "" || s.cfg.Port == "" || s.cfg.From == "" {
		return ErrNotConfigured
	}
	if to.Email == "" {
		return fmt.Errorf("%w: no recipient", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.render(to, params)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to.Email}, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

func (s *SMTPSender) render(to Recipient, params map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "message" && k != "to_name" && k != "to_email" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, row{Key: k, Value: params[k]})
	}

	var body bytes.Buffer
	data := map[string]any{"message": params["message"], "rows": rows}
	if err := bookingEmail.Execute(&body, data); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(s.cfg.From))
	recipient := mail.Address{Name: headerValue(to.Name), Address: headerValue(to.Email)}
	fmt.Fprintf(&b, "To: %s\r\n", recipient.String())
	subject := headerValue(fmt.Sprintf("New booking from %v", params["name"]))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.Write(body.Bytes())
	return []byte(b.String()), nil
}

// headerValue folds customer input onto one line so it cannot open new headers.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
