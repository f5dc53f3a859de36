// Package mail formats form submissions as notification emails.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	netmail "net/mail"
	"sort"
	"strings"

	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/survey"
)

var (
	ErrNotConfigured = errors.New("email is not configured")
	ErrEmptyForm     = errors.New("form is empty")
)

const (
	DefaultSubject = "نموذج جديد"
	// SubjectField overrides the subject and is not rendered in the body.
	SubjectField = "_subject"
)

type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	From string
	To   string
}

type Servicer interface {
	Send(ctx context.Context, fields map[string]any) error
}

type Service struct {
	sender Sender
	cfg    Config
	log    *slog.Logger
}

// NewService accepts a nil sender; Send then reports ErrNotConfigured.
func NewService(sender Sender, cfg Config, log *slog.Logger) *Service {
	return &Service{
		sender: sender,
		cfg:    cfg,
		log:    log.With("component", "mail_service"),
	}
}

func (s *Service) Send(ctx context.Context, fields map[string]any) error {
	recipients := splitAddresses(s.cfg.To)
	if s.sender == nil || len(recipients) == 0 {
		return ErrNotConfigured
	}

	msg, err := Compose(fields)
	if err != nil {
		return err
	}
	msg.From = s.cfg.From
	if msg.From == "" {
		msg.From = recipients[0]
	}
	msg.To = recipients

	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error("failed to send email", "to", recipients, "error", err)
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info("email sent", "to", recipients, "fields", len(fields))
	return nil
}

type row struct {
	Key   string
	Value string
}

var htmlBody = template.Must(template.New("mail").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<body style="font-family: Tahoma, Arial, sans-serif;">
<h2>{{.Subject}}</h2>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
{{- range .Rows}}
<tr><th style="text-align: right;">{{.Key}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// Compose renders fields in sorted key order as plain text and HTML.
func Compose(fields map[string]any) (Message, error) {
	subject := DefaultSubject
	if v := strings.TrimSpace(survey.StringValue(fields[SubjectField])); v != "" {
		subject = v
	}

	rows := make([]row, 0, len(fields))
	for k, v := range fields {
		if strings.HasPrefix(k, "_") {
			continue
		}
		rows = append(rows, row{Key: k, Value: survey.StringValue(v)})
	}
	if len(rows) == 0 {
		return Message{}, ErrEmptyForm
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	var text strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&text, "%s: %s\n", r.Key, r.Value)
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, struct {
		Subject string
		Rows    []row
	}{subject, rows}); err != nil {
		return Message{}, fmt.Errorf("render email: %w", err)
	}

	return Message{
		Subject: subject,
		ReplyTo: replyTo(fields["email"]),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// replyTo returns the visitor's address when it parses; anything else is
// left in the body only.
func replyTo(v any) string {
	email, ok := v.(string)
	if !ok || strings.TrimSpace(email) == "" {
		return ""
	}
	addr, err := netmail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return ""
	}
	return addr.Address
}

func splitAddresses(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
