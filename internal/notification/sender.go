package notification

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConfirmationEmail carries everything the confirmation message shows.
type ConfirmationEmail struct {
	To           string
	ClientName   string
	ServiceName  string
	BusinessName string
	StartAt      time.Time
	EndAt        time.Time
	Address      string
	Phone        string
	// CalendarURL links a downloadable invite, when one was stored.
	CalendarURL string
}

// Result never carries a panic or a raised error: failures come back as
// Success=false with Err set.
type Result struct {
	Success   bool
	MessageID string
	Err       error
}

type Sender interface {
	SendConfirmation(ctx context.Context, email ConfirmationEmail) Result
}

// SMTPSender sends through a relay, authenticating only when a user is set.
type SMTPSender struct {
	host string
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	host = strings.TrimSpace(host)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@pro-scheduler.local"
	}
	s := &SMTPSender{
		host: host,
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, email ConfirmationEmail) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}

	html, err := RenderConfirmation(email)
	if err != nil {
		return Result{Err: err}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	msg := buildMessage(s.from, email.To, ConfirmationSubject(email), messageID, html)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{email.To}, msg); err != nil {
		return Result{Err: fmt.Errorf("smtp send: %w", err)}
	}
	return Result{Success: true, MessageID: messageID}
}

func buildMessage(from, to, subject, messageID, html string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeHeader(subject))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return b.Bytes()
}

// encodeHeader folds line breaks and applies RFC 2047 encoding when the
// value is not plain ASCII.
func encodeHeader(v string) string {
	v = strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
	return mime.QEncoding.Encode("utf-8", v)
}

// LogSender stands in when no SMTP relay is configured: the message is
// logged and reported as sent.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendConfirmation(_ context.Context, email ConfirmationEmail) Result {
	id := "log-" + uuid.NewString()
	s.log.Info().
		Str("to", email.To).
		Str("subject", ConfirmationSubject(email)).
		Str("message_id", id).
		Msg("confirmation email (mail disabled)")
	return Result{Success: true, MessageID: id}
}
