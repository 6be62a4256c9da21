package mailer

import (
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// Sender is what handlers depend on. The contract is "never fails
// loudly": SendEmail returns false on failure and logs the cause, so a
// broken mail server can never abort order intake.
type Sender interface {
	SendEmail(toEmail, toName, subject, htmlBody string) bool
	Simulated() bool
}

// Mailer wraps an SMTP client configured from the environment. When no
// SMTP_HOST is set the mailer runs in simulated mode: messages are
// logged instead of sent and every send reports success.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// New builds a Mailer from SMTP_* environment variables.
func New() *Mailer {
	host := os.Getenv("SMTP_HOST")

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "quotes@grammer-portal.local"
	}
	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "Quoting Portal"
	}

	m := &Mailer{from: from, fromName: fromName}
	if host == "" {
		log.Println("WARNING: SMTP_HOST not set. Mailer running in simulated mode; emails will be logged, not sent.")
		return m
	}

	m.dialer = gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	return m
}

// Simulated reports whether sends are being logged instead of delivered.
func (m *Mailer) Simulated() bool {
	return m.dialer == nil
}

// SendEmail delivers one HTML email to a single recipient, with a
// plain-text fallback derived by stripping the HTML tags. It never
// returns an error: failures are logged and reported as false.
func (m *Mailer) SendEmail(toEmail, toName, subject, htmlBody string) bool {
	if m.Simulated() {
		log.Printf("--- SIMULATED EMAIL ---\nTo: %s <%s>\nSubject: %s\n%s\n-----------------------", toName, toEmail, subject, StripTags(htmlBody))
		return true
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, m.fromName))
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", StripTags(htmlBody))
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("Mailer error sending to %s: %v", toEmail, err)
		return false
	}
	return true
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags produces the plain-text fallback body from an HTML body.
func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
