package email

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"grateful-service/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender delivers contact-form submissions to the team inbox.
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// Configured reports whether SMTP credentials are present.
func (s *Sender) Configured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SMTPFrom != ""
}

var contactTmpl = template.Must(template.New("contact").Parse(`
<div style="font-family: system-ui, sans-serif; max-width: 560px;">
  <h2 style="color: #0a660a;">New contact form message</h2>
  <p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
  <hr>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
</div>
`))

// SendContactMessage forwards a contact-form submission. Retries with
// exponential backoff, then gives up; the caller treats failure as
// best-effort.
func (s *Sender) SendContactMessage(ctx context.Context, name, fromEmail, message string) error {
	var body strings.Builder
	err := contactTmpl.Execute(&body, struct {
		Name    string
		Email   string
		Message string
	}{Name: name, Email: fromEmail, Message: message})
	if err != nil {
		return fmt.Errorf("render contact email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom))
	m.SetHeader("To", s.cfg.ContactTo)
	m.SetHeader("Reply-To", fromEmail)
	m.SetHeader("Subject", fmt.Sprintf("Contact form: %s", name))
	m.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)

	// Exponential backoff: 1s, 2s, 4s → max 3 retries
	for attempt := 0; attempt < 3; attempt++ {
		if err := dialer.DialAndSend(m); err != nil {
			delay := time.Duration(1<<attempt) * time.Second
			log.Printf("❌ [CONTACT] Attempt %d failed: %v → retrying in %v", attempt+1, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("contact email cancelled: %w", ctx.Err())
			}
			continue
		}
		log.Printf("✅ [CONTACT] Message from %s forwarded to %s", fromEmail, s.cfg.ContactTo)
		return nil
	}

	return fmt.Errorf("failed to deliver contact email after 3 attempts")
}
