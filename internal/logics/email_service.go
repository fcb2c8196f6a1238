package logics

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// EmailService provides SMTP email delivery via gomail.
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	senderEmail  string
}

// NewEmailService creates a new EmailService.
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword, senderEmail string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		senderEmail:  senderEmail,
	}
}

// Send sends an HTML email from the configured sender address.
func (s *EmailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, "SchoolHub"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	return d.DialAndSend(m)
}

// TwoFactorCodeHTML renders the verification-code email body.
func TwoFactorCodeHTML(name, code string) string {
	return fmt.Sprintf(`<h1>Verification code</h1>
<p>Hello %s,</p>
<p>Your sign-in verification code is:</p>
<p style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</p>
<p>The code is valid for 10 minutes. If you did not try to sign in, you can ignore this email.</p>`,
		name, code)
}
