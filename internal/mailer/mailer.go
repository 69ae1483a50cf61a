package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Config holds the SMTP account used for guest-facing mail.
type Config struct {
	From     string
	Password string
	Host     string
	Port     string
}

// SendRSVPEmail notifies a family contact about their RSVP. Status is
// "confirmed" after a submission was recorded, or "reminder" when the
// family still has not answered.
func SendRSVPEmail(log *zerolog.Logger, cfg Config, familyName, status, recipientEmail, brideName, groomName string) error {
	var subject, body string
	switch status {
	case "confirmed":
		subject = "Your RSVP has been received"
		body = fmt.Sprintf("Dear %s,\n\nThank you! Your RSVP for the wedding of %s & %s has been recorded.\n\nWe look forward to celebrating with you!",
			familyName, brideName, groomName)
	case "reminder":
		subject = "A gentle reminder to RSVP"
		body = fmt.Sprintf("Dear %s,\n\nWe have not received your RSVP for the wedding of %s & %s yet.\nPlease respond using the link on your invitation.\n\nThank you!",
			familyName, brideName, groomName)
	default:
		return fmt.Errorf("unknown mail status: %s", status)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipientEmail, subject, body,
	)

	smtpServer := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(smtpServer, auth, cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("Failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("Email sent to %s (status: %s)", recipientEmail, status)
	return nil
}
