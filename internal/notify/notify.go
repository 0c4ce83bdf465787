package notify

import (
	"context"
	"log/slog"

	"leaseintake/internal/config"
	"leaseintake/internal/logging"
)

const Subject = "Your Lease Review Result"

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// FromConfig picks SMTP and Twilio senders when they are configured and falls
// back to LogSender otherwise.
func FromConfig(cfg config.Config, log *slog.Logger) (EmailSender, SMSSender) {
	log = logging.OrDefault(log)
	var email EmailSender = LogSender{Log: log}
	if cfg.SMTPHost != "" {
		email = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	var sms SMSSender = LogSender{Log: log}
	if cfg.TwilioSID != "" && cfg.TwilioToken != "" && cfg.TwilioNumber != "" {
		sms = NewTwilioSMS(cfg.TwilioAPI, cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioNumber, cfg.ProviderTimeout)
	}
	return email, sms
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) SendEmail(ctx context.Context, to, subject, body string) error {
	logging.OrDefault(s.Log).InfoContext(ctx, "notify.email.logged", "to", to, "subject", subject, "chars", len(body))
	return nil
}

func (s LogSender) SendSMS(ctx context.Context, to, body string) error {
	logging.OrDefault(s.Log).InfoContext(ctx, "notify.sms.logged", "to", to, "chars", len(body))
	return nil
}
