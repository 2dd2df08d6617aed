package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/marginpilot/backend/config"
	"github.com/marginpilot/backend/pkg/queue"
)

// InviteMailer consumes invite email jobs and delivers them over SMTP.
// When no SMTP host is configured, deliveries are logged and dropped so the
// rest of the invite flow keeps working in development.
type InviteMailer struct {
	queue  *queue.Queue
	email  config.EmailConfig
	logger *zap.Logger
}

// NewInviteMailer creates an invite email worker.
func NewInviteMailer(q *queue.Queue, email config.EmailConfig, logger *zap.Logger) *InviteMailer {
	return &InviteMailer{queue: q, email: email, logger: logger}
}

// Run processes jobs until ctx is cancelled.
func (w *InviteMailer) Run(ctx context.Context) {
	w.logger.Info("invite mail worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("invite mail worker stopping")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}
		if err := w.process(ctx, job); err != nil {
			w.logger.Error("job failed",
				zap.String("job_id", job.ID),
				zap.String("type", string(job.Type)),
				zap.Error(err),
			)
			if err := w.queue.Retry(ctx, job); err != nil {
				w.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}
}

func (w *InviteMailer) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeInviteEmail:
		var payload queue.InviteEmailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return w.sendInvite(payload)
	default:
		w.logger.Warn("unknown job type dropped", zap.String("type", string(job.Type)))
		return nil
	}
}

func (w *InviteMailer) sendInvite(p queue.InviteEmailPayload) error {
	subject := fmt.Sprintf("You have been invited to join %s", p.CompanyName)
	body := fmt.Sprintf(
		"Hi,\r\n\r\n%s invited you to join %s as %s.\r\n\r\nUse this invite token to sign up:\r\n%s\r\n\r\nThe invite expires in 7 days.\r\n",
		p.OwnerEmail, p.CompanyName, p.Role, p.Token,
	)

	if w.email.SMTPHost == "" {
		w.logger.Info("smtp not configured, invite logged only",
			zap.String("recipient", p.RecipientEmail),
			zap.String("company", p.CompanyName),
		)
		return nil
	}

	from := w.email.FromAddress
	msg := strings.Join([]string{
		"From: " + w.email.FromName + " <" + from + ">",
		"To: " + p.RecipientEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", w.email.SMTPHost, w.email.SMTPPort)
	var auth smtp.Auth
	if w.email.SMTPUser != "" {
		auth = smtp.PlainAuth("", w.email.SMTPUser, w.email.SMTPPass, w.email.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, from, []string{p.RecipientEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	w.logger.Info("invite email sent", zap.String("recipient", p.RecipientEmail))
	return nil
}
