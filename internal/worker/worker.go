package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/pkg/mailer"
	"github.com/Talts01/SocialPizza/pkg/queue"
)

// NotificationProcessor delivers the notification mail jobs produced by
// moderation decisions and event cancellations.
type NotificationProcessor struct {
	mail   *mailer.Mailer
	queue  *queue.Queue
	logger *zap.Logger
}

// NewNotificationProcessor creates a notification mail processor.
func NewNotificationProcessor(mail *mailer.Mailer, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{mail: mail, queue: q, logger: logger}
}

// Process executes one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeDecisionMail:
		var payload queue.DecisionMailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return p.sendDecision(payload)
	case queue.JobTypeCancelledMail:
		var payload queue.CancelledMailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return p.sendCancelled(payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *NotificationProcessor) sendDecision(payload queue.DecisionMailPayload) error {
	var subject, body string
	if payload.Decision == string(models.StatusApproved) {
		subject = fmt.Sprintf("Your event %q was approved", payload.EventTitle)
		body = fmt.Sprintf("Hi %s,\n\n%s approved your event %q.",
			payload.RecipientName, payload.RestaurantName, payload.EventTitle)
		if payload.Comment != "" {
			body += "\n\nNote from the restaurant: " + payload.Comment
		}
	} else {
		subject = fmt.Sprintf("Your event %q was rejected", payload.EventTitle)
		body = fmt.Sprintf("Hi %s,\n\n%s rejected your event %q.\n\nReason: %s",
			payload.RecipientName, payload.RestaurantName, payload.EventTitle, payload.Comment)
	}
	if err := p.mail.Send([]string{payload.RecipientEmail}, subject, body); err != nil {
		return err
	}
	p.logger.Info("decision mail sent",
		zap.Int64("event_id", payload.EventID),
		zap.String("decision", payload.Decision),
		zap.String("recipient", payload.RecipientEmail))
	return nil
}

func (p *NotificationProcessor) sendCancelled(payload queue.CancelledMailPayload) error {
	subject := fmt.Sprintf("Event %q was cancelled", payload.EventTitle)
	body := fmt.Sprintf("The event %q at %s has been cancelled by the restaurant.\n\nWe are sorry for the inconvenience.",
		payload.EventTitle, payload.RestaurantName)
	if err := p.mail.Send(payload.RecipientEmails, subject, body); err != nil {
		return err
	}
	p.logger.Info("cancellation mail sent",
		zap.Int64("event_id", payload.EventID),
		zap.Int("recipients", len(payload.RecipientEmails)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
