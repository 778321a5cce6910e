package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/subscribers"
	"github.com/anchor-ministry/backend/pkg/queue"
)

// Processor consumes notification jobs and emails active subscribers.
type Processor struct {
	jobs   *queue.Queue
	subs   *subscribers.Repository
	mailer *Mailer
	logger *zap.Logger
}

// NewProcessor creates a notification processor. A nil mailer means jobs are
// acknowledged without sending, so a missing SMTP config never wedges the
// queue.
func NewProcessor(jobs *queue.Queue, subs *subscribers.Repository, mailer *Mailer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{jobs: jobs, subs: subs, mailer: mailer, logger: logger}
}

// Run blocks dequeueing jobs until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) {
	p.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.Error(err), zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
			if err := p.jobs.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
			continue
		}
		p.logger.Info("job processed", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	}
}

// Process handles one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	subject, body, err := p.render(job)
	if err != nil {
		return err
	}
	if p.mailer == nil {
		p.logger.Warn("smtp not configured, dropping notification", zap.String("job_id", job.ID))
		return nil
	}

	list, err := p.subs.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	if len(list) == 0 {
		return nil
	}
	recipients := make([]string, 0, len(list))
	for _, s := range list {
		recipients = append(recipients, s.Email)
	}
	if err := p.mailer.Send(recipients, subject, body); err != nil {
		return err
	}
	p.logger.Info("notification sent", zap.String("job_id", job.ID), zap.Int("recipients", len(recipients)))
	return nil
}

func (p *Processor) render(job *queue.Job) (subject, body string, err error) {
	switch job.Type {
	case queue.JobTypeContentPublished:
		var payload queue.ContentPublishedPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", "", fmt.Errorf("decode payload: %w", err)
		}
		switch payload.ContentKind {
		case "novel":
			subject = "New story: " + payload.Title
		case "testimony":
			subject = "New testimony: " + payload.Title
		default:
			subject = "New post: " + payload.Title
		}
		body = payload.Title + "\n\n"
		if payload.Excerpt != "" {
			body += payload.Excerpt + "\n\n"
		}
		body += "Read it on the site."
		return subject, body, nil

	case queue.JobTypeSessionStarted:
		var payload queue.SessionPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", "", fmt.Errorf("decode payload: %w", err)
		}
		subject = "We are live now"
		body = fmt.Sprintf("Tonight's chat session is live. Join us now.\n\nSession date: %s", payload.SessionDate)
		return subject, body, nil

	case queue.JobTypeSessionReminder:
		var payload queue.SessionPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return "", "", fmt.Errorf("decode payload: %w", err)
		}
		subject = "Chat session coming up"
		body = fmt.Sprintf("A chat session is scheduled for %s at %s UTC. We hope to see you there.",
			payload.SessionDate, payload.StartTime.UTC().Format("15:04"))
		return subject, body, nil
	}
	return "", "", fmt.Errorf("unknown job type: %s", job.Type)
}
