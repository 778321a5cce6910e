package notify

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anchor-ministry/backend/pkg/queue"
)

func jobWith(t *testing.T, jobType queue.JobType, payload interface{}) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &queue.Job{ID: uuid.New().String(), Type: jobType, Payload: raw}
}

func TestRenderContentPublished(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)

	job := jobWith(t, queue.JobTypeContentPublished, queue.ContentPublishedPayload{
		ContentKind: "post",
		ContentID:   uuid.New(),
		Title:       "Walking Through Doubt",
		Excerpt:     "A reflection on seasons of uncertainty.",
	})
	subject, body, err := p.render(job)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "New post: Walking Through Doubt" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "A reflection on seasons of uncertainty.") {
		t.Errorf("body missing excerpt: %q", body)
	}
}

func TestRenderSessionJobs(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)
	payload := queue.SessionPayload{
		SessionID:   uuid.New(),
		SessionDate: "2026-03-06",
		StartTime:   time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC),
	}

	subject, _, err := p.render(jobWith(t, queue.JobTypeSessionStarted, payload))
	if err != nil {
		t.Fatalf("render started: %v", err)
	}
	if subject != "We are live now" {
		t.Errorf("subject = %q", subject)
	}

	_, body, err := p.render(jobWith(t, queue.JobTypeSessionReminder, payload))
	if err != nil {
		t.Fatalf("render reminder: %v", err)
	}
	if !strings.Contains(body, "2026-03-06") || !strings.Contains(body, "19:00") {
		t.Errorf("reminder body missing schedule: %q", body)
	}
}

func TestRenderUnknownJobType(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)
	if _, _, err := p.render(&queue.Job{ID: "x", Type: "mystery", Payload: []byte(`{}`)}); err == nil {
		t.Error("expected an error for unknown job type")
	}
}
