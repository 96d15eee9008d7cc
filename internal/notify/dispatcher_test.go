package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type captureProvider struct {
	mu   sync.Mutex
	sent []string
}

func (p *captureProvider) Send(ctx context.Context, to []string, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, subject)
	return nil
}

func (p *captureProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func testMessage(subject string) Message {
	return Message{
		To:       []string{"jane@example.com"},
		Subject:  subject,
		Template: TemplateUserConfirmation,
		Data: map[string]any{
			"UserName":    "Jane",
			"FormType":    "Event Registration",
			"FormData":    map[string]any{"email": "jane@example.com"},
			"SubmittedAt": "2026-01-01 00:00:00",
		},
	}
}

func TestDispatcherDrainsQueueOnStop(t *testing.T) {
	provider := &captureProvider{}
	d := NewDispatcher(provider, zap.NewNop(), nil)
	d.Start()

	for i := 0; i < 5; i++ {
		d.Enqueue(testMessage("queued"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if got := provider.count(); got != 5 {
		t.Fatalf("delivered %d messages, want 5", got)
	}
}

func TestDispatcherEnqueueAfterStopDoesNotPanic(t *testing.T) {
	provider := &captureProvider{}
	d := NewDispatcher(provider, zap.NewNop(), nil)
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	d.Enqueue(testMessage("late"))

	if got := provider.count(); got != 0 {
		t.Fatalf("delivered %d messages after stop, want 0", got)
	}
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(&captureProvider{}, zap.NewNop(), nil)
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
