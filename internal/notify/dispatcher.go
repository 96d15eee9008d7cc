package notify

import (
	"context"
	"sync"
	"time"

	obsmetrics "github.com/mmml-co/mmml-backend/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	queueSize   = 256
	sendTimeout = 30 * time.Second
)

// Message is one email to render and deliver.
type Message struct {
	To       []string
	Subject  string
	Template string
	Data     map[string]any
}

// Dispatcher delivers emails out-of-band. Enqueue never blocks the request
// path and a failed send never affects committed state; failures only log.
type Dispatcher struct {
	provider Provider
	log      *zap.Logger
	metrics  *obsmetrics.Metrics
	queue    chan Message
	closing  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(provider Provider, log *zap.Logger, metrics *obsmetrics.Metrics) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		log:      log.Named("notify.dispatcher"),
		metrics:  metrics,
		queue:    make(chan Message, queueSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Enqueue hands a message to the background worker. When the queue is full
// or the dispatcher is stopping, the message is dropped and logged rather
// than blocking a request. The queue channel is never closed, so a racing
// Enqueue cannot panic.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case <-d.closing:
		d.log.Warn("dispatcher stopping, dropping email",
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
		)
		d.metrics.RecordEmail(msg.Template, "dropped")
		return
	default:
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping email",
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
		)
		d.metrics.RecordEmail(msg.Template, "dropped")
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop signals shutdown and waits for the worker to drain the queue.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.closing) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.closing:
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg Message) {
	body, err := render(msg.Template, msg.Data)
	if err != nil {
		d.log.Error("failed to render email", zap.String("template", msg.Template), zap.Error(err))
		d.metrics.RecordEmail(msg.Template, "render_error")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.provider.Send(ctx, msg.To, msg.Subject, body); err != nil {
		d.log.Error("failed to send email",
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
		d.metrics.RecordEmail(msg.Template, "error")
		return
	}
	d.metrics.RecordEmail(msg.Template, "ok")
}
