package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/email"
)

// ErrQueueFull is returned when the queue cannot take another message.
var ErrQueueFull = errors.New("mail queue full")

// ErrQueueClosed is returned after Stop.
var ErrQueueClosed = errors.New("mail queue closed")

// MailJob is one message waiting for delivery.
type MailJob struct {
	To      string
	Subject string
	Body    string
}

// MailQueue delivers mail on background goroutines so request handlers do
// not wait on the relay.
type MailQueue struct {
	sender  email.Sender
	jobs    chan MailJob
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMailQueue builds a queue holding up to size pending messages.
func NewMailQueue(sender email.Sender, size int, logger *zap.Logger) *MailQueue {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailQueue{
		sender:  sender,
		jobs:    make(chan MailJob, size),
		logger:  logger.Named("mail_worker"),
		timeout: 30 * time.Second,
	}
}

// Start launches n delivery goroutines.
func (q *MailQueue) Start(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go q.run(ctx)
	}
}

func (q *MailQueue) run(ctx context.Context) {
	defer q.wg.Done()
	for job := range q.jobs {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
		if err := q.sender.Send(sendCtx, job.To, job.Subject, job.Body); err != nil {
			q.logger.Error("mail delivery failed", zap.String("to", job.To), zap.String("subject", job.Subject), zap.Error(err))
		}
		cancel()
	}
}

// Enqueue adds a message without blocking.
func (q *MailQueue) Enqueue(job MailJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new messages and waits for queued ones to drain.
func (q *MailQueue) Stop() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
