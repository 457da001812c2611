package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/lineapi"
	"github.com/srithep/meeting-backend/pkg/queue"
)

// Worker drains the LINE push queue and delivers notification text to the
// configured LINE group. Failed deliveries are retried with backoff and end
// up in the DLQ after the retry budget is spent.
type Worker struct {
	queue          *queue.Queue
	line           *lineapi.Client
	defaultGroupID string
	logger         *zap.Logger
}

// New creates a worker.
func New(q *queue.Queue, line *lineapi.Client, defaultGroupID string, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{queue: q, line: line, defaultGroupID: defaultGroupID, logger: logger}
}

// Run blocks, processing jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("worker stopped")
				return
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.process(ctx, job); err != nil {
			w.logger.Warn("job failed",
				zap.String("job_id", job.ID),
				zap.Int("attempt", job.Attempt),
				zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			if err := w.queue.Retry(ctx, job); err != nil {
				w.logger.Error("retry enqueue failed", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeLinePush:
		var payload queue.LinePushPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			// malformed payloads are unretryable; log and drop
			w.logger.Error("invalid line push payload", zap.Error(err), zap.String("job_id", job.ID))
			return nil
		}
		return w.pushNotification(ctx, payload)
	default:
		w.logger.Warn("unknown job type", zap.String("type", string(job.Type)), zap.String("job_id", job.ID))
		return nil
	}
}

func (w *Worker) pushNotification(ctx context.Context, p queue.LinePushPayload) error {
	to := p.TargetGroupID
	if to == "" {
		to = w.defaultGroupID
	}
	text := p.Title
	if p.Message != "" {
		text += "\n" + p.Message
	}
	err := w.line.Push(ctx, to, []lineapi.Message{lineapi.TextMessage(text)})
	if err != nil {
		return err
	}
	w.logger.Info("notification pushed to LINE",
		zap.String("notification_id", p.NotificationID.String()))
	return nil
}
