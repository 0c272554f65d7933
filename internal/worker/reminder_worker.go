package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/classbridge/classbridge-backend/internal/config"
	"github.com/classbridge/classbridge-backend/internal/email"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ReminderBatchSize    = 25
	ReminderBatchTimeout = 2 * time.Second
	ReminderPollTimeout  = 1 * time.Second
)

// ReminderWorker drains the reminder email queue and hands messages to
// the email sender. Dispatch into the queue is a caller-triggered step;
// the worker only moves queued jobs out of process.
type ReminderWorker struct {
	rdb    *redis.Client
	sender email.Sender
	log    zerolog.Logger
}

// NewReminderWorker creates a new ReminderWorker.
func NewReminderWorker(rdb *redis.Client, sender email.Sender, log zerolog.Logger) *ReminderWorker {
	return &ReminderWorker{
		rdb:    rdb,
		sender: sender,
		log:    log.With().Str("component", "reminder_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. Remaining batched
// jobs are flushed on shutdown.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ReminderWorker started")

	batch := make([]*model.ReminderEmailJob, 0, ReminderBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ReminderBatchSize || time.Since(lastFlush) >= ReminderBatchTimeout) {

			w.requeue(ctx, w.flush(batch))
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			// ctx is already cancelled; the requeue still has to land.
			w.requeue(context.Background(), w.flush(batch))
			return

		default:
			item, err := w.rdb.BLPop(ctx, ReminderPollTimeout, config.WorkerKey.ReminderEmailQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job model.ReminderEmailJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &job)
		}
	}
}

// flush attempts every job in the batch and returns the ones that
// failed so the caller can requeue them.
func (w *ReminderWorker) flush(batch []*model.ReminderEmailJob) []*model.ReminderEmailJob {
	var failed []*model.ReminderEmailJob
	for _, job := range batch {
		if err := w.sender.Send(buildMessage(job)); err != nil {
			w.log.Error().
				Err(err).
				Str("to", job.ToEmail).
				Str("assignment_id", job.AssignmentID).
				Msg("Reminder email failed — requeueing")
			failed = append(failed, job)
			continue
		}
		w.log.Debug().
			Str("to", job.ToEmail).
			Str("assignment_id", job.AssignmentID).
			Msg("Reminder email sent")
	}
	return failed
}

// requeue pushes failed jobs back onto the queue for a later attempt.
func (w *ReminderWorker) requeue(ctx context.Context, jobs []*model.ReminderEmailJob) {
	for _, job := range jobs {
		raw, err := json.Marshal(job)
		if err != nil {
			w.log.Error().Err(err).Str("to", job.ToEmail).Msg("Marshal for requeue failed")
			continue
		}
		if err := w.rdb.RPush(ctx, config.WorkerKey.ReminderEmailQueue, raw).Err(); err != nil {
			w.log.Error().Err(err).Str("to", job.ToEmail).Msg("Requeue failed")
		}
	}
}

func buildMessage(job *model.ReminderEmailJob) email.Message {
	body := fmt.Sprintf("Hi %s,\n\nYou have not yet submitted %q in %s.",
		job.ToName, job.Assignment, job.Classroom)
	if job.DueDate != "" {
		body += fmt.Sprintf(" It is due %s.", job.DueDate)
	}
	body += "\n\nPlease submit before the deadline."

	return email.Message{
		ToName:  job.ToName,
		ToEmail: job.ToEmail,
		Subject: "Reminder: " + job.Assignment,
		Body:    body,
	}
}
