package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shoppos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"

	JobReceipt = "receipt"
	JobEmail   = "email"

	// MaxJobAttempts is how many times a job runs before it is dead-lettered.
	MaxJobAttempts = 3
)

// Queues lists every queue the pool consumes, in BRPOP priority order.
var Queues = []string{QueueReceipt, QueueEmail}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error makes the pool retry
// the job and, after MaxJobAttempts, move it to the dead-letter list.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Handlers maps job type to its handler.
type Handlers map[string]Handler

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt pushes a receipt rendering job.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, JobReceipt, payload)
}

// EnqueueEmail pushes an email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return errors.New("dispatcher: no redis client")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, Queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	job, err := decodeJob(raw)
	if err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: quoted}, err.Error())
		return
	}

	err = runJob(ctx, handlers, job)
	job.Attempts++
	if err == nil {
		infra.JobsProcessed.WithLabelValues(job.Type, "ok").Inc()
		return
	}
	infra.JobsProcessed.WithLabelValues(job.Type, "failed").Inc()

	if shouldRetry(job, err) {
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeueing")
		if encoded, mErr := json.Marshal(job); mErr == nil {
			if pErr := rdb.LPush(ctx, queue, encoded).Err(); pErr == nil {
				return
			}
		}
	}
	SendToDLQ(ctx, rdb, queue, job, err.Error())
}

func decodeJob(raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, err
	}
	if job.Type == "" {
		return Job{}, errors.New("job without type")
	}
	return job, nil
}

// errNoHandler is permanent: retrying cannot help.
var errNoHandler = errors.New("no handler registered")

func runJob(ctx context.Context, handlers Handlers, job Job) error {
	h, ok := handlers[job.Type]
	if !ok {
		return fmt.Errorf("%w for job type %q", errNoHandler, job.Type)
	}
	log.Debug().Str("type", job.Type).Int("attempts", job.Attempts).Msg("processing job")
	return h.Process(ctx, job.Payload)
}

// shouldRetry expects job.Attempts to already count the failed run.
func shouldRetry(job Job, err error) bool {
	if errors.Is(err, errNoHandler) || errors.Is(err, ErrPermanent) {
		return false
	}
	return job.Attempts < MaxJobAttempts
}

// ErrPermanent marks handler errors that must not be retried (bad payload,
// missing record).
var ErrPermanent = errors.New("permanent job failure")
