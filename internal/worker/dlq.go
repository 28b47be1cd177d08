package worker

// Dead-lettered jobs live in one Redis list per source queue (dlq:{queue})
// until an operator requeues them with `shopctl jobs requeue`.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shoppos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is a failed job plus the reason it was given up on.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// SendToDLQ records a job that will not be retried. A failed push is logged
// and the job is dropped.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DLQEntry{
		Queue:    queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
		Attempts: job.Attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_type", job.Type).Msg("dlq: push failed, job dropped")
		return
	}
	infra.JobsDeadLettered.WithLabelValues(job.Type).Inc()
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job dead-lettered")
}

// DLQLengths returns the number of dead-lettered entries per queue.
func DLQLengths(ctx context.Context, rdb *redis.Client) (map[string]int64, error) {
	out := make(map[string]int64, len(Queues))
	for _, q := range Queues {
		n, err := rdb.LLen(ctx, DLQPrefix+q).Result()
		if err != nil {
			return nil, err
		}
		out[q] = n
	}
	return out, nil
}

// PeekDLQ returns up to limit of the most recently dead-lettered entries of
// queue without removing them.
func PeekDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raw, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("dlq %s: %w", queue, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RequeueDLQ moves up to limit of the oldest entries of queue back onto the
// live queue with a fresh attempt count. It returns how many were moved.
func RequeueDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int) (int, error) {
	moved := 0
	for moved < limit {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return moved, err
		}
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.JobType == "" {
			log.Warn().Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}
		encoded, err := json.Marshal(Job{Type: e.JobType, Payload: e.Payload})
		if err != nil {
			return moved, err
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			// Put it back so the entry is not lost.
			_ = rdb.RPush(ctx, DLQPrefix+queue, raw).Err()
			return moved, err
		}
		moved++
	}
	return moved, nil
}
