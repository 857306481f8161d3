package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that keep failing, or that cannot be decoded, end up in dlq:<queue>.
const DLQPrefix = "dlq:"

type DLQEntry struct {
	Cola     string          `json:"cola"`
	JobType  string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"motivo"`
	Fallo    time.Time       `json:"fallo"`
	Attempts int             `json:"intentos"`
}

func dlqKey(queue string) string { return DLQPrefix + queue }

// SendToDLQ parks job under dlq:<queue>. It never fails the caller; a push
// error is only logged.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DLQEntry{
		Cola:     queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Fallo:    time.Now().UTC(),
		Attempts: job.Attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}
	// The worker context may already be cancelled during shutdown.
	if err := rdb.LPush(context.WithoutCancel(ctx), dlqKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_type", job.Type).Msg("dlq: push")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("job descartado a la DLQ")
}

func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// DLQEntries returns the newest limit entries. Entries that do not decode are skipped.
func DLQEntries(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, dlqKey(queue), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if json.Unmarshal([]byte(raw), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
