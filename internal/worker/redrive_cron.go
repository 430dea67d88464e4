package worker

// redrive_cron.go
// Background goroutine that periodically drains the email DLQ back onto the
// live queue once the SMTP circuit breaker has closed again. Entries that
// have already been redriven too many times stay parked for manual review.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redriveTickInterval = 30 * time.Second
	redriveBatchSize    = 10
	maxRedriveAttempts  = 3
)

// RedriveCronConfig holds the dependencies for the redrive goroutine.
type RedriveCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRedriveCron launches a background goroutine that ticks every 30s and
// requeues DLQ'd email jobs while SMTP is healthy. It respects the context
// for graceful shutdown.
func StartRedriveCron(ctx context.Context, cfg RedriveCronConfig) {
	go func() {
		ticker := time.NewTicker(redriveTickInterval)
		defer ticker.Stop()

		log.Info().Msg("redrive_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("redrive_cron: shutting down")
				return
			case <-ticker.C:
				processRedrives(ctx, cfg)
			}
		}
	}()
}

// shouldPark reports whether a DLQ entry burned through its redrives.
func shouldPark(entry DLQEntry) bool {
	return entry.Attempts >= maxRedriveAttempts
}

// requeueJob rebuilds the live-queue envelope from a DLQ entry. The attempt
// count rides along so the worker's next SendToDLQ increments it and a job
// that keeps failing eventually parks instead of cycling forever.
func requeueJob(entry DLQEntry) Job {
	return Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
}

func processRedrives(ctx context.Context, cfg RedriveCronConfig) {
	// If CB is open, skip entirely — don't requeue into a downed SMTP
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("redrive_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueEmail
	for i := 0; i < redriveBatchSize; i++ {
		// CB may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("redrive_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty DLQ or redis error — nothing more to do this tick
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("redrive_cron: corrupt DLQ entry dropped")
			continue
		}

		if shouldPark(entry) {
			// Park permanently under a separate key for manual review
			parkedKey := DLQPrefix + "parked:" + entry.OriginalQueue
			if err := cfg.RDB.LPush(ctx, parkedKey, raw).Err(); err != nil {
				log.Error().Err(err).Msg("redrive_cron: failed to park entry")
			}
			log.Warn().
				Str("queue", entry.OriginalQueue).
				Int("attempts", entry.Attempts).
				Msg("redrive_cron: entry exceeded redrive attempts, parked")
			continue
		}

		encoded, err := json.Marshal(requeueJob(entry))
		if err != nil {
			log.Error().Err(err).Msg("redrive_cron: failed to marshal job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("redrive_cron: failed to requeue job")
			// put it back so it is not lost
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			return
		}
		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("redrive_cron: job requeued from DLQ")
	}
}
