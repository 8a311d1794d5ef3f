package worker

// retry_cron.go
// Background goroutine that re-enqueues failed print jobs. Failures are
// parked in a Redis sorted set scored by their next-attempt time; every tick
// the cron moves due entries back onto QueueImpressao. Jobs that exhaust the
// attempt budget go to the DLQ for manual inspection instead.

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryImpressaoKey = "retry:impressao"

	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	maxTentativas     = 5
	retryBaseDelay    = 30 * time.Second
)

// ScheduleImpressaoRetry parks a failed print job for a later attempt, with
// exponential backoff (30s, 60s, 120s, …). After maxTentativas the job moves
// to the DLQ.
func ScheduleImpressaoRetry(ctx context.Context, rdb *redis.Client, payload ImpressaoJobPayload) {
	if rdb == nil {
		return
	}

	payload.Tentativa++
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to marshal print job")
		return
	}

	if payload.Tentativa >= maxTentativas {
		SendToDLQ(ctx, rdb, QueueImpressao, "impressao", data,
			"impressora bridge unavailable after "+strconv.Itoa(payload.Tentativa)+" attempts",
			payload.Tentativa)
		return
	}

	delay := time.Duration(math.Pow(2, float64(payload.Tentativa-1))) * retryBaseDelay
	score := float64(time.Now().Add(delay).Unix())
	if err := rdb.ZAdd(ctx, retryImpressaoKey, redis.Z{Score: score, Member: data}).Err(); err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to schedule print retry")
		return
	}
	log.Info().Str("venda", payload.Dados.Venda.Numero).Int("tentativa", payload.Tentativa).
		Dur("delay", delay).Msg("retry_cron: print job scheduled for retry")
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues print jobs whose retry time has come. It respects the context
// for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, dispatcher)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, dispatcher *Dispatcher) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	entries, err := rdb.ZRangeByScore(ctx, retryImpressaoKey, &redis.ZRangeBy{
		Min: "0", Max: now, Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query due retries")
		return
	}
	if len(entries) == 0 {
		return
	}

	log.Info().Int("count", len(entries)).Msg("retry_cron: re-enqueueing print jobs")

	for _, raw := range entries {
		if err := rdb.ZRem(ctx, retryImpressaoKey, raw).Err(); err != nil {
			continue // another instance of the tick claimed it
		}

		var payload ImpressaoJobPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt retry entry — dropping")
			continue
		}
		if err := dispatcher.EnqueueImpressao(ctx, payload); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue print job")
		}
	}
}
