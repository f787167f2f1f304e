// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/atlance/internal/platform/constants"
)

// # Retention Sweep

/*
PurgeWorker periodically hard-deletes stories that have sat in the deleted
state longer than the retention window.

The sweep runs on a fixed interval. Before each pass it takes a short-lived
Redis lease (SET NX) so that only one instance of the service performs the
purge at a time; instances that lose the race simply skip the pass.
*/
type PurgeWorker struct {
	service       *Service
	redisClient   *redis.Client
	logger        *slog.Logger
	interval      time.Duration
	retentionDays int
}

/*
NewPurgeWorker constructs a [PurgeWorker].

Parameters:
  - service: Story service exposing the purge operation
  - redisClient: Coordination store for the sweep lease
  - logger: Structured logger for sweep events
  - interval: How often the sweep runs
  - retentionDays: Age threshold (in days) for permanent removal
*/
func NewPurgeWorker(service *Service, redisClient *redis.Client, logger *slog.Logger, interval time.Duration, retentionDays int) *PurgeWorker {
	if interval <= 0 {
		interval = constants.DefaultPurgeInterval
	}
	if retentionDays < 1 {
		retentionDays = constants.DefaultPurgeRetentionDays
	}

	return &PurgeWorker{
		service:       service,
		redisClient:   redisClient,
		logger:        logger,
		interval:      interval,
		retentionDays: retentionDays,
	}
}

/*
Run blocks until the context is cancelled, sweeping on every tick.

It is intended to be launched as a goroutine from main. The first sweep
happens after one full interval, not at startup, so that a crash-looping
deployment does not hammer the archive.
*/
func (worker *PurgeWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(worker.interval)
	defer ticker.Stop()

	worker.logger.Info("purge_worker_started",
		slog.Duration("interval", worker.interval),
		slog.Int("retention_days", worker.retentionDays),
	)

	for {
		select {
		case <-ticker.C:
			worker.sweep(ctx)
		case <-ctx.Done():
			worker.logger.Info("purge_worker_stopped")
			return
		}
	}
}

// sweep performs a single lease-guarded purge pass.
func (worker *PurgeWorker) sweep(ctx context.Context) {
	acquired, err := worker.acquireLease(ctx)
	if err != nil {
		worker.logger.Warn("purge_lease_check_failed", slog.Any("error", err))
		return
	}
	if !acquired {
		// Another instance holds the lease for this pass.
		return
	}

	purged, err := worker.service.PurgeOlderThan(ctx, worker.retentionDays)
	if err != nil {
		worker.logger.Error("purge_sweep_failed", slog.Any("error", err))
		return
	}

	if purged > 0 {
		worker.logger.Info("purge_sweep_finished", slog.Int("purged", purged))
	}
}

// acquireLease attempts to take the distributed sweep lease.
// The lease expires on its own; it is never released early, which keeps
// the pass rate bounded even if an instance dies mid-sweep.
func (worker *PurgeWorker) acquireLease(ctx context.Context) (bool, error) {
	return worker.redisClient.SetNX(ctx, constants.RedisKeyPurgeLease, constants.AppName, constants.PurgeLeaseTTL).Result()
}
