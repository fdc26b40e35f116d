package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/bible-study-backend/internal/repo"
	"github.com/tbourn/bible-study-backend/internal/scheduler"
)

// Job names.
const (
	JobDailyDevotional     = "daily-devotional"
	JobSearchCacheEviction = "search-cache-eviction"
)

// DevotionalJob runs the pipeline on sched. An unsuccessful run fails the
// job so its status shows reject with the pipeline error.
func DevotionalJob(s *DevotionalService, sched scheduler.Schedule) scheduler.Job {
	return scheduler.Job{
		Name:        JobDailyDevotional,
		Description: "Fetch, translate and summarize today's devotional",
		Schedule:    sched,
		Timeout:     10 * time.Minute,
		Fn: func(ctx context.Context) error {
			res := s.Run(ctx)
			if !res.Success {
				return errors.New(res.Error)
			}
			return nil
		},
	}
}

// MaintenanceJob evicts stale search cache entries, prunes old devotionals
// and purges expired idempotency records every interval.
func MaintenanceJob(search *SearchService, devos *DevotionalService, interval time.Duration) scheduler.Job {
	return scheduler.Job{
		Name:        JobSearchCacheEviction,
		Description: "Evict stale search cache entries and expired records",
		Schedule:    scheduler.Every(interval),
		Timeout:     time.Minute,
		Fn: func(ctx context.Context) error {
			evicted, err := search.Evict(ctx)
			if err != nil {
				return err
			}
			pruned, err := devos.Prune(ctx)
			if err != nil {
				return err
			}
			purged, err := repo.PurgeIdempotency(ctx, search.DB, search.now())
			if err != nil {
				return err
			}
			log.Info().
				Int64("evicted", evicted).
				Int64("pruned", pruned).
				Int64("idempotency_purged", purged).
				Msg("maintenance done")
			return nil
		},
	}
}
