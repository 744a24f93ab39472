package main

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/services/listing/application/workflows"
	"github.com/morsel-app/morsel-restaurant/services/listing/infrastructure/persistence/rowstore"
)

const expiryLockKey = "jobs:expire-listings"

// listingExpirer deactivates listings whose pickup window has ended.
type listingExpirer interface {
	ExpireListings(ctx context.Context) (int, error)
}

// runExpiryScheduler sweeps expired listings every ListingExpiryInterval until ctx ends.
func runExpiryScheduler(ctx context.Context, a *app.Application, q listingExpirer) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(a.Location))
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.Config.ListingExpiryInterval),
		gocron.NewTask(func() {
			expireOnce(ctx, a.Logger, a.Locker, q, a.Config.ListingExpiryInterval)
		}),
		gocron.WithName("expire-listings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	a.Logger.Info("listing expiry scheduled", "interval", a.Config.ListingExpiryInterval)

	<-ctx.Done()
	return scheduler.Shutdown()
}

// expireOnce runs one sweep. The lock keeps concurrent workers from sweeping together.
func expireOnce(ctx context.Context, log logger.Logger, locker lock.Locker, q listingExpirer, ttl time.Duration) {
	release, err := locker.TryLock(ctx, expiryLockKey, ttl)
	if errors.Is(err, lock.ErrHeld) {
		log.DebugContext(ctx, "listing expiry already running elsewhere")
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "listing expiry lock failed", "error", err)
		return
	}
	defer release()

	n, err := q.ExpireListings(ctx)
	if err != nil {
		log.ErrorContext(ctx, "listing expiry failed", "expired", n, "error", err)
		return
	}
	if n > 0 {
		log.InfoContext(ctx, "listings expired", "count", n)
	}
}

// runTemporalWorker executes publish workflows and their activities until ctx ends.
func runTemporalWorker(ctx context.Context, a *app.Application) error {
	w := a.TemporalClient.NewWorker()
	workflows.Register(w, workflows.NewActivities(rowstore.NewStore(a.Store).Repos(), a.Logger))

	if err := w.Start(); err != nil {
		return err
	}
	a.Logger.Info("temporal worker started", "task_queue", a.TemporalClient.TaskQueue)

	<-ctx.Done()
	w.Stop()
	return nil
}
