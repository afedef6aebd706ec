package sync

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// RoomPruner deletes durable rooms that are past their retention.
type RoomPruner interface {
	DeleteStaleRooms(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupStaleRooms runs one retention pass relative to now.
func CleanupStaleRooms(ctx context.Context, pruner RoomPruner, retention time.Duration, now time.Time) (int64, error) {
	removed, err := pruner.DeleteStaleRooms(ctx, now.Add(-retention))
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up old rooms: %v", err)
		return 0, err
	}
	if removed > 0 {
		log.Printf("[CLEANUP] Cleaned up %d old rooms from database", removed)
	}
	return removed, nil
}

// StartCleanupScheduler runs CleanupStaleRooms every interval until the
// returned scheduler is shut down.
func StartCleanupScheduler(pruner RoomPruner, interval, retention time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			CleanupStaleRooms(ctx, pruner, retention, time.Now())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		sched.Shutdown()
		return nil, err
	}

	sched.Start()
	log.Printf("[CLEANUP] Scheduled every %s, retention %s", interval, retention)
	return sched, nil
}
