package jobs

import (
	"context"
	"time"

	"locationsguard/services/logger"
	"locationsguard/services/notification"

	"github.com/robfig/cron/v3"
)

const (
	// Every day at 00:05 UTC.
	completeExpiredSpec = "5 0 * * *"
	jobTimeout          = 5 * time.Minute
)

// ReservationCompleter completes confirmed reservations that ended before now.
type ReservationCompleter interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// RunCompleteExpired runs one pass of the completion job and broadcasts a
// summary when something changed.
func RunCompleteExpired(ctx context.Context, completer ReservationCompleter, notifier notification.Service, log logger.Logger, now time.Time) (int, error) {
	log.Info("completing reservations that ended before %s", now.UTC().Format("2006-01-02"))
	n, err := completer.CompleteExpired(ctx, now)
	if err != nil {
		log.Error("completing expired reservations: %v", err)
		return 0, err
	}
	if n > 0 && notifier != nil {
		msg := notification.NewMessageBuilder(notification.EventReservationCompleted, 0, 0).
			WithMessage("%d reservations completed", n).
			Build()
		if err := notifier.SendMessage(msg); err != nil {
			log.Warn("broadcasting completion summary: %v", err)
		}
	}
	return n, nil
}

// InitCronJobs schedules the jobs on c and starts it.
func InitCronJobs(c *cron.Cron, completer ReservationCompleter, notifier notification.Service, log logger.Logger) error {
	_, err := c.AddFunc(completeExpiredSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		RunCompleteExpired(ctx, completer, notifier, log, time.Now())
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Info("cron jobs initialized")
	return nil
}
