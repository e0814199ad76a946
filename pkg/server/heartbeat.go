package server

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// runHeartbeat runs job on schedule until ctx is cancelled. Jobs still
// running at cancellation are waited for. A panic in job runs on cron's
// goroutine and is handled as an uncaught fault.
func (l *Lifecycle) runHeartbeat(ctx context.Context, schedule string, job func()) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		defer l.recoverTask("heartbeat")
		job()
	})
	if err != nil {
		return fmt.Errorf("invalid heartbeat schedule %q: %w", schedule, err)
	}

	c.Start()
	l.logger.Debug("heartbeat scheduled", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (l *Lifecycle) beat() {
	info := l.Status()
	l.logger.Info("heartbeat",
		"state", info.State,
		"uptime_seconds", info.UptimeSeconds,
		"instance_id", info.InstanceID,
	)
}
