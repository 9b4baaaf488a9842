package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TrialReminder expires due subscriptions and warns trial users whose trial
// ends soon
type TrialReminder struct {
	ledger   subscription.Service
	users    user.Repository
	notifier email.Notifier
	schedule string
	window   time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewTrialReminder creates a new trial reminder worker
func NewTrialReminder(
	ledger subscription.Service,
	users user.Repository,
	notifier email.Notifier,
	cfg config.WorkerConfig,
	log *logger.Logger,
) *TrialReminder {
	return &TrialReminder{
		ledger:   ledger,
		users:    users,
		notifier: notifier,
		schedule: cfg.ReminderSchedule,
		window:   cfg.ReminderWindow,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   log.Component("trial_reminder"),
	}
}

// WithClock replaces the time source used for days remaining
func (r *TrialReminder) WithClock(now func() time.Time) *TrialReminder {
	r.now = now
	return r
}

// Enabled reports whether a schedule is configured
func (r *TrialReminder) Enabled() bool {
	return r.schedule != ""
}

// Start schedules the job and returns. The scheduler stops when ctx is done.
func (r *TrialReminder) Start(ctx context.Context) error {
	if !r.Enabled() {
		r.logger.Info("Trial reminder worker disabled")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid reminder schedule: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.ErrorWithErr(err, "Trial reminder run failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule trial reminder: %w", err)
	}
	c.Start()

	r.logger.WithFields(map[string]interface{}{
		"schedule": r.schedule,
		"window":   r.window.String(),
	}).Info("Trial reminder worker started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		r.logger.Info("Trial reminder worker stopped")
	}()
	return nil
}

// RunOnce performs one sweep and reminder pass and returns the number of
// emails sent.
func (r *TrialReminder) RunOnce(ctx context.Context) (int, error) {
	if _, err := r.ledger.CheckAndUpdateExpired(ctx); err != nil {
		return 0, err
	}

	trials, err := r.ledger.ListExpiringTrials(ctx, r.window)
	if err != nil {
		return 0, err
	}

	now := r.now()
	sent := 0
	for _, sub := range trials {
		log := r.logger.WithFields(map[string]interface{}{
			"user_id":         sub.UserID,
			"subscription_id": sub.ID,
		})

		u, err := r.users.GetByID(ctx, sub.UserID)
		if err != nil {
			log.WithError(err).Warn("Skipping reminder for unknown user")
			continue
		}
		if !u.IsActive {
			continue
		}

		firstName := ""
		if u.FirstName != nil {
			firstName = *u.FirstName
		}
		if r.notifier.SendTrialExpiring(ctx, u.Email, firstName, sub.DaysRemainingAt(now)) {
			sent++
		} else {
			log.Warn("Trial reminder not sent")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"trials": len(trials),
		"sent":   sent,
	}).Info("Trial reminder run completed")
	return sent, nil
}
