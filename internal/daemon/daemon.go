package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/kutbudev/pharm-cli/internal/models"
	"github.com/kutbudev/pharm-cli/internal/notify"
)

// Service is the part of the medication service the daemon needs.
type Service interface {
	ResetAll() ([]string, error)
	Active() []models.Medication
}

// Options configures a Daemon. Zero values get defaults.
type Options struct {
	Interval time.Duration
	Urgency  notify.Urgency
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Daemon polls the medication file and shows at most one reminder per
// medication per day, retrying every poll until the dose is taken or the
// notification goes through.
type Daemon struct {
	svc      Service
	notifier notify.Notifier
	interval time.Duration
	urgency  notify.Urgency
	logger   *slog.Logger
	now      func() time.Time
	state    State
}

// New creates a Daemon.
func New(svc Service, notifier notify.Notifier, opts Options) *Daemon {
	d := &Daemon{
		svc:      svc,
		notifier: notifier,
		interval: opts.Interval,
		urgency:  opts.Urgency,
		logger:   opts.Logger,
		now:      opts.Clock,
	}
	if d.interval <= 0 {
		d.interval = time.Minute
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	d.state = NewState(d.now())
	return d
}

// State returns a copy of the daemon's notification state.
func (d *Daemon) State() State {
	return d.state.clone()
}

// Run resets medications whose interval passed while the daemon was not
// running, then polls until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("daemon started, checking for medication reminders", "interval", d.interval)

	d.state = NewState(d.now())
	d.reset(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopped")
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs one poll: day rollover, reload, evaluate, deliver.
func (d *Daemon) Tick(ctx context.Context) {
	now := d.now()

	if next, rolled := Rollover(d.state, now); rolled {
		d.state = next
		d.logger.Info("new day detected, resetting medications")
		d.reset(ctx)
	}

	// always reload: CLI invocations rewrite the file behind our back
	meds := d.svc.Active()

	var reminders []Reminder
	d.state, reminders = Evaluate(now, meds, d.state)

	for _, r := range reminders {
		name := r.Medication.Name
		if err := d.notifier.Show(ctx, r.Notification(d.urgency)); err != nil {
			d.logger.Error("failed to send notification", "medication", name, "error", err)
			continue
		}
		d.state.MarkNotified(name)
		d.logger.Info("reminder sent", "medication", name, "dose", r.Medication.Dose)
	}
}

func (d *Daemon) reset(ctx context.Context) {
	names, err := d.svc.ResetAll()
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to reset medications", "error", err)
		return
	}
	if len(names) > 0 {
		d.logger.InfoContext(ctx, "medications reset to untaken", "medications", names)
	}
}
