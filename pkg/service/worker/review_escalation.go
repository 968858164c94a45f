package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
)

// ReviewSweeper finds clients whose review is due and notifies operators about them
type ReviewSweeper interface {
	SweepAndNotify(ctx context.Context) (*model.ReviewSummary, error)
}

// ReviewEscalationWorker periodically sweeps client review dates and escalates
// due and overdue reviews.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Running several instances posts one notification per instance and interval
type ReviewEscalationWorker struct {
	sweeper  ReviewSweeper
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewReviewEscalationWorker creates a new worker sweeping every interval
func NewReviewEscalationWorker(sweeper ReviewSweeper, interval time.Duration) *ReviewEscalationWorker {
	return &ReviewEscalationWorker{
		sweeper:  sweeper,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. The first sweep runs immediately in
// the background and does not block server startup.
func (w *ReviewEscalationWorker) Start(ctx context.Context) error {
	logging.Default().Info("review escalation worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReviewEscalationWorker) Stop() {
	logging.Default().Info("review escalation worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("review escalation worker stopped")
}

func (w *ReviewEscalationWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("review escalation worker context cancelled")
			return
		}
	}
}

// sweep runs one cycle. Failures are reported and retried on the next tick.
func (w *ReviewEscalationWorker) sweep(ctx context.Context) {
	startTime := time.Now()

	summary, err := w.sweeper.SweepAndNotify(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "review sweep failed (will retry next interval)")
		return
	}

	logging.Default().Info("review sweep finished",
		"overdue", len(summary.Overdue),
		"due_soon", len(summary.DueSoon),
		"duration", time.Since(startTime).String())
}
