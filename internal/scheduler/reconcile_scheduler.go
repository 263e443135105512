package scheduler

import (
	"github.com/oguzk/stockbasket-backend/internal/app/service"
	"github.com/oguzk/stockbasket-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReconcileScheduler periodically re-derives every active basket's subtotal
// from its active line items and repairs any drift.
type ReconcileScheduler struct {
	cron          *cron.Cron
	basketService service.BasketService
}

func NewReconcileScheduler(basketService service.BasketService) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:          cron.New(),
		basketService: basketService,
	}
}

// Start registers the nightly reconciliation job and starts the cron runner.
func (s *ReconcileScheduler) Start() error {
	// Every night at 03:30, after the bulk of daily traffic
	_, err := s.cron.AddFunc("30 3 * * *", s.runReconciliation)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Subtotal reconciliation scheduler started", map[string]interface{}{
		"schedule": "30 3 * * *",
	})
	return nil
}

// Stop halts the cron runner, waiting for a running job to finish.
func (s *ReconcileScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Subtotal reconciliation scheduler stopped", nil)
}

// RunNow triggers a reconciliation pass outside the schedule.
func (s *ReconcileScheduler) RunNow() {
	s.runReconciliation()
}

func (s *ReconcileScheduler) runReconciliation() {
	logger.Info("Running scheduled subtotal reconciliation", nil)

	repaired, err := s.basketService.ReconcileSubtotals()
	if err != nil {
		logger.Error("Basket subtotal reconciliation failed", err, nil)
		return
	}

	logger.Info("Basket subtotal reconciliation completed", map[string]interface{}{
		"repaired_baskets": repaired,
	})
}
