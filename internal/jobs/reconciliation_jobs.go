package jobs

import (
	"context"

	"cleanops-backend/internal/logger"
)

// AutoApprovalSweep advances every due draft work order to APPROVED. The
// sweep re-reads each draft right before transitioning, so two overlapping
// runs approve each order exactly once.
func (jr *JobRunner) AutoApprovalSweep() {
	jr.runWithRecovery("AutoApprovalSweep", func() {
		ctx := context.Background()

		approved, err := jr.workOrders.RunAutoApprovalSweep(ctx)
		if err != nil {
			logger.Error("Auto-approval sweep failed", "error", err)
			return
		}
		logger.Info("Auto-approval sweep finished", "approved", approved)
	})
}

// ReconcileRecognition repairs work orders whose two-write payment
// recognition was interrupted, backfilling the missing collections.
func (jr *JobRunner) ReconcileRecognition() {
	jr.runWithRecovery("ReconcileRecognition", func() {
		ctx := context.Background()

		repaired, err := jr.recon.ReconcileAll(ctx)
		if err != nil {
			logger.Error("Recognition reconciliation failed", "error", err)
			return
		}
		logger.Info("Recognition reconciliation finished", "repaired_orders", repaired)
	})
}
