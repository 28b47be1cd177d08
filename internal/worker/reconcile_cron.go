package worker

// reconcile_cron.go periodically compares each credit customer's stored
// balance with the balance derived from its ledger and reports drift.

import (
	"context"
	"time"

	"shoppos/internal/dto"
	"shoppos/internal/infra"

	"github.com/rs/zerolog/log"
)

// Reconciler is satisfied by service.CustomerService.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]dto.BalanceDrift, error)
}

// StartReconcileCron runs a reconciliation every interval until ctx ends.
func StartReconcileCron(ctx context.Context, r Reconciler, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				reconcileOnce(ctx, r)
			}
		}
	}()
}

func reconcileOnce(ctx context.Context, r Reconciler) int {
	drift, err := r.Reconcile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: reconciliation failed")
		return 0
	}
	infra.CreditDriftCustomers.Set(float64(len(drift)))
	for _, d := range drift {
		log.Warn().
			Str("customer_id", d.CustomerID).
			Str("name", d.Name).
			Str("stored", d.StoredBalance.StringFixed(2)).
			Str("ledger", d.LedgerBalance.StringFixed(2)).
			Msg("reconcile_cron: balance drift")
	}
	return len(drift)
}
