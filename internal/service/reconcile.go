package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// Reconciler sweeps subscription records whose billing period lapsed while
// still marked active and downgrades them to inactive. It runs on a schedule
// from main and uses the administrative repository only; the profile flag is
// left alone because the CRM owns it.
type Reconciler struct {
	subs   domain.AdminSubscriptionRepository
	logger zerolog.Logger
}

// NewReconciler wires the reconciler.
func NewReconciler(subs domain.AdminSubscriptionRepository, logger zerolog.Logger) *Reconciler {
	return &Reconciler{subs: subs, logger: logger}
}

// Run performs one sweep.
func (r *Reconciler) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := r.subs.ExpireLapsed(ctx, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Msg("subscription reconciliation sweep failed")
		return
	}
	if n > 0 {
		r.logger.Info().Int64("expired", n).Msg("lapsed subscriptions marked inactive")
	}
}
