package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type fakeAdminSubs struct {
	calls   int
	expired int64
	err     error
}

func (f *fakeAdminSubs) UpsertByExternalID(_ context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	return sub, nil
}

func (f *fakeAdminSubs) UpdateStatusByExternalID(context.Context, domain.SubscriptionProvider, string, domain.SubscriptionStatus) error {
	return nil
}

func (f *fakeAdminSubs) ExpireLapsed(_ context.Context, _ time.Time) (int64, error) {
	f.calls++
	return f.expired, f.err
}

func TestReconcilerRun(t *testing.T) {
	subs := &fakeAdminSubs{expired: 2}
	r := NewReconciler(subs, zerolog.Nop())

	r.Run(context.Background())
	assert.Equal(t, 1, subs.calls)
}

func TestReconcilerRunSurvivesFailure(t *testing.T) {
	subs := &fakeAdminSubs{err: errors.New("db down")}
	r := NewReconciler(subs, zerolog.Nop())

	// A failed sweep logs and returns; the next tick retries.
	r.Run(context.Background())
	r.Run(context.Background())
	assert.Equal(t, 2, subs.calls)
}
