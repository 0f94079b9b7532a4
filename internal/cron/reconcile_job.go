package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/internal/payments"
	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
)

const (
	defaultStaleAfter = 30 * time.Minute
	defaultBatchSize  = 100
)

type staleRequestSource interface {
	ListStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) ([]models.AdoptionRequest, error)
}

// paymentResolver is the slice of the lifecycle engine the sweep drives.
// Resolution always goes through the engine's own entry points so the sweep
// can never bypass an invariant.
type paymentResolver interface {
	ConfirmPayment(ctx context.Context, requestID uuid.UUID, paymentIntentID string) (*adoptions.RequestDetail, error)
	Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*adoptions.RequestDetail, error)
}

// ReconcileJobParams configure the stale-payment sweep.
type ReconcileJobParams struct {
	Logger     *logger.Logger
	Requests   staleRequestSource
	Engine     paymentResolver
	Gateway    payments.Gateway
	StaleAfter time.Duration
	BatchSize  int
}

// NewReconcileJob builds the sweep that resolves requests stuck in
// awaiting_payment against gateway truth, bounding how long an animal can
// remain falsely reserved.
func NewReconcileJob(params ReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("request source required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("lifecycle engine required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &reconcileJob{
		logg:       params.Logger,
		requests:   params.Requests,
		engine:     params.Engine,
		gateway:    params.Gateway,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		now:        time.Now,
	}, nil
}

type reconcileJob struct {
	logg       *logger.Logger
	requests   staleRequestSource
	engine     paymentResolver
	gateway    payments.Gateway
	staleAfter time.Duration
	batchSize  int
	now        func() time.Time
}

func (j *reconcileJob) Name() string { return "payment-reconcile" }

func (j *reconcileJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	rows, err := j.requests.ListStaleAwaitingPayment(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("list stale requests: %w", err)
	}

	var errs error
	completed := 0
	cancelled := 0
	deferred := 0
	failed := 0
	for _, row := range rows {
		switch err := j.resolve(ctx, row); {
		case err == nil:
			completed++
		case pkgerrors.HasCode(err, pkgerrors.CodePaymentPending):
			// Gateway has not converged yet; the next sweep retries.
			deferred++
		case errResolvedCancelled(err):
			cancelled++
		default:
			failed++
			errs = multierr.Append(errs, fmt.Errorf("request %s: %w", row.ID, err))
			rowCtx := j.logg.WithAdoptionID(ctx, row.ID.String())
			j.logg.Error(rowCtx, "failed to reconcile stale request", err)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":    cutoff,
		"swept":     len(rows),
		"completed": completed,
		"cancelled": cancelled,
		"deferred":  deferred,
		"failed":    failed,
	})
	j.logg.Info(logCtx, "stale payment sweep complete")
	if errs != nil {
		return fmt.Errorf("%d stale requests failed to reconcile: %w", failed, errs)
	}
	return nil
}

// errCancelled marks a request the sweep resolved by cancellation, so the
// run summary counts it apart from completions.
type errCancelled struct{}

func (errCancelled) Error() string { return "resolved by cancellation" }

func errResolvedCancelled(err error) bool {
	_, ok := err.(errCancelled)
	return ok
}

func (j *reconcileJob) resolve(ctx context.Context, row models.AdoptionRequest) error {
	if row.PaymentIntentID == nil {
		// A request should never wait on payment without an intent; release
		// the reservation.
		if _, err := j.engine.Cancel(ctx, row.ID, uuid.Nil); err != nil {
			return err
		}
		return errCancelled{}
	}

	intent, err := j.gateway.RetrieveIntent(ctx, *row.PaymentIntentID)
	if err != nil {
		return err
	}

	switch intent.Status {
	case enums.IntentStatusSucceeded:
		_, err := j.engine.ConfirmPayment(ctx, row.ID, intent.ID)
		return err
	case enums.IntentStatusFailed, enums.IntentStatusCanceled:
		if _, err := j.engine.Cancel(ctx, row.ID, uuid.Nil); err != nil {
			return err
		}
		return errCancelled{}
	default:
		// Still open at the gateway after the stale window; close the
		// intent so the animal is not reserved indefinitely.
		if err := j.gateway.CancelIntent(ctx, intent.ID); err != nil {
			return err
		}
		if _, err := j.engine.Cancel(ctx, row.ID, uuid.Nil); err != nil {
			return err
		}
		return errCancelled{}
	}
}
