package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SubmitPayoutsResult counts what one submission pass did.
type SubmitPayoutsResult struct {
	Submitted int
	Failed    int
	Skipped   int
}

// SubmitPayoutsCommandHandler moves pending payouts to processing and submits
// them to the payment rail.
//
// Each payout is claimed in its own transaction before the rail is called, so
// two concurrent passes never submit the same payout. A payout that another
// pass claimed first is skipped. A rail rejection marks the payout failed.
// Completion is reported later by the processor webhook.
type SubmitPayoutsCommandHandler struct {
	uowFactory PayoutUoWFactory
	rail       ports.PaymentRail
	logger     *slog.Logger
}

func NewSubmitPayoutsCommandHandler(
	uowFactory PayoutUoWFactory,
	rail ports.PaymentRail,
	logger *slog.Logger,
) SubmitPayoutsCommandHandler {
	return SubmitPayoutsCommandHandler{
		uowFactory: uowFactory,
		rail:       rail,
		logger:     logger.With("component", "payout_submitter"),
	}
}

func (h SubmitPayoutsCommandHandler) Handle(ctx context.Context, cmd SubmitPayoutsCommand) (SubmitPayoutsResult, error) {
	var result SubmitPayoutsResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	pending, err := h.listPending(ctx, cmd.BatchSize())
	if err != nil {
		return result, err
	}

	for _, p := range pending {
		claimed, claimErr := h.claim(ctx, p)
		if claimErr != nil {
			return result, claimErr
		}
		if !claimed {
			result.Skipped++
			continue
		}

		if h.submit(ctx, p) {
			result.Submitted++
		} else {
			result.Failed++
		}
	}

	return result, nil
}

func (h SubmitPayoutsCommandHandler) listPending(ctx context.Context, limit int) ([]*payout.Payout, error) {
	uow := h.uowFactory.Create()
	return uow.PayoutRepository().ListPending(ctx, limit)
}

// claim reports false when the payout left pending after it was listed.
func (h SubmitPayoutsCommandHandler) claim(ctx context.Context, p *payout.Payout) (bool, error) {
	err := h.inTx(ctx, func(repo ports.PayoutRepository) error {
		if _, err := p.MarkProcessing(time.Now()); err != nil {
			return err
		}
		return repo.ApplyStatus(ctx, p, payout.Pending)
	})
	if errors.Is(err, errs.ErrStaleState) {
		h.logger.InfoContext(ctx, "payout already claimed", "payout_id", p.ID().String())
		return false, nil
	}
	return err == nil, err
}

// submit calls the rail and records the outcome. It reports whether the rail
// accepted the payout.
func (h SubmitPayoutsCommandHandler) submit(ctx context.Context, p *payout.Payout) bool {
	state := p.Snapshot()
	reference, railErr := h.rail.SubmitPayout(ctx, ports.PayoutInstruction{
		PayoutID:      state.ID,
		RecipientID:   state.RecipientID,
		RecipientType: state.RecipientType,
		Amount:        state.Amount,
		Currency:      state.Currency,
	})

	var err error
	if railErr != nil {
		h.logger.ErrorContext(ctx, "payout submission rejected", "payout_id", state.ID.String(), "error", railErr)
		err = h.inTx(ctx, func(repo ports.PayoutRepository) error {
			if _, markErr := p.MarkFailed(railErr.Error(), time.Now()); markErr != nil {
				return markErr
			}
			return repo.ApplyStatus(ctx, p, payout.Processing)
		})
	} else if reference != "" {
		err = h.inTx(ctx, func(repo ports.PayoutRepository) error {
			if recordErr := p.RecordRailReference(reference, time.Now()); recordErr != nil {
				return recordErr
			}
			return repo.ApplyStatus(ctx, p, payout.Processing)
		})
	}

	// A webhook may already have moved the payout on; its state wins.
	if errors.Is(err, errs.ErrStaleState) {
		h.logger.InfoContext(ctx, "payout moved on before submission was recorded", "payout_id", state.ID.String())
	} else if err != nil {
		h.logger.ErrorContext(ctx, "failed to record payout submission", "payout_id", state.ID.String(), "error", err)
	}

	return railErr == nil
}

func (h SubmitPayoutsCommandHandler) inTx(ctx context.Context, fn func(repo ports.PayoutRepository) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow.PayoutRepository()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
