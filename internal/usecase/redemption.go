package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
	"github.com/rewardly/giftvault/internal/pkg/code"
)

// Notifier delivers best-effort device notifications to claimants.
type Notifier interface {
	SendToDevices(ctx context.Context, title, body string, personID int64, tokens []string) error
}

// RedemptionUseCase orchestrates the redemption lifecycle: creation with the
// points debit, claim finalization, listing and administrative deletion.
type RedemptionUseCase struct {
	persons     repository.PersonRepository
	gifts       repository.GiftRepository
	redemptions repository.RedemptionRepository
	ledger      repository.LedgerRepository
	ttl         repository.TTLRecordStore
	notifier    Notifier
	codes       code.Generator
	claimWindow time.Duration
	logger      *slog.Logger
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(
	persons repository.PersonRepository,
	gifts repository.GiftRepository,
	redemptions repository.RedemptionRepository,
	ledger repository.LedgerRepository,
	ttl repository.TTLRecordStore,
	notifier Notifier,
	codes code.Generator,
	claimWindow time.Duration,
	logger *slog.Logger,
) *RedemptionUseCase {
	return &RedemptionUseCase{
		persons:     persons,
		gifts:       gifts,
		redemptions: redemptions,
		ledger:      ledger,
		ttl:         ttl,
		notifier:    notifier,
		codes:       codes,
		claimWindow: claimWindow,
		logger:      logger,
	}
}

// Create redeems a gift for a person: it inserts the pending redemption, its
// expiry record, a DEBIT ledger entry and decrements the balance, then
// notifies the claimant.
//
// The writes span two stores and are not atomic; a crash mid-sequence can
// leave a redemption without a debit or an undecremented balance. The expiry
// record is inserted right after the redemption so no pending redemption is
// ever observable without its expiry guard.
func (u *RedemptionUseCase) Create(ctx context.Context, personID, giftID int64) (*model.Redemption, error) {
	person, err := u.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}

	gift, err := u.gifts.GetByID(ctx, giftID)
	if err != nil {
		return nil, err
	}

	if person.Points < gift.Points {
		return nil, domainErrors.ErrInsufficientBalance
	}

	claimCode := u.codes.Generate()

	redemption, err := u.redemptions.Create(ctx, personID, giftID, gift.Points, claimCode)
	if err != nil {
		return nil, err
	}

	if err := u.ttl.Put(ctx, redemption.ID, time.Now().Add(u.claimWindow)); err != nil {
		return nil, fmt.Errorf("create expiry record: %w", err)
	}

	detail := fmt.Sprintf("redeemed gift %q", gift.Title)
	if _, err := u.ledger.Append(ctx, personID, model.LedgerDirectionDebit, gift.Points, nil, detail); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	if err := u.persons.AdjustPoints(ctx, personID, -gift.Points); err != nil {
		return nil, fmt.Errorf("decrement balance: %w", err)
	}

	if err := u.notifier.SendToDevices(ctx, "Gift redeemed", detail, personID, person.FCMTokens); err != nil {
		u.logger.Warn("redemption notification failed",
			slog.Int64("redemption_id", redemption.ID),
			slog.String("error", err.Error()),
		)
	}

	return redemption, nil
}

// FinalizeByCode completes a pending redemption identified by its claim code
// and removes the expiry record so the sweep can never mark it afterwards.
func (u *RedemptionUseCase) FinalizeByCode(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error) {
	redemption, err := u.redemptions.MarkRedeemed(ctx, claimCode, redeemerID)
	if err != nil {
		return nil, err
	}

	if err := u.ttl.DeleteByID(ctx, redemption.ID); err != nil {
		return nil, fmt.Errorf("delete expiry record: %w", err)
	}

	return redemption, nil
}

// GetByID returns a single redemption.
func (u *RedemptionUseCase) GetByID(ctx context.Context, id int64) (*model.Redemption, error) {
	return u.redemptions.GetByID(ctx, id)
}

// List returns redemptions matching the filter, newest first.
func (u *RedemptionUseCase) List(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error) {
	return u.redemptions.List(ctx, filter)
}

// Delete removes a redemption directly, bypassing the expiry workflow, and
// drops its expiry record so no stale event fires later.
func (u *RedemptionUseCase) Delete(ctx context.Context, id int64) error {
	if err := u.redemptions.Delete(ctx, id); err != nil {
		return err
	}
	return u.ttl.DeleteByID(ctx, id)
}
