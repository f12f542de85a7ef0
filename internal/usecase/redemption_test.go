package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
	"github.com/rewardly/giftvault/internal/domain/model"
	testhelpers "github.com/rewardly/giftvault/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type redemptionFixture struct {
	persons     *testhelpers.PersonRepositoryStub
	gifts       *testhelpers.GiftRepositoryStub
	redemptions *testhelpers.RedemptionRepositoryStub
	ledger      *testhelpers.LedgerRepositoryStub
	ttl         *testhelpers.TTLStoreStub
	notifier    *testhelpers.NotifierStub
	uc          *RedemptionUseCase
}

func newRedemptionFixture(window time.Duration) *redemptionFixture {
	f := &redemptionFixture{
		persons:     testhelpers.NewPersonRepositoryStub(),
		gifts:       testhelpers.NewGiftRepositoryStub(),
		redemptions: testhelpers.NewRedemptionRepositoryStub(),
		ledger:      &testhelpers.LedgerRepositoryStub{},
		ttl:         testhelpers.NewTTLStoreStub(),
		notifier:    &testhelpers.NotifierStub{},
	}
	f.uc = NewRedemptionUseCase(
		f.persons,
		f.gifts,
		f.redemptions,
		f.ledger,
		f.ttl,
		f.notifier,
		&testhelpers.CodeGeneratorStub{Codes: []string{"code-1", "code-2"}},
		window,
		testLogger(),
	)
	return f
}

func TestCreateHappyPath(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "alice", 100, []string{"tok-1"})
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	before := time.Now()
	redemption, err := f.uc.Create(context.Background(), person.ID, gift.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if redemption.Status != model.RedemptionStatusPending {
		t.Errorf("expected pending status, got %s", redemption.Status)
	}
	if redemption.Expired {
		t.Error("expected new redemption not to be expired")
	}
	if redemption.Points != 30 {
		t.Errorf("expected cost 30, got %d", redemption.Points)
	}
	if redemption.ClaimCode == nil || *redemption.ClaimCode != "code-1" {
		t.Errorf("expected claim code code-1, got %v", redemption.ClaimCode)
	}

	if person.Points != 70 {
		t.Errorf("expected balance 70, got %d", person.Points)
	}
	if len(f.ledger.Entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(f.ledger.Entries))
	}
	entry := f.ledger.Entries[0]
	if entry.Direction != model.LedgerDirectionDebit || entry.Amount != 30 {
		t.Errorf("expected DEBIT of 30, got %s %d", entry.Direction, entry.Amount)
	}

	expireAt, ok := f.ttl.Records[redemption.ID]
	if !ok {
		t.Fatal("expected expiry record for the redemption")
	}
	if expireAt.Before(before.Add(time.Hour)) || expireAt.After(time.Now().Add(time.Hour)) {
		t.Errorf("unexpected expiry %v", expireAt)
	}

	if len(f.notifier.Sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.Sent))
	}
	if f.notifier.Sent[0].PersonID != person.ID {
		t.Errorf("notification sent to wrong person %d", f.notifier.Sent[0].PersonID)
	}
}

func TestCreateInsufficientBalancePerformsNoWrites(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "bob", 5, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 10)

	_, err := f.uc.Create(context.Background(), person.ID, gift.ID)
	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	if len(f.redemptions.Redemptions) != 0 {
		t.Error("expected no redemption rows")
	}
	if len(f.ledger.Entries) != 0 {
		t.Error("expected no ledger entries")
	}
	if len(f.ttl.Records) != 0 {
		t.Error("expected no expiry records")
	}
	if person.Points != 5 {
		t.Errorf("expected balance untouched, got %d", person.Points)
	}
	if len(f.notifier.Sent) != 0 {
		t.Error("expected no notifications")
	}
}

func TestCreateUnknownPersonOrGift(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "carol", 50, nil)

	if _, err := f.uc.Create(context.Background(), 999, 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown person, got %v", err)
	}
	if _, err := f.uc.Create(context.Background(), person.ID, 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown gift, got %v", err)
	}
	if len(f.redemptions.Redemptions) != 0 || len(f.ledger.Entries) != 0 {
		t.Error("expected no writes on lookup failures")
	}
}

func TestCreateNotificationFailureIsSwallowed(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	f.notifier.Err = errors.New("gateway down")
	person, _ := f.persons.Create(context.Background(), "dave", 100, []string{"tok"})
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	redemption, err := f.uc.Create(context.Background(), person.ID, gift.ID)
	if err != nil {
		t.Fatalf("notification failure must not fail create: %v", err)
	}
	if person.Points != 70 {
		t.Errorf("expected balance decremented, got %d", person.Points)
	}
	if _, ok := f.ttl.Records[redemption.ID]; !ok {
		t.Error("expected expiry record despite notification failure")
	}
}

func TestCreateDuplicateTTLRecordSurfaces(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	f.ttl.PutErr = domainErrors.ErrDuplicateKey
	person, _ := f.persons.Create(context.Background(), "erin", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	_, err := f.uc.Create(context.Background(), person.ID, gift.ID)
	if !errors.Is(err, domainErrors.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestFinalizeByCodeDeletesExpiryRecord(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "frank", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	created, err := f.uc.Create(context.Background(), person.ID, gift.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	redeemerID := int64(42)
	finalized, err := f.uc.FinalizeByCode(context.Background(), *created.ClaimCode, &redeemerID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.Status != model.RedemptionStatusRedeemed {
		t.Errorf("expected redeemed status, got %s", finalized.Status)
	}
	if finalized.Expired {
		t.Error("finalize must not set the expiry flag")
	}
	if _, alive := f.ttl.Records[created.ID]; alive {
		t.Error("expected expiry record to be deleted on finalize")
	}
}

func TestFinalizeByCodeRejectsUnknownOrTerminal(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "grace", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	if _, err := f.uc.FinalizeByCode(context.Background(), "missing", nil); !errors.Is(err, domainErrors.ErrInvalidCode) {
		t.Fatalf("expected invalid code for unknown code, got %v", err)
	}

	created, _ := f.uc.Create(context.Background(), person.ID, gift.ID)
	if _, err := f.uc.FinalizeByCode(context.Background(), *created.ClaimCode, nil); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if _, err := f.uc.FinalizeByCode(context.Background(), *created.ClaimCode, nil); !errors.Is(err, domainErrors.ErrInvalidCode) {
		t.Fatalf("expected invalid code for already redeemed, got %v", err)
	}
}

func TestFinalizeByCodeRejectsExpired(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "heidi", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	created, _ := f.uc.Create(context.Background(), person.ID, gift.ID)
	if _, err := f.redemptions.MarkExpired(context.Background(), created.ID); err != nil {
		t.Fatalf("mark expired failed: %v", err)
	}

	if _, err := f.uc.FinalizeByCode(context.Background(), *created.ClaimCode, nil); !errors.Is(err, domainErrors.ErrInvalidCode) {
		t.Fatalf("expected invalid code for expired redemption, got %v", err)
	}
}

func TestDeleteRemovesExpiryRecord(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "ivan", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)

	created, _ := f.uc.Create(context.Background(), person.ID, gift.ID)
	if err := f.uc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, alive := f.ttl.Records[created.ID]; alive {
		t.Error("expected expiry record removed with the redemption")
	}
	if err := f.uc.Delete(context.Background(), created.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestGetByIDReturnsStoredRedemption(t *testing.T) {
	f := newRedemptionFixture(time.Hour)
	person, _ := f.persons.Create(context.Background(), "judy", 100, nil)
	gift, _ := f.gifts.Create(context.Background(), "mug", 30)
	created, _ := f.uc.Create(context.Background(), person.ID, gift.ID)

	got, err := f.uc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, got.ID)
	}
}
