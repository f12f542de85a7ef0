package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// PersonRepositoryStub stores persons in-memory for tests.
type PersonRepositoryStub struct {
	Persons map[int64]*model.Person
	Next    int64
	Err     error

	AdjustPointsFn func(context.Context, int64, int64) error
	Adjustments    []PointsAdjustment
}

// PointsAdjustment records one AdjustPoints invocation.
type PointsAdjustment struct {
	PersonID int64
	Delta    int64
}

// NewPersonRepositoryStub constructs stub repository with initialized maps.
func NewPersonRepositoryStub() *PersonRepositoryStub {
	return &PersonRepositoryStub{Persons: make(map[int64]*model.Person), Next: 1}
}

// Create registers a person.
func (s *PersonRepositoryStub) Create(ctx context.Context, name string, points int64, fcmTokens []string) (*model.Person, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Persons == nil {
		s.Persons = make(map[int64]*model.Person)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	person := &model.Person{ID: s.Next, Name: name, Points: points, FCMTokens: fcmTokens}
	s.Next++
	s.Persons[person.ID] = person
	return person, nil
}

// GetByID fetches a person or returns not found.
func (s *PersonRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Person, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if person, ok := s.Persons[id]; ok {
		return person, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AdjustPoints applies a delta to the stored balance and records the call.
func (s *PersonRepositoryStub) AdjustPoints(ctx context.Context, id int64, delta int64) error {
	if s.AdjustPointsFn != nil {
		return s.AdjustPointsFn(ctx, id, delta)
	}
	person, ok := s.Persons[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	person.Points += delta
	s.Adjustments = append(s.Adjustments, PointsAdjustment{PersonID: id, Delta: delta})
	return nil
}

// GiftRepositoryStub stores gifts in-memory for tests.
type GiftRepositoryStub struct {
	Gifts map[int64]*model.Gift
	Next  int64
	Err   error
}

// NewGiftRepositoryStub constructs stub repository with initialized maps.
func NewGiftRepositoryStub() *GiftRepositoryStub {
	return &GiftRepositoryStub{Gifts: make(map[int64]*model.Gift), Next: 1}
}

// Create registers a gift.
func (s *GiftRepositoryStub) Create(ctx context.Context, title string, points int64) (*model.Gift, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Gifts == nil {
		s.Gifts = make(map[int64]*model.Gift)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	gift := &model.Gift{ID: s.Next, Title: title, Points: points}
	s.Next++
	s.Gifts[gift.ID] = gift
	return gift, nil
}

// GetByID fetches a gift or returns not found.
func (s *GiftRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Gift, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if gift, ok := s.Gifts[id]; ok {
		return gift, nil
	}
	return nil, domainErrors.ErrNotFound
}

// RedemptionRepositoryStub keeps redemptions in-memory with the same guarded
// transition semantics as the real storage, so expiry idempotency and
// terminal precedence can be exercised against it.
type RedemptionRepositoryStub struct {
	sync.Mutex

	Redemptions map[int64]*model.Redemption
	Next        int64
	Err         error

	CreateFn       func(context.Context, int64, int64, int64, string) (*model.Redemption, error)
	MarkExpiredFn  func(context.Context, int64) (bool, error)
	MarkRedeemedFn func(context.Context, string, *int64) (*model.Redemption, error)

	MarkedExpired []int64
}

// NewRedemptionRepositoryStub constructs stub repository with initialized maps.
func NewRedemptionRepositoryStub() *RedemptionRepositoryStub {
	return &RedemptionRepositoryStub{Redemptions: make(map[int64]*model.Redemption), Next: 1}
}

// Create inserts a pending redemption.
func (s *RedemptionRepositoryStub) Create(ctx context.Context, personID, giftID, points int64, claimCode string) (*model.Redemption, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, personID, giftID, points, claimCode)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.Lock()
	defer s.Unlock()
	if s.Redemptions == nil {
		s.Redemptions = make(map[int64]*model.Redemption)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	code := claimCode
	now := time.Now()
	redemption := &model.Redemption{
		ID:        s.Next,
		PersonID:  personID,
		GiftID:    giftID,
		Status:    model.RedemptionStatusPending,
		Points:    points,
		ClaimCode: &code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Next++
	s.Redemptions[redemption.ID] = redemption
	return redemption, nil
}

// GetByID fetches a redemption or returns not found.
func (s *RedemptionRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Redemption, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Lock()
	defer s.Unlock()
	if redemption, ok := s.Redemptions[id]; ok {
		copied := *redemption
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns redemptions matching the filter.
func (s *RedemptionRepositoryStub) List(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Lock()
	defer s.Unlock()
	var result []model.Redemption
	for _, r := range s.Redemptions {
		if filter.PersonID != nil && r.PersonID != *filter.PersonID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.Expired != nil && r.Expired != *filter.Expired {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

// ListPendingIDs returns ids still eligible for expiry.
func (s *RedemptionRepositoryStub) ListPendingIDs(ctx context.Context) ([]int64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Lock()
	defer s.Unlock()
	var ids []int64
	for _, r := range s.Redemptions {
		if r.Expirable() {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// MarkExpired flips the expiry flag unless the redemption is terminal.
func (s *RedemptionRepositoryStub) MarkExpired(ctx context.Context, id int64) (bool, error) {
	if s.MarkExpiredFn != nil {
		return s.MarkExpiredFn(ctx, id)
	}
	if s.Err != nil {
		return false, s.Err
	}
	s.Lock()
	defer s.Unlock()
	redemption, ok := s.Redemptions[id]
	if !ok || !redemption.Expirable() {
		return false, nil
	}
	redemption.Expired = true
	redemption.UpdatedAt = time.Now()
	s.MarkedExpired = append(s.MarkedExpired, id)
	return true, nil
}

// MarkExpiredBatch flips a set of redemptions.
func (s *RedemptionRepositoryStub) MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	var marked int64
	for _, id := range ids {
		ok, err := s.MarkExpired(ctx, id)
		if err != nil {
			return marked, err
		}
		if ok {
			marked++
		}
	}
	return marked, nil
}

// MarkRedeemed finalizes the pending redemption matching a claim code.
func (s *RedemptionRepositoryStub) MarkRedeemed(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error) {
	if s.MarkRedeemedFn != nil {
		return s.MarkRedeemedFn(ctx, claimCode, redeemerID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.Lock()
	defer s.Unlock()
	for _, r := range s.Redemptions {
		if r.ClaimCode == nil || *r.ClaimCode != claimCode {
			continue
		}
		if !r.Expirable() {
			return nil, domainErrors.ErrInvalidCode
		}
		r.Status = model.RedemptionStatusRedeemed
		r.RedeemerID = redeemerID
		r.UpdatedAt = time.Now()
		copied := *r
		return &copied, nil
	}
	return nil, domainErrors.ErrInvalidCode
}

// Delete removes a redemption.
func (s *RedemptionRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.Lock()
	defer s.Unlock()
	if _, ok := s.Redemptions[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Redemptions, id)
	return nil
}

// LedgerRepositoryStub records appended entries.
type LedgerRepositoryStub struct {
	Entries []model.LedgerEntry
	Err     error

	AppendFn func(context.Context, int64, model.LedgerDirection, int64, *string, string) (*model.LedgerEntry, error)
}

// Append stores the entry.
func (s *LedgerRepositoryStub) Append(ctx context.Context, personID int64, direction model.LedgerDirection, amount int64, invoice *string, detail string) (*model.LedgerEntry, error) {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, personID, direction, amount, invoice, detail)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	entry := model.LedgerEntry{
		ID:        int64(len(s.Entries) + 1),
		PersonID:  personID,
		Direction: direction,
		Amount:    amount,
		Invoice:   invoice,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	s.Entries = append(s.Entries, entry)
	return &entry, nil
}

// ListByPerson returns stored entries for the person.
func (s *LedgerRepositoryStub) ListByPerson(ctx context.Context, personID int64) ([]model.LedgerEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.LedgerEntry
	for _, e := range s.Entries {
		if e.PersonID == personID {
			result = append(result, e)
		}
	}
	return result, nil
}

// TTLStoreStub mimics the TTL record store in-memory. Tests simulate engine
// eviction by removing entries from Records directly.
type TTLStoreStub struct {
	sync.Mutex

	Records map[int64]time.Time
	Deleted []int64

	PutErr    error
	DeleteErr error
	ListErr   error
}

// NewTTLStoreStub constructs the stub with initialized maps.
func NewTTLStoreStub() *TTLStoreStub {
	return &TTLStoreStub{Records: make(map[int64]time.Time)}
}

// Put creates the record, failing on duplicates like the real store.
func (s *TTLStoreStub) Put(ctx context.Context, id int64, expireAt time.Time) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.Lock()
	defer s.Unlock()
	if s.Records == nil {
		s.Records = make(map[int64]time.Time)
	}
	if _, exists := s.Records[id]; exists {
		return domainErrors.ErrDuplicateKey
	}
	s.Records[id] = expireAt
	return nil
}

// DeleteByID removes the record; absent ids are not an error.
func (s *TTLStoreStub) DeleteByID(ctx context.Context, id int64) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.Lock()
	defer s.Unlock()
	delete(s.Records, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// ListIDs returns ids of live records.
func (s *TTLStoreStub) ListIDs(ctx context.Context) ([]int64, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.Lock()
	defer s.Unlock()
	var ids []int64
	for id := range s.Records {
		ids = append(ids, id)
	}
	return ids, nil
}

// Evict removes a record without tracking an explicit deletion, simulating
// the engine expiring the key on its own.
func (s *TTLStoreStub) Evict(id int64) {
	s.Lock()
	defer s.Unlock()
	delete(s.Records, id)
}
