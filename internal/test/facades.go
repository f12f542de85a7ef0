package test

import (
	"context"
	"sync"

	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// NotifierStub records notification sends.
type NotifierStub struct {
	sync.Mutex

	Sent []Notification
	Err  error
}

// Notification captures one SendToDevices invocation.
type Notification struct {
	Title    string
	Body     string
	PersonID int64
	Tokens   []string
}

// SendToDevices records the notification or fails with the configured error.
func (s *NotifierStub) SendToDevices(ctx context.Context, title, body string, personID int64, tokens []string) error {
	s.Lock()
	defer s.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, Notification{Title: title, Body: body, PersonID: personID, Tokens: tokens})
	return nil
}

// CodeGeneratorStub returns predictable claim codes.
type CodeGeneratorStub struct {
	Codes []string
	next  int
}

// Generate returns the next configured code, or a fixed fallback.
func (s *CodeGeneratorStub) Generate() string {
	if s.next < len(s.Codes) {
		code := s.Codes[s.next]
		s.next++
		return code
	}
	return "stub-code"
}

// SweepFacadeStub implements the sweeper facade with overridable behaviour.
type SweepFacadeStub struct {
	sync.Mutex

	Pending []int64
	Alive   []int64
	Batches [][]int64

	PendingErr error
	AliveErr   error
	MarkErr    error

	MarkFn func(context.Context, []int64) (int64, error)
}

// PendingRedemptionIDs returns the configured pending set.
func (s *SweepFacadeStub) PendingRedemptionIDs(ctx context.Context) ([]int64, error) {
	s.Lock()
	defer s.Unlock()
	if s.PendingErr != nil {
		return nil, s.PendingErr
	}
	return append([]int64(nil), s.Pending...), nil
}

// AliveTTLIDs returns the configured alive set.
func (s *SweepFacadeStub) AliveTTLIDs(ctx context.Context) ([]int64, error) {
	s.Lock()
	defer s.Unlock()
	if s.AliveErr != nil {
		return nil, s.AliveErr
	}
	return append([]int64(nil), s.Alive...), nil
}

// MarkExpiredBatch records the batch and reports every id as marked.
func (s *SweepFacadeStub) MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error) {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, ids)
	}
	s.Lock()
	defer s.Unlock()
	if s.MarkErr != nil {
		return 0, s.MarkErr
	}
	s.Batches = append(s.Batches, append([]int64(nil), ids...))
	return int64(len(ids)), nil
}

// ExpiryStreamStub hands out a test-controlled event channel.
type ExpiryStreamStub struct {
	sync.Mutex

	Events       chan int64
	SubscribeErr error
	Subscribed   int
}

// Subscribe returns the configured channel, counting invocations.
func (s *ExpiryStreamStub) Subscribe(ctx context.Context) (<-chan int64, error) {
	s.Lock()
	defer s.Unlock()
	s.Subscribed++
	if s.SubscribeErr != nil {
		return nil, s.SubscribeErr
	}
	return s.Events, nil
}

// ExpiryMarkerStub records expiry marks.
type ExpiryMarkerStub struct {
	sync.Mutex

	Marked []int64
	Err    error
}

// MarkExpired records the id.
func (s *ExpiryMarkerStub) MarkExpired(ctx context.Context, id int64) error {
	s.Lock()
	defer s.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Marked = append(s.Marked, id)
	return nil
}

// GiftFacadeStub satisfies the HTTP handler facade with overridable functions.
type GiftFacadeStub struct {
	CreateRedemptionFn func(context.Context, int64, int64) (*model.Redemption, error)
	FinalizeByCodeFn   func(context.Context, string, *int64) (*model.Redemption, error)
	RedemptionByIDFn   func(context.Context, int64) (*model.Redemption, error)
	RedemptionsFn      func(context.Context, repository.RedemptionFilter) ([]model.Redemption, error)
	DeleteFn           func(context.Context, int64) error
	LedgerHistoryFn    func(context.Context, int64) ([]model.LedgerEntry, error)
}

func (s *GiftFacadeStub) CreateRedemption(ctx context.Context, personID, giftID int64) (*model.Redemption, error) {
	if s.CreateRedemptionFn != nil {
		return s.CreateRedemptionFn(ctx, personID, giftID)
	}
	return &model.Redemption{ID: 1, PersonID: personID, GiftID: giftID, Status: model.RedemptionStatusPending}, nil
}

func (s *GiftFacadeStub) FinalizeByCode(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error) {
	if s.FinalizeByCodeFn != nil {
		return s.FinalizeByCodeFn(ctx, claimCode, redeemerID)
	}
	return &model.Redemption{ID: 1, Status: model.RedemptionStatusRedeemed}, nil
}

func (s *GiftFacadeStub) RedemptionByID(ctx context.Context, id int64) (*model.Redemption, error) {
	if s.RedemptionByIDFn != nil {
		return s.RedemptionByIDFn(ctx, id)
	}
	return &model.Redemption{ID: id, Status: model.RedemptionStatusPending}, nil
}

func (s *GiftFacadeStub) Redemptions(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error) {
	if s.RedemptionsFn != nil {
		return s.RedemptionsFn(ctx, filter)
	}
	return nil, nil
}

func (s *GiftFacadeStub) DeleteRedemption(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s *GiftFacadeStub) LedgerHistory(ctx context.Context, personID int64) ([]model.LedgerEntry, error) {
	if s.LedgerHistoryFn != nil {
		return s.LedgerHistoryFn(ctx, personID)
	}
	return nil, nil
}
