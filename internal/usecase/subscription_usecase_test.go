package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]entity.SubscriptionPlan
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = uuid.New()
	r.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) FindAll(ctx context.Context) ([]entity.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.SubscriptionPlan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return 0, nil
	}
	delete(r.plans, id)
	return 1, nil
}

type fakeSubscriptionRepo struct {
	mu            sync.Mutex
	subscriptions map[uuid.UUID]entity.DoctorSubscription
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, subscription *entity.DoctorSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	subscription.ID = uuid.New()
	r.subscriptions[subscription.ID] = *subscription
	return nil
}

func (r *fakeSubscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.DoctorSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subscriptions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindPending(ctx context.Context) ([]entity.DoctorSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DoctorSubscription
	for _, s := range r.subscriptions {
		if s.PaymentStatus == entity.PaymentStatusPending {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindCurrentByDoctor(ctx context.Context, doctorID uuid.UUID, now time.Time) (*entity.DoctorSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current *entity.DoctorSubscription
	for _, s := range r.subscriptions {
		if s.DoctorID == doctorID && s.IsCurrent(now) && (current == nil || s.EndDate.After(current.EndDate)) {
			cp := s
			current = &cp
		}
	}
	return current, nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus, paymentStatus entity.PaymentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subscriptions[id]
	if !ok || s.PaymentStatus != entity.PaymentStatusPending {
		return 0, nil
	}
	s.Status, s.PaymentStatus = status, paymentStatus
	r.subscriptions[id] = s
	return 1, nil
}

func (r *fakeSubscriptionRepo) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.subscriptions {
		if s.Status == entity.SubscriptionStatusActive && !s.EndDate.After(now) {
			s.Status = entity.SubscriptionStatusExpired
			r.subscriptions[id] = s
			n++
		}
	}
	return n, nil
}

type fakePaymentInfoRepo struct {
	info *entity.PaymentInfo
}

func (r *fakePaymentInfoRepo) Get(ctx context.Context) (*entity.PaymentInfo, error) {
	if r.info == nil {
		return nil, nil
	}
	cp := *r.info
	return &cp, nil
}

func (r *fakePaymentInfoRepo) Upsert(ctx context.Context, info *entity.PaymentInfo) error {
	info.ID = entity.PaymentInfoID
	cp := *info
	r.info = &cp
	return nil
}

type subscriptionFixture struct {
	usecase       *subscriptionUsecase
	subscriptions *fakeSubscriptionRepo
	audit         *fakeAuditService
	plan          *dto.SubscriptionPlanResponse
	adminID       uuid.UUID
	doctorID      uuid.UUID
	clock         time.Time
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()
	f := &subscriptionFixture{
		subscriptions: &fakeSubscriptionRepo{subscriptions: map[uuid.UUID]entity.DoctorSubscription{}},
		audit:         &fakeAuditService{},
		adminID:       uuid.New(),
		doctorID:      uuid.New(),
		clock:         monday.Add(9 * time.Hour),
	}
	f.usecase = NewSubscriptionUsecase(
		newTestLogger(),
		&fakePlanRepo{plans: map[uuid.UUID]entity.SubscriptionPlan{}},
		f.subscriptions,
		&fakePaymentInfoRepo{},
		f.audit,
	).(*subscriptionUsecase)
	f.usecase.now = func() time.Time { return f.clock }

	plan, err := f.usecase.CreatePlan(context.Background(), f.adminID, &dto.SubscriptionPlanRequest{
		Name:         "Monthly",
		DurationDays: 30,
		Price:        decimal.NewFromInt(500),
		Features:     []string{"listing"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating plan: %v", err)
	}
	f.plan = plan
	return f
}

func (f *subscriptionFixture) subscribe(t *testing.T) *dto.DoctorSubscriptionResponse {
	t.Helper()
	resp, err := f.usecase.Subscribe(context.Background(), f.doctorID, &dto.SubscribeRequest{
		PlanID:         f.plan.ID.String(),
		PaymentMethod:  entity.PaymentMethodBkash,
		PaymentDetails: dto.PaymentDetailsRequest{BkashNumber: "01700000000"},
	})
	if err != nil {
		t.Fatalf("unexpected error subscribing: %v", err)
	}
	return resp
}

func TestSubscribeStartsPendingSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)
	resp := f.subscribe(t)

	if resp.Status != string(entity.SubscriptionStatusActive) || resp.PaymentStatus != string(entity.PaymentStatusPending) {
		t.Errorf("expected active/pending, got %s/%s", resp.Status, resp.PaymentStatus)
	}
	if want := resp.StartDate.AddDate(0, 0, 30); !resp.EndDate.Equal(want) {
		t.Errorf("expected end date %v, got %v", want, resp.EndDate)
	}
	if resp.Plan == nil || resp.Plan.Name != "Monthly" {
		t.Errorf("expected plan in response, got %+v", resp.Plan)
	}

	pending, err := f.usecase.GetPendingSubscriptions(context.Background())
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending subscription, got %d (%v)", len(pending), err)
	}
}

func TestSubscribeRejectsBadInput(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Subscribe(ctx, f.doctorID, &dto.SubscribeRequest{
		PlanID:        f.plan.ID.String(),
		PaymentMethod: entity.PaymentMethodBank,
	})
	if !errors.Is(err, ErrPaymentDetailsRequired) {
		t.Errorf("expected ErrPaymentDetailsRequired, got %v", err)
	}

	_, err = f.usecase.Subscribe(ctx, f.doctorID, &dto.SubscribeRequest{
		PlanID:         uuid.NewString(),
		PaymentMethod:  entity.PaymentMethodBkash,
		PaymentDetails: dto.PaymentDetailsRequest{BkashNumber: "01700000000"},
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestApproveAndRejectSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	approved, err := f.usecase.ApproveSubscription(ctx, f.adminID, f.subscribe(t).ID)
	if err != nil {
		t.Fatalf("unexpected error approving: %v", err)
	}
	if approved.PaymentStatus != string(entity.PaymentStatusPaid) {
		t.Errorf("expected paid, got %s", approved.PaymentStatus)
	}
	if _, err := f.usecase.RejectSubscription(ctx, f.adminID, approved.ID); !errors.Is(err, ErrSubscriptionNotPending) {
		t.Errorf("expected ErrSubscriptionNotPending once settled, got %v", err)
	}

	rejected, err := f.usecase.RejectSubscription(ctx, f.adminID, f.subscribe(t).ID)
	if err != nil {
		t.Fatalf("unexpected error rejecting: %v", err)
	}
	if rejected.Status != string(entity.SubscriptionStatusCancelled) || rejected.PaymentStatus != string(entity.PaymentStatusFailed) {
		t.Errorf("expected cancelled/failed, got %s/%s", rejected.Status, rejected.PaymentStatus)
	}

	if _, err := f.usecase.ApproveSubscription(ctx, f.adminID, uuid.New()); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestActiveSubscriptionAndExpiry(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	if ok, _ := f.usecase.HasActiveSubscription(ctx, f.doctorID); ok {
		t.Fatal("expected no active subscription before subscribing")
	}
	if _, err := f.usecase.GetMySubscription(ctx, f.doctorID); !errors.Is(err, ErrNoActiveSubscription) {
		t.Errorf("expected ErrNoActiveSubscription, got %v", err)
	}

	f.subscribe(t)
	if ok, _ := f.usecase.HasActiveSubscription(ctx, f.doctorID); !ok {
		t.Fatal("expected an active subscription after subscribing")
	}

	f.clock = f.clock.AddDate(0, 0, 31)
	if ok, _ := f.usecase.HasActiveSubscription(ctx, f.doctorID); ok {
		t.Error("expected subscription past its end date to grant nothing")
	}

	expired, err := f.usecase.ExpireSubscriptions(ctx)
	if err != nil || expired != 1 {
		t.Fatalf("expected one expired subscription, got %d (%v)", expired, err)
	}
	if expired, _ := f.usecase.ExpireSubscriptions(ctx); expired != 0 {
		t.Errorf("expected expiry to be idempotent, got %d", expired)
	}
}

func TestPaymentInfo(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	if _, err := f.usecase.GetPaymentInfo(ctx); !errors.Is(err, ErrPaymentInfoNotFound) {
		t.Errorf("expected ErrPaymentInfoNotFound, got %v", err)
	}

	req := &dto.PaymentInfoRequest{
		BkashNumber:       "01711111111",
		BankAccountName:   "Clinic Ltd",
		BankAccountNumber: "123456789",
		BankName:          "City Bank",
		BankBranch:        "Gulshan",
	}
	if _, err := f.usecase.UpdatePaymentInfo(ctx, f.adminID, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := f.usecase.GetPaymentInfo(ctx)
	if err != nil || info.BankName != "City Bank" {
		t.Errorf("expected stored payment info, got %+v (%v)", info, err)
	}
}

func TestPlanLifecycle(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	updated, err := f.usecase.UpdatePlan(ctx, f.adminID, f.plan.ID, &dto.SubscriptionPlanRequest{
		Name:         "Quarterly",
		DurationDays: 90,
		Price:        decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Quarterly" || updated.DurationDays != 90 || len(updated.Features) != 0 {
		t.Errorf("unexpected updated plan %+v", updated)
	}

	if err := f.usecase.DeletePlan(ctx, f.adminID, f.plan.ID); err != nil {
		t.Fatalf("unexpected error deleting: %v", err)
	}
	if err := f.usecase.DeletePlan(ctx, f.adminID, f.plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}

	want := []string{entity.AuditActionPlanCreate, entity.AuditActionPlanUpdate, entity.AuditActionPlanDelete}
	got := f.audit.actions()
	if len(got) != len(want) {
		t.Fatalf("expected audit actions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("audit action %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
