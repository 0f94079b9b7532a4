package adoptions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/internal/animals"
	"github.com/pawwelfare/shelter-backend/internal/payments"
	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/outbox"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
	"github.com/pawwelfare/shelter-backend/pkg/types"
)

type stubRequestsRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.AdoptionRequest
}

func newStubRequestsRepo() *stubRequestsRepo {
	return &stubRequestsRepo{requests: make(map[uuid.UUID]*models.AdoptionRequest)}
}

func (s *stubRequestsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRequestsRepo) Create(ctx context.Context, request *models.AdoptionRequest) (*models.AdoptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.CreatedAt = time.Now().UTC()
	clone := *request
	s.requests[request.ID] = &clone
	return request, nil
}

func (s *stubRequestsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdoptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *request
	return &clone, nil
}

func (s *stubRequestsRepo) FindActiveByAnimal(ctx context.Context, animalID uuid.UUID) (*models.AdoptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, request := range s.requests {
		if request.AnimalID == animalID && request.Status.IsActive() {
			clone := *request
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRequestsRepo) CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, request := range s.requests {
		if request.AnimalID == animalID && request.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (s *stubRequestsRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*RequestList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := &RequestList{}
	for _, request := range s.requests {
		if request.ApplicantID == applicantID {
			list.Requests = append(list.Requests, toRequestSummary(*request))
		}
	}
	return list, nil
}

func (s *stubRequestsRepo) ListByStatus(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*RequestList, error) {
	panic("not implemented")
}

func (s *stubRequestsRepo) ListStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) ([]models.AdoptionRequest, error) {
	panic("not implemented")
}

func (s *stubRequestsRepo) CompareAndTransition(ctx context.Context, id uuid.UUID, expected, next enums.AdoptionStatus, updates map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok || request.Status != expected {
		return false, nil
	}
	request.Status = next
	for key, value := range updates {
		switch key {
		case "payment_intent_id":
			if v, ok := value.(string); ok {
				request.PaymentIntentID = &v
			}
		case "paid_at":
			if v, ok := value.(time.Time); ok {
				request.PaidAt = &v
			}
		case "rejection_reason":
			if v, ok := value.(string); ok {
				request.RejectionReason = &v
			}
		case "decided_by":
			if v, ok := value.(uuid.UUID); ok {
				request.DecidedBy = &v
			}
		case "decided_at":
			if v, ok := value.(time.Time); ok {
				request.DecidedAt = &v
			}
		}
	}
	return true, nil
}

func (s *stubRequestsRepo) UpdateDecision(ctx context.Context, id uuid.UUID, adminID uuid.UUID, decidedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok || request.Status != enums.AdoptionStatusPending || request.DecidedAt != nil {
		return false, nil
	}
	request.DecidedBy = &adminID
	request.DecidedAt = &decidedAt
	return true, nil
}

type stubRegistry struct {
	mu      sync.Mutex
	animals map[uuid.UUID]*models.Animal
}

func newStubRegistry(seed ...*models.Animal) *stubRegistry {
	registry := &stubRegistry{animals: make(map[uuid.UUID]*models.Animal)}
	for _, animal := range seed {
		registry.animals[animal.ID] = animal
	}
	return registry
}

func (s *stubRegistry) WithTx(tx *gorm.DB) animals.Repository {
	return s
}

func (s *stubRegistry) Create(ctx context.Context, animal *models.Animal) (*models.Animal, error) {
	panic("not implemented")
}

func (s *stubRegistry) FindByID(ctx context.Context, id uuid.UUID) (*models.Animal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	animal, ok := s.animals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *animal
	return &clone, nil
}

func (s *stubRegistry) List(ctx context.Context, params pagination.Params, filters animals.ListFilters) (*animals.AnimalList, error) {
	panic("not implemented")
}

func (s *stubRegistry) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubRegistry) TrySetStatus(ctx context.Context, id uuid.UUID, from, to enums.AnimalStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	animal, ok := s.animals[id]
	if !ok || animal.Status != from {
		return false, nil
	}
	animal.Status = to
	return true, nil
}

func (s *stubRegistry) status(id uuid.UUID) enums.AnimalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animals[id].Status
}

type intentCall struct {
	idempotencyKey string
	amountCents    int64
	currency       string
	metadata       map[string]string
}

type stubGateway struct {
	mu        sync.Mutex
	creates   []intentCall
	cancelled []string
	intent    *payments.Intent
	createErr error
}

func (s *stubGateway) CreateIntent(ctx context.Context, idempotencyKey string, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.creates = append(s.creates, intentCall{idempotencyKey: idempotencyKey, amountCents: amountCents, currency: currency, metadata: metadata})
	if s.intent != nil {
		clone := *s.intent
		return &clone, nil
	}
	return &payments.Intent{
		ID:           "pi_" + idempotencyKey[:8],
		ClientSecret: "secret_" + idempotencyKey[:8],
		Status:       enums.IntentStatusRequiresPayment,
		AmountCents:  amountCents,
		Currency:     currency,
		Metadata:     metadata,
	}, nil
}

func (s *stubGateway) RetrieveIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.intent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "intent not found")
	}
	clone := *s.intent
	return &clone, nil
}

func (s *stubGateway) CancelIntent(ctx context.Context, intentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, intentID)
	return nil
}

type stubEmitter struct {
	mu     sync.Mutex
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubEmitter) types() []enums.OutboxEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]enums.OutboxEventType, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.EventType)
	}
	return out
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func validDetails() types.ApplicationDetails {
	return types.ApplicationDetails{
		HousingType:       "house",
		HasYard:           true,
		WorkSchedule:      "remote",
		Experience:        "grew up with dogs",
		ReasonForAdopting: "companionship",
	}
}

func newTestService(t *testing.T, repo Repository, registry animals.Repository, gateway payments.Gateway, emitter outboxPublisher) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:              repo,
		AnimalRegistry:    registry,
		Gateway:           gateway,
		TransactionRunner: stubTxRunner{},
		Outbox:            emitter,
		Fee:               config.AdoptionConfig{FeeCents: 5000, Currency: "usd"},
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestSubmitRequest(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Name: "Biscuit", Species: "dog", Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, registry, &stubGateway{}, emitter)

	applicantID := uuid.New()
	detail, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Details:     validDetails(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if detail.Status != enums.AdoptionStatusPending {
		t.Fatalf("expected pending got %s", detail.Status)
	}
	if got := registry.status(animal.ID); got != enums.AnimalStatusPending {
		t.Fatalf("expected animal pending got %s", got)
	}
	eventTypes := emitter.types()
	if len(eventTypes) != 2 || eventTypes[0] != enums.EventAdoptionSubmitted || eventTypes[1] != enums.EventAnimalReserved {
		t.Fatalf("unexpected events %v", eventTypes)
	}
}

func TestSubmitRequestMissingDetails(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	svc := newTestService(t, newStubRequestsRepo(), newStubRegistry(animal), &stubGateway{}, &stubEmitter{})

	_, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: uuid.New(),
		AnimalID:    animal.ID,
		Details:     types.ApplicationDetails{HousingType: "house"},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSubmitRequestConcurrentClaims(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	svc := newTestService(t, repo, registry, &stubGateway{}, &stubEmitter{})

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
				ApplicantID: uuid.New(),
				AnimalID:    animal.ID,
				Details:     validDetails(),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	conflicts := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case pkgerrors.HasCode(err, pkgerrors.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner got %d", succeeded)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts got %d", attempts-1, conflicts)
	}

	count, err := repo.CountActiveByAnimal(context.Background(), animal.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one active request got %d", count)
	}
}

func TestBeginPayment(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Details:     validDetails(),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	session, err := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if session.Status != enums.AdoptionStatusAwaitingPayment {
		t.Fatalf("expected awaiting_payment got %s", session.Status)
	}
	if len(gateway.creates) != 1 {
		t.Fatalf("expected one intent got %d", len(gateway.creates))
	}
	if gateway.creates[0].idempotencyKey != detail.ID.String() {
		t.Fatalf("idempotency key should equal request id")
	}
	if gateway.creates[0].metadata[payments.MetadataAdoptionID] != detail.ID.String() {
		t.Fatalf("intent metadata should bind the request id")
	}
	if session.AmountCents != 5000 || session.Currency != "usd" {
		t.Fatalf("unexpected fee %d %s", session.AmountCents, session.Currency)
	}
}

func TestBeginPaymentRetryReturnsSameIntent(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{
		intent: &payments.Intent{
			ID:           "pi_fixed",
			ClientSecret: "secret_fixed",
			Status:       enums.IntentStatusRequiresPayment,
			AmountCents:  5000,
			Currency:     "usd",
		},
	}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Details:     validDetails(),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	first, err := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	if err != nil {
		t.Fatalf("first begin failed: %v", err)
	}
	second, err := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(gateway.creates) != 1 {
		t.Fatalf("retry must not mint a second intent, got %d creates", len(gateway.creates))
	}
	if first.PaymentIntentID != second.PaymentIntentID {
		t.Fatalf("retry returned a different intent")
	}
}

// gatedGateway holds CreateIntent callers at a barrier so two BeginPayment
// calls can both pass the status precondition before either commits.
type gatedGateway struct {
	stubGateway
	arrived chan struct{}
	release chan struct{}
}

func (g *gatedGateway) CreateIntent(ctx context.Context, idempotencyKey string, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	g.arrived <- struct{}{}
	<-g.release
	return g.stubGateway.CreateIntent(ctx, idempotencyKey, amountCents, currency, metadata)
}

func TestBeginPaymentConcurrentCallsShareIntent(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &gatedGateway{
		stubGateway: stubGateway{
			intent: &payments.Intent{
				ID:           "pi_shared",
				ClientSecret: "secret_shared",
				Status:       enums.IntentStatusRequiresPayment,
				AmountCents:  5000,
				Currency:     "usd",
			},
		},
		arrived: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Details:     validDetails(),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	type outcome struct {
		session *PaymentSession
		err     error
	}
	results := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			session, err := svc.BeginPayment(context.Background(), detail.ID, applicantID)
			results <- outcome{session: session, err: err}
		}()
	}
	// Both callers are past the pending check and inside the gateway; the CAS
	// race is now unavoidable.
	<-gateway.arrived
	<-gateway.arrived
	close(gateway.release)

	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			t.Fatalf("both callers must receive a session, got %v", res.err)
		}
		if res.session.PaymentIntentID != "pi_shared" {
			t.Fatalf("expected the shared intent, got %s", res.session.PaymentIntentID)
		}
	}

	stored, err := repo.FindByID(context.Background(), detail.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Status != enums.AdoptionStatusAwaitingPayment {
		t.Fatalf("expected awaiting_payment got %s", stored.Status)
	}
	if stored.PaymentIntentID == nil || *stored.PaymentIntentID != "pi_shared" {
		t.Fatalf("stored intent must be the shared one")
	}
	if len(gateway.cancelled) != 0 {
		t.Fatalf("the race loser must not cancel the live intent, cancelled %v", gateway.cancelled)
	}
}

func TestConfirmPayment(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, registry, gateway, emitter)

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	session, err := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	gateway.intent = &payments.Intent{
		ID:          session.PaymentIntentID,
		Status:      enums.IntentStatusSucceeded,
		AmountCents: 5000,
		Currency:    "usd",
		Metadata:    map[string]string{payments.MetadataAdoptionID: detail.ID.String()},
	}

	confirmed, err := svc.ConfirmPayment(context.Background(), detail.ID, session.PaymentIntentID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if confirmed.Status != enums.AdoptionStatusCompleted {
		t.Fatalf("expected completed got %s", confirmed.Status)
	}
	if confirmed.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}
	if got := registry.status(animal.ID); got != enums.AnimalStatusAdopted {
		t.Fatalf("expected animal adopted got %s", got)
	}
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	session, _ := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	gateway.intent = &payments.Intent{
		ID:          session.PaymentIntentID,
		Status:      enums.IntentStatusSucceeded,
		AmountCents: 5000,
		Currency:    "usd",
		Metadata:    map[string]string{payments.MetadataAdoptionID: detail.ID.String()},
	}

	first, err := svc.ConfirmPayment(context.Background(), detail.ID, session.PaymentIntentID)
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	second, err := svc.ConfirmPayment(context.Background(), detail.ID, session.PaymentIntentID)
	if err != nil {
		t.Fatalf("retried confirm failed: %v", err)
	}
	if second.Status != enums.AdoptionStatusCompleted {
		t.Fatalf("expected completed got %s", second.Status)
	}
	if first.PaidAt == nil || second.PaidAt == nil || !first.PaidAt.Equal(*second.PaidAt) {
		t.Fatal("paid_at must be written exactly once")
	}
}

func TestConfirmPaymentIntentMismatch(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	if _, err := svc.BeginPayment(context.Background(), detail.ID, applicantID); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	_, err := svc.ConfirmPayment(context.Background(), detail.ID, "pi_forged")
	if !pkgerrors.HasCode(err, pkgerrors.CodeIntentMismatch) {
		t.Fatalf("expected intent mismatch got %v", err)
	}
}

func TestConfirmPaymentStillPending(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	session, _ := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	gateway.intent = &payments.Intent{
		ID:       session.PaymentIntentID,
		Status:   enums.IntentStatusRequiresPayment,
		Metadata: map[string]string{payments.MetadataAdoptionID: detail.ID.String()},
	}

	_, err := svc.ConfirmPayment(context.Background(), detail.ID, session.PaymentIntentID)
	if !pkgerrors.HasCode(err, pkgerrors.CodePaymentPending) {
		t.Fatalf("expected payment pending got %v", err)
	}
}

func TestRejectReleasesAnimal(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, registry, &stubGateway{}, emitter)

	firstApplicant := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: firstApplicant, AnimalID: animal.ID, Details: validDetails(),
	})

	adminID := uuid.New()
	rejected, err := svc.Reject(context.Background(), detail.ID, adminID, "home visit failed")
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if rejected.Status != enums.AdoptionStatusRejected {
		t.Fatalf("expected rejected got %s", rejected.Status)
	}
	if got := registry.status(animal.ID); got != enums.AnimalStatusAvailable {
		t.Fatalf("expected animal released got %s", got)
	}

	// The released animal is claimable by the next applicant.
	if _, err := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: uuid.New(), AnimalID: animal.ID, Details: validDetails(),
	}); err != nil {
		t.Fatalf("second applicant should succeed, got %v", err)
	}
}

func TestRejectAfterCompletionFails(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	session, _ := svc.BeginPayment(context.Background(), detail.ID, applicantID)
	gateway.intent = &payments.Intent{
		ID:          session.PaymentIntentID,
		Status:      enums.IntentStatusSucceeded,
		AmountCents: 5000,
		Currency:    "usd",
		Metadata:    map[string]string{payments.MetadataAdoptionID: detail.ID.String()},
	}
	if _, err := svc.ConfirmPayment(context.Background(), detail.ID, session.PaymentIntentID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	_, err := svc.Reject(context.Background(), detail.ID, uuid.New(), "too late")
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict got %v", err)
	}

	stored, _ := svc.GetRequest(context.Background(), detail.ID)
	if stored.Status != enums.AdoptionStatusCompleted {
		t.Fatalf("completed record must not change, got %s", stored.Status)
	}
	if got := registry.status(animal.ID); got != enums.AnimalStatusAdopted {
		t.Fatalf("adopted animal must not be released, got %s", got)
	}
}

func TestCancelReleasesAnimalAndIntent(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	gateway := &stubGateway{}
	svc := newTestService(t, repo, registry, gateway, &stubEmitter{})

	applicantID := uuid.New()
	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: applicantID, AnimalID: animal.ID, Details: validDetails(),
	})
	session, _ := svc.BeginPayment(context.Background(), detail.ID, applicantID)

	cancelled, err := svc.Cancel(context.Background(), detail.ID, applicantID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if cancelled.Status != enums.AdoptionStatusCancelled {
		t.Fatalf("expected cancelled got %s", cancelled.Status)
	}
	if got := registry.status(animal.ID); got != enums.AnimalStatusAvailable {
		t.Fatalf("expected animal released got %s", got)
	}
	if len(gateway.cancelled) != 1 || gateway.cancelled[0] != session.PaymentIntentID {
		t.Fatalf("expected intent cancel, got %v", gateway.cancelled)
	}
}

func TestApprove(t *testing.T) {
	animal := &models.Animal{ID: uuid.New(), Status: enums.AnimalStatusAvailable}
	registry := newStubRegistry(animal)
	repo := newStubRequestsRepo()
	svc := newTestService(t, repo, registry, &stubGateway{}, &stubEmitter{})

	detail, _ := svc.SubmitRequest(context.Background(), SubmitRequestInput{
		ApplicantID: uuid.New(), AnimalID: animal.ID, Details: validDetails(),
	})

	adminID := uuid.New()
	approved, err := svc.Approve(context.Background(), detail.ID, adminID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if approved.Status != enums.AdoptionStatusPending {
		t.Fatalf("approval must not complete the adoption, got %s", approved.Status)
	}
	if approved.DecidedBy == nil || *approved.DecidedBy != adminID {
		t.Fatal("expected decided_by recorded")
	}

	_, err = svc.Approve(context.Background(), detail.ID, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("second approval should conflict, got %v", err)
	}
}
