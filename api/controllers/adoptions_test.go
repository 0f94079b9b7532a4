package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/api/middleware"
	adoptionsvc "github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
	"github.com/pawwelfare/shelter-backend/pkg/types"
)

type testAdoptionService struct {
	submitFn        func(ctx context.Context, input adoptionsvc.SubmitRequestInput) (*adoptionsvc.RequestDetail, error)
	beginPaymentFn  func(ctx context.Context, requestID, applicantID uuid.UUID) (*adoptionsvc.PaymentSession, error)
	confirmFn       func(ctx context.Context, requestID uuid.UUID, paymentIntentID string) (*adoptionsvc.RequestDetail, error)
	approveFn       func(ctx context.Context, requestID, adminID uuid.UUID) (*adoptionsvc.RequestDetail, error)
	rejectFn        func(ctx context.Context, requestID, adminID uuid.UUID, reason string) (*adoptionsvc.RequestDetail, error)
	cancelFn        func(ctx context.Context, requestID, actorID uuid.UUID) (*adoptionsvc.RequestDetail, error)
	getFn           func(ctx context.Context, requestID uuid.UUID) (*adoptionsvc.RequestDetail, error)
	listHistoryFn   func(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*adoptionsvc.RequestList, error)
	listForReviewFn func(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*adoptionsvc.RequestList, error)
}

func (s *testAdoptionService) SubmitRequest(ctx context.Context, input adoptionsvc.SubmitRequestInput) (*adoptionsvc.RequestDetail, error) {
	return s.submitFn(ctx, input)
}

func (s *testAdoptionService) BeginPayment(ctx context.Context, requestID, applicantID uuid.UUID) (*adoptionsvc.PaymentSession, error) {
	return s.beginPaymentFn(ctx, requestID, applicantID)
}

func (s *testAdoptionService) ConfirmPayment(ctx context.Context, requestID uuid.UUID, paymentIntentID string) (*adoptionsvc.RequestDetail, error) {
	return s.confirmFn(ctx, requestID, paymentIntentID)
}

func (s *testAdoptionService) Approve(ctx context.Context, requestID, adminID uuid.UUID) (*adoptionsvc.RequestDetail, error) {
	return s.approveFn(ctx, requestID, adminID)
}

func (s *testAdoptionService) Reject(ctx context.Context, requestID, adminID uuid.UUID, reason string) (*adoptionsvc.RequestDetail, error) {
	return s.rejectFn(ctx, requestID, adminID, reason)
}

func (s *testAdoptionService) Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*adoptionsvc.RequestDetail, error) {
	return s.cancelFn(ctx, requestID, actorID)
}

func (s *testAdoptionService) GetRequest(ctx context.Context, requestID uuid.UUID) (*adoptionsvc.RequestDetail, error) {
	return s.getFn(ctx, requestID)
}

func (s *testAdoptionService) ListHistory(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*adoptionsvc.RequestList, error) {
	return s.listHistoryFn(ctx, applicantID, params)
}

func (s *testAdoptionService) ListForReview(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*adoptionsvc.RequestList, error) {
	return s.listForReviewFn(ctx, status, params)
}

func (s *testAdoptionService) CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func validApplication() types.ApplicationDetails {
	return types.ApplicationDetails{
		HousingType:       "house",
		HasYard:           true,
		WorkSchedule:      "remote",
		Experience:        "grew up with dogs",
		ReasonForAdopting: "companionship",
	}
}

func TestSubmitAdoptionSuccess(t *testing.T) {
	applicantID := uuid.New()
	animalID := uuid.New()
	svc := &testAdoptionService{
		submitFn: func(ctx context.Context, input adoptionsvc.SubmitRequestInput) (*adoptionsvc.RequestDetail, error) {
			if input.ApplicantID != applicantID {
				t.Fatalf("unexpected applicant %s", input.ApplicantID)
			}
			if input.AnimalID != animalID {
				t.Fatalf("unexpected animal %s", input.AnimalID)
			}
			return &adoptionsvc.RequestDetail{
				ID:          uuid.New(),
				ApplicantID: input.ApplicantID,
				AnimalID:    input.AnimalID,
				Status:      enums.AdoptionStatusPending,
			}, nil
		},
	}

	body, _ := json.Marshal(map[string]any{
		"animal_id":           animalID.String(),
		"application_details": validApplication(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/adoptions", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), applicantID))

	resp := httptest.NewRecorder()
	SubmitAdoption(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitAdoptionRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/adoptions", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	SubmitAdoption(&testAdoptionService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSubmitAdoptionRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/adoptions", bytes.NewReader([]byte(`{"animal_id":"not-a-uuid"`)))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	SubmitAdoption(&testAdoptionService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetAdoptionHidesForeignRequests(t *testing.T) {
	owner := uuid.New()
	requestID := uuid.New()
	svc := &testAdoptionService{
		getFn: func(ctx context.Context, id uuid.UUID) (*adoptionsvc.RequestDetail, error) {
			return &adoptionsvc.RequestDetail{ID: id, ApplicantID: owner}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/adoptions/"+requestID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	req = addRouteParam(req, "requestID", requestID.String())

	resp := httptest.NewRecorder()
	GetAdoption(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetAdoptionAllowsStaff(t *testing.T) {
	requestID := uuid.New()
	svc := &testAdoptionService{
		getFn: func(ctx context.Context, id uuid.UUID) (*adoptionsvc.RequestDetail, error) {
			return &adoptionsvc.RequestDetail{ID: id, ApplicantID: uuid.New()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/adoptions/"+requestID.String(), nil)
	req = req.WithContext(middleware.WithIsAdmin(middleware.WithUserID(req.Context(), uuid.New()), true))
	req = addRouteParam(req, "requestID", requestID.String())

	resp := httptest.NewRecorder()
	GetAdoption(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdoptionHistoryPassesPagination(t *testing.T) {
	applicantID := uuid.New()
	svc := &testAdoptionService{
		listHistoryFn: func(ctx context.Context, id uuid.UUID, params pagination.Params) (*adoptionsvc.RequestList, error) {
			if id != applicantID {
				t.Fatalf("unexpected applicant %s", id)
			}
			if params.Limit != 10 {
				t.Fatalf("expected limit 10 got %d", params.Limit)
			}
			return &adoptionsvc.RequestList{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/adoptions/history?limit=10", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), applicantID))

	resp := httptest.NewRecorder()
	AdoptionHistory(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestReviewQueueRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/adoptions?status=bogus", nil)
	resp := httptest.NewRecorder()
	ReviewQueue(&testAdoptionService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRejectAdoptionRequiresReason(t *testing.T) {
	requestID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/adoptions/"+requestID.String()+"/reject", bytes.NewReader([]byte(`{}`)))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	req = addRouteParam(req, "requestID", requestID.String())

	resp := httptest.NewRecorder()
	RejectAdoption(&testAdoptionService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelAdoptionForwardsActor(t *testing.T) {
	requestID := uuid.New()
	actorID := uuid.New()
	svc := &testAdoptionService{
		cancelFn: func(ctx context.Context, id, actor uuid.UUID) (*adoptionsvc.RequestDetail, error) {
			if id != requestID {
				t.Fatalf("unexpected request %s", id)
			}
			if actor != actorID {
				t.Fatalf("unexpected actor %s", actor)
			}
			return &adoptionsvc.RequestDetail{ID: id, Status: enums.AdoptionStatusCancelled}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/adoptions/"+requestID.String()+"/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID))
	req = addRouteParam(req, "requestID", requestID.String())

	resp := httptest.NewRecorder()
	CancelAdoption(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
