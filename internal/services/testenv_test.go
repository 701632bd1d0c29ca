package services

import (
	"testing"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/events"
	"github.com/senyabanana/tender-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *fakeStore
	clock     *clock.Fake
	winner    *WinnerService
	requests  *RequestService
	offers    *OfferService
	questions *QuestionService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	clk := clock.NewFake(baseTime)
	publisher := events.NewPublisher("test", "")

	requestRepo := &fakeRequestRepo{store: store}
	offerRepo := &fakeOfferRepo{store: store}
	contractRepo := &fakeContractRepo{store: store}
	questionRepo := &fakeQuestionRepo{store: store}

	winner := NewWinnerService(requestRepo, offerRepo, contractRepo, clk, publisher)
	requests := NewRequestService(requestRepo, offerRepo, winner, clk)
	offers := NewOfferService(offerRepo, requests, clk, publisher)
	questions := NewQuestionService(questionRepo, requests, clk, publisher)

	return &testEnv{
		store:     store,
		clock:     clk,
		winner:    winner,
		requests:  requests,
		offers:    offers,
		questions: questions,
	}
}

func (e *testEnv) addRequest(ownerId int64, policy models.SelectionPolicy, deadline time.Time) *models.Request {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.nextRequestID++
	request := &models.Request{
		ID:              e.store.nextRequestID,
		OwnerID:         ownerId,
		OwnerCompany:    "Owner LLC",
		State:           models.PendingRequest,
		SelectionPolicy: policy,
		OffersDeadline:  deadline,
		CreatedAt:       baseTime.Add(-time.Hour),
	}
	e.store.requests[request.ID] = request
	return copyRequest(request)
}

func (e *testEnv) addOffer(requestId, providerId int64, price string) *models.Offer {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.nextOfferID++
	offer := &models.Offer{
		ID:         e.store.nextOfferID,
		RequestID:  requestId,
		ProviderID: providerId,
		Price:      decimal.RequireFromString(price),
		Status:     models.PendingOffer,
		CreatedAt:  baseTime.Add(-time.Minute),
	}
	e.store.offers[offer.ID] = offer
	return copyOffer(offer)
}

func (e *testEnv) request(t *testing.T, requestId int64) *models.Request {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	request, ok := e.store.requests[requestId]
	if !ok {
		t.Fatalf("request %d is missing from the store", requestId)
	}
	return copyRequest(request)
}

func (e *testEnv) offer(t *testing.T, offerId int64) *models.Offer {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	offer, ok := e.store.offers[offerId]
	if !ok {
		t.Fatalf("offer %d is missing from the store", offerId)
	}
	return copyOffer(offer)
}

func providerCaps(accountId int64, size int, rating float64) models.CapabilitySnapshot {
	return models.CapabilitySnapshot{
		AccountID:   accountId,
		Role:        models.RoleProvider,
		CompanyName: "Provider LLC",
		CompanySize: &size,
		Rating:      &rating,
	}
}

func purchaserCaps(accountId int64) models.CapabilitySnapshot {
	return models.CapabilitySnapshot{
		AccountID:   accountId,
		Role:        models.RolePurchaser,
		CompanyName: "Owner LLC",
	}
}

func wantKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	errResp, ok := err.(*models.ErrorResponse)
	if !ok {
		t.Fatalf("expected *models.ErrorResponse, got %T: %v", err, err)
	}
	if errResp.Kind != kind {
		t.Fatalf("expected error kind %s, got %s (%s)", kind, errResp.Kind, errResp.Message)
	}
}
