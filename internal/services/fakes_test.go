package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"
)

// fakeStore - общее in-memory хранилище для фейковых репозиториев.
// Финализация повторяет семантику настоящей транзакции: контракт, статусы
// предложений и терминальное состояние запроса меняются под одной блокировкой.
type fakeStore struct {
	mu        sync.Mutex
	requests  map[int64]*models.Request
	offers    map[int64]*models.Offer
	contracts map[int64]*models.Contract // ключ - request_id
	questions map[int64]*models.Question

	nextRequestID  int64
	nextOfferID    int64
	nextContractID int64
	nextQuestionID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:  make(map[int64]*models.Request),
		offers:    make(map[int64]*models.Offer),
		contracts: make(map[int64]*models.Contract),
		questions: make(map[int64]*models.Question),
	}
}

func copyRequest(r *models.Request) *models.Request {
	clone := *r
	if r.ContractID != nil {
		id := *r.ContractID
		clone.ContractID = &id
	}
	return &clone
}

func copyOffer(o *models.Offer) *models.Offer {
	clone := *o
	return &clone
}

type fakeRequestRepo struct {
	store *fakeStore
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, request *models.Request) (*models.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextRequestID++
	request.ID = f.store.nextRequestID
	f.store.requests[request.ID] = copyRequest(request)
	return request, nil
}

func (f *fakeRequestRepo) GetRequestByID(_ context.Context, requestId int64) (*models.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	request, ok := f.store.requests[requestId]
	if !ok {
		return nil, models.NewNotFound("request not found")
	}
	return copyRequest(request), nil
}

func (f *fakeRequestRepo) GetOpenRequests(_ context.Context, limit, offset int, categories, assignmentTypes []string) ([]models.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Request
	for _, request := range f.store.requests {
		if request.State != models.PendingRequest {
			continue
		}
		if len(categories) > 0 && !containsString(categories, request.Category) {
			continue
		}
		if len(assignmentTypes) > 0 && !containsString(assignmentTypes, request.AssignmentType) {
			continue
		}
		result = append(result, *copyRequest(request))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, limit, offset), nil
}

func (f *fakeRequestRepo) GetUserRequests(_ context.Context, ownerId int64, limit, offset int) ([]models.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Request
	for _, request := range f.store.requests {
		if request.OwnerID == ownerId {
			result = append(result, *copyRequest(request))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, limit, offset), nil
}

func (f *fakeRequestRepo) GetDueRequests(_ context.Context, now time.Time, limit int) ([]models.Request, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Request
	for _, request := range f.store.requests {
		if request.State == models.PendingRequest && !now.Before(request.OffersDeadline) {
			result = append(result, *copyRequest(request))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, limit, 0), nil
}

func (f *fakeRequestRepo) MarkOnHold(_ context.Context, requestId int64) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	request, ok := f.store.requests[requestId]
	if !ok || request.State != models.PendingRequest {
		return false, nil
	}
	request.State = models.OnHoldRequest
	return true, nil
}

func (f *fakeRequestRepo) MarkExpired(_ context.Context, requestId int64) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	request, ok := f.store.requests[requestId]
	if !ok || request.State != models.PendingRequest {
		return false, nil
	}
	request.State = models.ExpiredRequest
	return true, nil
}

type fakeOfferRepo struct {
	store *fakeStore
}

func (f *fakeOfferRepo) CreateOffer(_ context.Context, offer *models.Offer) (*models.Offer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, existing := range f.store.offers {
		if existing.RequestID == offer.RequestID && existing.ProviderID == offer.ProviderID {
			return nil, models.NewConflict("an offer for this request already exists for this provider")
		}
	}
	f.store.nextOfferID++
	offer.ID = f.store.nextOfferID
	f.store.offers[offer.ID] = copyOffer(offer)
	return offer, nil
}

func (f *fakeOfferRepo) GetOfferByID(_ context.Context, offerId int64) (*models.Offer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	offer, ok := f.store.offers[offerId]
	if !ok {
		return nil, models.NewNotFound("offer not found")
	}
	return copyOffer(offer), nil
}

func (f *fakeOfferRepo) GetRequestOffers(_ context.Context, requestId int64) ([]models.Offer, error) {
	return f.collect(requestId, false), nil
}

func (f *fakeOfferRepo) GetPendingOffers(_ context.Context, requestId int64) ([]models.Offer, error) {
	return f.collect(requestId, true), nil
}

func (f *fakeOfferRepo) collect(requestId int64, pendingOnly bool) []models.Offer {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Offer
	for _, offer := range f.store.offers {
		if offer.RequestID != requestId {
			continue
		}
		if pendingOnly && offer.Status != models.PendingOffer {
			continue
		}
		result = append(result, *copyOffer(offer))
	}
	sort.Slice(result, func(i, j int) bool {
		cmp := result[i].Price.Cmp(result[j].Price)
		if cmp == 0 {
			return result[i].ID < result[j].ID
		}
		return cmp < 0
	})
	return result
}

func (f *fakeOfferRepo) GetProviderOffers(_ context.Context, providerId int64, limit, offset int) ([]models.Offer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Offer
	for _, offer := range f.store.offers {
		if offer.ProviderID == providerId {
			result = append(result, *copyOffer(offer))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, limit, offset), nil
}

func (f *fakeOfferRepo) GetProviderRequestIDs(_ context.Context, providerId int64) (map[int64]bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	requestIds := make(map[int64]bool)
	for _, offer := range f.store.offers {
		if offer.ProviderID == providerId {
			requestIds[offer.RequestID] = true
		}
	}
	return requestIds, nil
}

type fakeContractRepo struct {
	store *fakeStore
}

func (f *fakeContractRepo) Finalize(_ context.Context, request *models.Request, winner *models.Offer, now time.Time) (*models.Contract, bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	current, ok := f.store.requests[request.ID]
	if !ok {
		return nil, false, models.NewNotFound("request not found")
	}
	if current.ContractID != nil {
		return nil, true, nil
	}
	if _, exists := f.store.contracts[request.ID]; exists {
		return nil, true, nil
	}

	winning, ok := f.store.offers[winner.ID]
	if !ok || winning.RequestID != request.ID {
		return nil, false, models.NewNotFound("winning offer does not belong to this request")
	}

	f.store.nextContractID++
	contract := &models.Contract{
		ID:           f.store.nextContractID,
		RequestID:    request.ID,
		ClientID:     request.OwnerID,
		ProviderID:   winning.ProviderID,
		Price:        winning.Price,
		ContractDate: now,
	}
	f.store.contracts[request.ID] = contract

	winning.Status = models.WonOffer
	for _, offer := range f.store.offers {
		if offer.RequestID == request.ID && offer.ID != winning.ID {
			offer.Status = models.LostOffer
		}
	}

	current.State = models.ExpiredRequest
	current.ContractID = &contract.ID

	clone := *contract
	return &clone, false, nil
}

func (f *fakeContractRepo) GetRequestContract(_ context.Context, requestId int64) (*models.Contract, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	contract, ok := f.store.contracts[requestId]
	if !ok {
		return nil, models.NewNotFound("no contract exists for this request")
	}
	clone := *contract
	return &clone, nil
}

type fakeQuestionRepo struct {
	store *fakeStore
}

func (f *fakeQuestionRepo) CreateQuestion(_ context.Context, question *models.Question) (*models.Question, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextQuestionID++
	question.ID = f.store.nextQuestionID
	clone := *question
	f.store.questions[question.ID] = &clone
	return question, nil
}

func (f *fakeQuestionRepo) GetQuestionByID(_ context.Context, questionId int64) (*models.Question, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	question, ok := f.store.questions[questionId]
	if !ok {
		return nil, models.NewNotFound("question not found")
	}
	clone := *question
	return &clone, nil
}

func (f *fakeQuestionRepo) GetRequestQuestions(_ context.Context, requestId int64, limit, offset int) ([]models.Question, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []models.Question
	for _, question := range f.store.questions {
		if question.RequestID == requestId {
			result = append(result, *question)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return page(result, limit, offset), nil
}

func (f *fakeQuestionRepo) AnswerQuestion(_ context.Context, questionId int64, answer string, answeredAt time.Time) (*models.Question, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	question, ok := f.store.questions[questionId]
	if !ok {
		return nil, models.NewNotFound("question not found")
	}
	question.Answer = &answer
	question.AnsweredAt = &answeredAt
	clone := *question
	return &clone, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func page[T any](values []T, limit, offset int) []T {
	if offset >= len(values) {
		return nil
	}
	values = values[offset:]
	if limit > 0 && limit < len(values) {
		values = values[:limit]
	}
	return values
}
