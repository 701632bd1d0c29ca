package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/events"
	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/repository"
	"github.com/senyabanana/tender-marketplace/internal/utils"

	"github.com/shopspring/decimal"
)

// OfferService управляет жизненным циклом предложений. Терминальные статусы
// WON/LOST выставляет только движок выбора победителя внутри своей
// транзакции, этот сервис отвечает за подачу.
type OfferService struct {
	Repo     repository.OfferRepository
	Requests *RequestService
	Clock    clock.Clock
	Events   *events.Publisher
}

// NewOfferService создает новый экземпляр OfferService.
func NewOfferService(repo repository.OfferRepository, requests *RequestService, clk clock.Clock, publisher *events.Publisher) *OfferService {
	return &OfferService{Repo: repo, Requests: requests, Clock: clk, Events: publisher}
}

// Submit подает предложение по запросу. Отклоняется, когда запрос ушел из
// PENDING, дедлайн прошел, исполнитель не проходит критерии запроса или
// уже подал предложение (ловится уникальным индексом).
func (s *OfferService) Submit(ctx context.Context, caps models.CapabilitySnapshot, input models.SubmitOfferInput) (*models.Offer, error) {
	if caps.Role != models.RoleProvider {
		return nil, models.NewUnauthorized("only providers may submit offers")
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid offer price")
	}
	if !price.IsPositive() {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "offer price must be positive")
	}

	// Ленивая оценка дедлайна до проверок состояния: логически истекший
	// запрос сначала переходит, потом подача отклоняется обычным путем.
	request, err := s.Requests.GetRequestByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if request.State != models.PendingRequest {
		return nil, models.NewInvalidState("request is no longer accepting offers")
	}
	if !now.Before(request.OffersDeadline) {
		return nil, models.NewInvalidState("offers deadline has passed")
	}

	if !eligibleToSubmit(*request, caps) {
		return nil, models.NewUnauthorized("provider does not meet the request criteria")
	}

	offer := &models.Offer{
		RequestID:  input.RequestID,
		ProviderID: caps.AccountID,
		Price:      price,
		Status:     models.PendingOffer,
		CreatedAt:  now,
	}
	created, err := s.Repo.CreateOffer(ctx, offer)
	if err != nil {
		if errResp, ok := err.(*models.ErrorResponse); ok {
			return nil, errResp
		}
		return nil, models.NewTransient("failed to create offer")
	}

	s.Events.Publish(ctx, events.OfferSubmitted, input.RequestID, map[string]int64{
		"offerId":    created.ID,
		"providerId": caps.AccountID,
	}, nil)
	return created, nil
}

// eligibleToSubmit повторяет капабилити-часть фильтра видимости для подачи:
// состояние и дедлайн проверены выше, дубликат ловит уникальный индекс.
func eligibleToSubmit(request models.Request, caps models.CapabilitySnapshot) bool {
	if !caps.HasCapabilityData() {
		return false
	}
	if float64(*caps.CompanySize) < utils.ParseThreshold(request.MinProviderSize) {
		return false
	}
	if *caps.Rating < utils.ParseThreshold(request.MinProviderRating) {
		return false
	}
	return !caps.IsBlocked(request.OwnerCompany)
}

// GetUserOffers возвращает предложения исполнителя.
func (s *OfferService) GetUserOffers(ctx context.Context, caps models.CapabilitySnapshot, limitStr, offsetStr string) ([]models.Offer, error) {
	if caps.Role != models.RoleProvider && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only providers may list their offers")
	}
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, err.Error())
	}
	offers, err := s.Repo.GetProviderOffers(ctx, caps.AccountID, limit, offset)
	if err != nil {
		return nil, models.NewTransient("failed to fetch offers")
	}
	return offers, nil
}

// GetRequestOffers возвращает все предложения по запросу. Доступно только
// владельцу запроса и администратору.
func (s *OfferService) GetRequestOffers(ctx context.Context, caps models.CapabilitySnapshot, requestId int64) ([]models.Offer, error) {
	request, err := s.Requests.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if caps.AccountID != request.OwnerID && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only the request owner may view its offers")
	}
	offers, err := s.Repo.GetRequestOffers(ctx, requestId)
	if err != nil {
		return nil, models.NewTransient("failed to fetch request offers")
	}
	return offers, nil
}
