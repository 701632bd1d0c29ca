package services

import (
	"context"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/events"
	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/repository"
)

// WinnerService - движок выбора победителя. Единственный источник контрактов
// и терминальных статусов предложений. Гарантирует не более одного контракта
// на запрос даже при конкурентных вызовах: корректность держится на
// транзакции финализации и уникальном индексе, а не на мьютексах процесса.
type WinnerService struct {
	Requests  repository.RequestRepository
	Offers    repository.OfferRepository
	Contracts repository.ContractRepository
	Clock     clock.Clock
	Events    *events.Publisher
}

// NewWinnerService создает новый экземпляр WinnerService.
func NewWinnerService(requests repository.RequestRepository, offers repository.OfferRepository, contracts repository.ContractRepository, clk clock.Clock, publisher *events.Publisher) *WinnerService {
	return &WinnerService{
		Requests:  requests,
		Offers:    offers,
		Contracts: contracts,
		Clock:     clk,
		Events:    publisher,
	}
}

// SelectAutomatic выбирает победителя по минимальной цене. Вызывается
// из оценки дедлайна для запросов с автоматической политикой. Ноль
// предложений - запрос просто истекает без контракта, это успех.
func (s *WinnerService) SelectAutomatic(ctx context.Context, requestId int64) (*models.Contract, error) {
	request, err := s.Requests.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Decided() {
		return s.Contracts.GetRequestContract(ctx, requestId)
	}
	if request.State == models.ExpiredRequest {
		return nil, nil
	}

	offers, err := s.Offers.GetPendingOffers(ctx, requestId)
	if err != nil {
		return nil, models.NewTransient("failed to load offers")
	}
	if len(offers) == 0 {
		if _, err := s.Requests.MarkExpired(ctx, requestId); err != nil {
			return nil, models.NewTransient("failed to expire request")
		}
		return nil, nil
	}

	winner := pickWinner(offers)
	return s.finalize(ctx, request, winner)
}

// SelectManual выполняет явный выбор победителя заказчиком. Запрос обязан
// быть в ON_HOLD: выбор до дедлайна или после уже принятого решения
// отклоняется.
func (s *WinnerService) SelectManual(ctx context.Context, caps models.CapabilitySnapshot, requestId, offerId int64) (*models.Contract, error) {
	request, err := s.Requests.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if caps.AccountID != request.OwnerID && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only the request owner may select a winner")
	}
	if request.State != models.OnHoldRequest {
		return nil, models.NewInvalidState("winner selection requires the request to be on hold")
	}

	offer, err := s.Offers.GetOfferByID(ctx, offerId)
	if err != nil {
		return nil, err
	}
	if offer.RequestID != requestId {
		return nil, models.NewNotFound("offer does not belong to this request")
	}

	return s.finalize(ctx, request, offer)
}

// GetRequestContract возвращает контракт по запросу. Доступ имеют владелец
// запроса, выигравший исполнитель и администратор.
func (s *WinnerService) GetRequestContract(ctx context.Context, caps models.CapabilitySnapshot, requestId int64) (*models.Contract, error) {
	contract, err := s.Contracts.GetRequestContract(ctx, requestId)
	if err != nil {
		if errResp, ok := err.(*models.ErrorResponse); ok {
			return nil, errResp
		}
		return nil, models.NewTransient("failed to fetch contract")
	}
	if caps.AccountID != contract.ClientID && caps.AccountID != contract.ProviderID && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("you are not a party to this contract")
	}
	return contract, nil
}

// pickWinner выбирает предложение с наименьшей ценой; при равенстве цен
// побеждает раньше поданное (меньший id). Детерминированно и воспроизводимо.
func pickWinner(offers []models.Offer) *models.Offer {
	winner := &offers[0]
	for i := 1; i < len(offers); i++ {
		candidate := &offers[i]
		cmp := candidate.Price.Cmp(winner.Price)
		if cmp < 0 || (cmp == 0 && candidate.ID < winner.ID) {
			winner = candidate
		}
	}
	return winner
}

func (s *WinnerService) finalize(ctx context.Context, request *models.Request, winner *models.Offer) (*models.Contract, error) {
	contract, alreadyDecided, err := s.Contracts.Finalize(ctx, request, winner, s.Clock.Now())
	if err != nil {
		if errResp, ok := err.(*models.ErrorResponse); ok {
			return nil, errResp
		}
		return nil, models.NewTransient("failed to finalize winner selection")
	}
	if alreadyDecided {
		// Проигравшая сторона гонки видит тот же итог, что и выигравшая.
		return s.Contracts.GetRequestContract(ctx, request.ID)
	}

	s.Events.Publish(ctx, events.WinnerSelected, request.ID, map[string]int64{
		"contractId": contract.ID,
		"offerId":    winner.ID,
		"providerId": winner.ProviderID,
		"clientId":   request.OwnerID,
	}, map[string]any{
		"price": contract.Price.String(),
	})
	return contract, nil
}
