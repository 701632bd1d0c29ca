package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/repository"
	"github.com/senyabanana/tender-marketplace/internal/utils"
)

// Сколько просроченных запросов обрабатывается за один ленивый проход.
const dueBatchSize = 100

// RequestService управляет жизненным циклом тендерных запросов: создание,
// оценка дедлайна, ленивый перевод в терминальные состояния.
type RequestService struct {
	Repo   repository.RequestRepository
	Offers repository.OfferRepository
	Winner *WinnerService
	Clock  clock.Clock
}

// NewRequestService создаёт новый экземпляр RequestService.
func NewRequestService(repo repository.RequestRepository, offers repository.OfferRepository, winner *WinnerService, clk clock.Clock) *RequestService {
	return &RequestService{Repo: repo, Offers: offers, Winner: winner, Clock: clk}
}

// CreateRequest создает новый тендерный запрос. Критерии отбора фиксируются
// на момент создания и далее не меняются.
func (s *RequestService) CreateRequest(ctx context.Context, caps models.CapabilitySnapshot, input models.CreateRequestInput) (*models.Request, error) {
	if caps.Role != models.RolePurchaser && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only purchasers may create requests")
	}

	now := s.Clock.Now()
	if input.OffersDeadline.IsZero() || !now.Before(input.OffersDeadline) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "offers deadline must be in the future")
	}

	switch input.SelectionPolicy {
	case models.AutomaticSelection, models.ManualSelection:
	default:
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "selection policy must be automatic or manual")
	}

	if err := utils.ValidateDetails(input.Details); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, err.Error())
	}

	request := &models.Request{
		OwnerID:           caps.AccountID,
		OwnerCompany:      caps.CompanyName,
		State:             models.PendingRequest,
		SelectionPolicy:   input.SelectionPolicy,
		OffersDeadline:    input.OffersDeadline.UTC(),
		MinProviderSize:   input.MinProviderSize,
		MinProviderRating: input.MinProviderRating,
		Category:          input.Category,
		Subcategory:       input.Subcategory,
		AssignmentType:    input.AssignmentType,
		Details:           input.Details,
		CreatedAt:         now,
	}
	created, err := s.Repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, models.NewTransient("failed to create request")
	}
	return created, nil
}

// EvaluateDeadline выполняет ленивую оценку дедлайна запроса. До дедлайна
// и для запросов вне PENDING - no-op; после дедлайна автоматическая
// политика передает запрос движку выбора победителя, ручная переводит
// запрос в ON_HOLD до явного решения заказчика. Назад запрос не двигается.
func (s *RequestService) EvaluateDeadline(ctx context.Context, request *models.Request) error {
	if request.State != models.PendingRequest {
		return nil
	}
	if s.Clock.Now().Before(request.OffersDeadline) {
		return nil
	}

	switch request.SelectionPolicy {
	case models.AutomaticSelection:
		_, err := s.Winner.SelectAutomatic(ctx, request.ID)
		return err
	case models.ManualSelection:
		if _, err := s.Repo.MarkOnHold(ctx, request.ID); err != nil {
			return models.NewTransient("failed to put request on hold")
		}
		return nil
	default:
		return models.NewInvalidState("unknown selection policy")
	}
}

// SweepDue оценивает все запросы с истекшим дедлайном. Вызывается перед
// чтением списков (ленивый режим) и из фонового свипера, если тот включен.
func (s *RequestService) SweepDue(ctx context.Context) error {
	due, err := s.Repo.GetDueRequests(ctx, s.Clock.Now(), dueBatchSize)
	if err != nil {
		return models.NewTransient("failed to load due requests")
	}
	for i := range due {
		if err := s.EvaluateDeadline(ctx, &due[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetRequestByID получает запрос по ID с предварительной оценкой дедлайна,
// чтобы наружу не отдавалось логически истекшее PENDING-состояние.
func (s *RequestService) GetRequestByID(ctx context.Context, requestId int64) (*models.Request, error) {
	request, err := s.Repo.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if err := s.EvaluateDeadline(ctx, request); err != nil {
		return nil, err
	}
	if request.State == models.PendingRequest && !s.Clock.Now().Before(request.OffersDeadline) {
		return s.Repo.GetRequestByID(ctx, requestId)
	}
	return request, nil
}

// FetchVisibleRequests возвращает ленту открытых запросов, отфильтрованную
// по снимку атрибутов исполнителя.
func (s *RequestService) FetchVisibleRequests(ctx context.Context, caps models.CapabilitySnapshot, filter ListFilter, limit, offset int) ([]models.Request, error) {
	if caps.Role != models.RoleProvider && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only providers may browse the request feed")
	}

	if err := s.SweepDue(ctx); err != nil {
		return nil, err
	}

	var categories, assignmentTypes []string
	if filter.Category != "" {
		categories = append(categories, filter.Category)
	}
	if filter.AssignmentType != "" {
		assignmentTypes = append(assignmentTypes, filter.AssignmentType)
	}

	candidates, err := s.Repo.GetOpenRequests(ctx, limit, offset, categories, assignmentTypes)
	if err != nil {
		return nil, models.NewTransient("failed to fetch requests")
	}

	offered, err := s.Offers.GetProviderRequestIDs(ctx, caps.AccountID)
	if err != nil {
		return nil, models.NewTransient("failed to fetch provider offers")
	}

	now := s.Clock.Now()
	visible := make([]models.Request, 0, len(candidates))
	for _, candidate := range candidates {
		if caps.Role == models.RoleAdmin {
			visible = append(visible, candidate)
			continue
		}
		if Visible(candidate, caps, offered[candidate.ID], now, filter) {
			visible = append(visible, candidate)
		}
	}
	return visible, nil
}

// GetUserRequests возвращает запросы заказчика с ленивой оценкой дедлайнов.
func (s *RequestService) GetUserRequests(ctx context.Context, caps models.CapabilitySnapshot, limitStr, offsetStr string) ([]models.Request, error) {
	if caps.Role != models.RolePurchaser && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only purchasers may list their requests")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, err.Error())
	}

	if err := s.SweepDue(ctx); err != nil {
		return nil, err
	}

	requests, err := s.Repo.GetUserRequests(ctx, caps.AccountID, limit, offset)
	if err != nil {
		return nil, models.NewTransient("failed to fetch user requests")
	}
	return requests, nil
}
