package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/services"
	"github.com/senyabanana/tender-marketplace/internal/utils"
)

// RequestHandler - структура для обработки HTTP-запросов по тендерным запросам.
type RequestHandler struct {
	Service *services.RequestService
	Winner  *services.WinnerService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewRequestHandler создаёт новый экземпляр RequestHandler.
func NewRequestHandler(service *services.RequestService, winner *services.WinnerService, logger *log.Logger, timeout time.Duration) *RequestHandler {
	return &RequestHandler{
		Service: service,
		Winner:  winner,
		Logger:  logger,
		Timeout: timeout,
	}
}

func (h *RequestHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errResp, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errResp)
		return
	}
	utils.SendErrorResponse(w, models.NewTransient(fallback))
}

func parseIDPath(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// CreateRequest обрабатывает запросы для создания тендерного запроса.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	var input models.CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request body"))
		return
	}

	request, err := h.Service.CreateRequest(ctx, caps, input)
	if err != nil {
		h.sendError(w, err, "failed to create request")
		return
	}
	utils.SendJSON(w, http.StatusCreated, request)
}

// GetRequests обрабатывает запросы для получения ленты открытых запросов.
func (h *RequestHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, err.Error()))
		return
	}

	filter := services.ListFilter{
		Category:       r.URL.Query().Get("category"),
		Subcategory:    r.URL.Query().Get("subcategory"),
		AssignmentType: r.URL.Query().Get("assignment_type"),
	}

	requests, err := h.Service.FetchVisibleRequests(ctx, caps, filter, limit, offset)
	if err != nil {
		h.sendError(w, err, "failed to fetch requests")
		return
	}
	utils.SendJSON(w, http.StatusOK, requests)
}

// GetUserRequests обрабатывает запросы для получения запросов заказчика.
func (h *RequestHandler) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	requests, err := h.Service.GetUserRequests(ctx, caps, r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		h.sendError(w, err, "failed to fetch user requests")
		return
	}
	utils.SendJSON(w, http.StatusOK, requests)
}

// GetRequest обрабатывает запросы для получения одного запроса.
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	requestId, err := parseIDPath(r, "requestId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request id"))
		return
	}

	request, err := h.Service.GetRequestByID(ctx, requestId)
	if err != nil {
		h.sendError(w, err, "failed to fetch request")
		return
	}

	if caps.AccountID != request.OwnerID && caps.Role == models.RolePurchaser {
		utils.SendErrorResponse(w, models.NewUnauthorized("you do not own this request"))
		return
	}
	utils.SendJSON(w, http.StatusOK, request)
}

// SelectWinner обрабатывает ручной выбор победителя заказчиком.
func (h *RequestHandler) SelectWinner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	requestId, err := parseIDPath(r, "requestId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request id"))
		return
	}
	offerId, err := parseIDPath(r, "offerId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid offer id"))
		return
	}

	contract, err := h.Winner.SelectManual(ctx, caps, requestId, offerId)
	if err != nil {
		h.sendError(w, err, "failed to select winner")
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}

// GetContract обрабатывает запросы для получения контракта по запросу.
func (h *RequestHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	requestId, err := parseIDPath(r, "requestId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request id"))
		return
	}

	contract, err := h.Winner.GetRequestContract(ctx, caps, requestId)
	if err != nil {
		h.sendError(w, err, "failed to fetch contract")
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}
