package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/services"
	"github.com/senyabanana/tender-marketplace/internal/utils"
)

// OfferHandler - структура для обработки HTTP-запросов по предложениям.
type OfferHandler struct {
	Service *services.OfferService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewOfferHandler создает новый экземпляр OfferHandler.
func NewOfferHandler(service *services.OfferService, logger *log.Logger, timeout time.Duration) *OfferHandler {
	return &OfferHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

func (h *OfferHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errResp, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errResp)
		return
	}
	utils.SendErrorResponse(w, models.NewTransient(fallback))
}

// CreateOffer обрабатывает подачу предложения.
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	var input models.SubmitOfferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request body"))
		return
	}

	offer, err := h.Service.Submit(ctx, caps, input)
	if err != nil {
		h.sendError(w, err, "failed to create offer")
		return
	}
	utils.SendJSON(w, http.StatusCreated, offer)
}

// GetUserOffers обрабатывает запросы для получения предложений исполнителя.
func (h *OfferHandler) GetUserOffers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	offers, err := h.Service.GetUserOffers(ctx, caps, r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		h.sendError(w, err, "failed to fetch offers")
		return
	}
	utils.SendJSON(w, http.StatusOK, offers)
}

// GetRequestOffers обрабатывает запросы для получения предложений по запросу.
func (h *OfferHandler) GetRequestOffers(w http.ResponseWriter, r *http.Request) {
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

	offers, err := h.Service.GetRequestOffers(ctx, caps, requestId)
	if err != nil {
		h.sendError(w, err, "failed to fetch request offers")
		return
	}
	utils.SendJSON(w, http.StatusOK, offers)
}
