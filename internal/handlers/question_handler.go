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

// QuestionHandler - структура для обработки HTTP-запросов по вопросам.
type QuestionHandler struct {
	Service *services.QuestionService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewQuestionHandler создает новый экземпляр QuestionHandler.
func NewQuestionHandler(service *services.QuestionService, logger *log.Logger, timeout time.Duration) *QuestionHandler {
	return &QuestionHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

func (h *QuestionHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errResp, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errResp)
		return
	}
	utils.SendErrorResponse(w, models.NewTransient(fallback))
}

// AskQuestion обрабатывает создание вопроса по запросу.
func (h *QuestionHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
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

	var input models.AskQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request body"))
		return
	}

	question, err := h.Service.Ask(ctx, caps, requestId, input)
	if err != nil {
		h.sendError(w, err, "failed to create question")
		return
	}
	utils.SendJSON(w, http.StatusCreated, question)
}

// AnswerQuestion обрабатывает ответ заказчика на вопрос.
func (h *QuestionHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	caps, errResp := utils.ExtractIdentity(r)
	if errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	questionId, err := parseIDPath(r, "questionId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid question id"))
		return
	}

	var input models.AnswerQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request body"))
		return
	}

	question, err := h.Service.Answer(ctx, caps, questionId, input)
	if err != nil {
		h.sendError(w, err, "failed to answer question")
		return
	}
	utils.SendJSON(w, http.StatusOK, question)
}

// GetRequestQuestions обрабатывает получение вопросов по запросу.
func (h *QuestionHandler) GetRequestQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if _, errResp := utils.ExtractIdentity(r); errResp != nil {
		utils.SendErrorResponse(w, errResp)
		return
	}

	requestId, err := parseIDPath(r, "requestId")
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "invalid request id"))
		return
	}

	questions, err := h.Service.GetRequestQuestions(ctx, requestId, r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		h.sendError(w, err, "failed to fetch questions")
		return
	}
	utils.SendJSON(w, http.StatusOK, questions)
}
