package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/events"
	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/repository"
	"github.com/senyabanana/tender-marketplace/internal/utils"
)

// QuestionService управляет вопросами исполнителей и ответами заказчиков.
type QuestionService struct {
	Repo     repository.QuestionRepository
	Requests *RequestService
	Clock    clock.Clock
	Events   *events.Publisher
}

// NewQuestionService создает новый экземпляр QuestionService.
func NewQuestionService(repo repository.QuestionRepository, requests *RequestService, clk clock.Clock, publisher *events.Publisher) *QuestionService {
	return &QuestionService{Repo: repo, Requests: requests, Clock: clk, Events: publisher}
}

// Ask создает вопрос исполнителя по открытому запросу.
func (s *QuestionService) Ask(ctx context.Context, caps models.CapabilitySnapshot, requestId int64, input models.AskQuestionInput) (*models.Question, error) {
	if caps.Role != models.RoleProvider {
		return nil, models.NewUnauthorized("only providers may ask questions")
	}

	text := strings.TrimSpace(input.Question)
	if text == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "question text is required")
	}

	request, err := s.Requests.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.State != models.PendingRequest {
		return nil, models.NewInvalidState("questions are accepted only while the request is open")
	}

	question := &models.Question{
		RequestID: requestId,
		AuthorID:  caps.AccountID,
		Question:  text,
		CreatedAt: s.Clock.Now(),
	}
	created, err := s.Repo.CreateQuestion(ctx, question)
	if err != nil {
		return nil, models.NewTransient("failed to create question")
	}

	s.Events.Publish(ctx, events.QuestionAsked, requestId, map[string]int64{
		"questionId": created.ID,
		"authorId":   caps.AccountID,
	}, nil)
	return created, nil
}

// Answer записывает ответ владельца запроса на вопрос.
func (s *QuestionService) Answer(ctx context.Context, caps models.CapabilitySnapshot, questionId int64, input models.AnswerQuestionInput) (*models.Question, error) {
	text := strings.TrimSpace(input.Answer)
	if text == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, "answer text is required")
	}

	question, err := s.Repo.GetQuestionByID(ctx, questionId)
	if err != nil {
		return nil, err
	}

	request, err := s.Requests.GetRequestByID(ctx, question.RequestID)
	if err != nil {
		return nil, err
	}
	if caps.AccountID != request.OwnerID && caps.Role != models.RoleAdmin {
		return nil, models.NewUnauthorized("only the request owner may answer questions")
	}

	answered, err := s.Repo.AnswerQuestion(ctx, questionId, text, s.Clock.Now())
	if err != nil {
		if errResp, ok := err.(*models.ErrorResponse); ok {
			return nil, errResp
		}
		return nil, models.NewTransient("failed to answer question")
	}

	s.Events.Publish(ctx, events.QuestionAnswered, question.RequestID, map[string]int64{
		"questionId": questionId,
		"authorId":   question.AuthorID,
	}, nil)
	return answered, nil
}

// GetRequestQuestions возвращает вопросы по запросу.
func (s *QuestionService) GetRequestQuestions(ctx context.Context, requestId int64, limitStr, offsetStr string) ([]models.Question, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, models.KindInvalidState, err.Error())
	}
	if _, err := s.Requests.GetRequestByID(ctx, requestId); err != nil {
		return nil, err
	}
	questions, err := s.Repo.GetRequestQuestions(ctx, requestId, limit, offset)
	if err != nil {
		return nil, models.NewTransient("failed to fetch questions")
	}
	return questions, nil
}
