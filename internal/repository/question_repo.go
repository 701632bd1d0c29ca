package repository

import (
	"context"
	"errors"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository - интерфейс для работы с вопросами по запросам.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error)
	GetQuestionByID(ctx context.Context, questionId int64) (*models.Question, error)
	GetRequestQuestions(ctx context.Context, requestId int64, limit, offset int) ([]models.Question, error)
	AnswerQuestion(ctx context.Context, questionId int64, answer string, answeredAt time.Time) (*models.Question, error)
}

// PostgresQuestionRepository - реализация QuestionRepository для базы данных.
type PostgresQuestionRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresQuestionRepository создает новый экземпляр PostgresQuestionRepository.
func NewPostgresQuestionRepository(db *pgxpool.Pool) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{DB: db}
}

// CreateQuestion создает новый вопрос по запросу.
func (r *PostgresQuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	insertQuery := `INSERT INTO question (request_id, author_id, question, created_at)
	                VALUES ($1, $2, $3, $4)
	                RETURNING id`
	err := r.DB.QueryRow(
		ctx,
		insertQuery,
		question.RequestID,
		question.AuthorID,
		question.Question,
		question.CreatedAt).Scan(&question.ID)
	if err != nil {
		return nil, err
	}
	return question, nil
}

// GetQuestionByID получает вопрос по ID.
func (r *PostgresQuestionRepository) GetQuestionByID(ctx context.Context, questionId int64) (*models.Question, error) {
	var question models.Question
	query := `SELECT id, request_id, author_id, question, answer, created_at, answered_at
	          FROM question WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, questionId).Scan(
		&question.ID,
		&question.RequestID,
		&question.AuthorID,
		&question.Question,
		&question.Answer,
		&question.CreatedAt,
		&question.AnsweredAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("question not found")
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// GetRequestQuestions возвращает вопросы по запросу.
func (r *PostgresQuestionRepository) GetRequestQuestions(ctx context.Context, requestId int64, limit, offset int) ([]models.Question, error) {
	query := `SELECT id, request_id, author_id, question, answer, created_at, answered_at
	          FROM question WHERE request_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, requestId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(
			&question.ID,
			&question.RequestID,
			&question.AuthorID,
			&question.Question,
			&question.Answer,
			&question.CreatedAt,
			&question.AnsweredAt); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// AnswerQuestion записывает ответ заказчика на вопрос.
func (r *PostgresQuestionRepository) AnswerQuestion(ctx context.Context, questionId int64, answer string, answeredAt time.Time) (*models.Question, error) {
	updateQuery := `UPDATE question SET answer = $1, answered_at = $2 WHERE id = $3
	                RETURNING id, request_id, author_id, question, answer, created_at, answered_at`
	var question models.Question
	err := r.DB.QueryRow(ctx, updateQuery, answer, answeredAt, questionId).Scan(
		&question.ID,
		&question.RequestID,
		&question.AuthorID,
		&question.Question,
		&question.Answer,
		&question.CreatedAt,
		&question.AnsweredAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("question not found")
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}
