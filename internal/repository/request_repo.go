package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// RequestRepository - интерфейс для работы с тендерными запросами.
type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error)
	GetRequestByID(ctx context.Context, requestId int64) (*models.Request, error)
	GetOpenRequests(ctx context.Context, limit, offset int, categories, assignmentTypes []string) ([]models.Request, error)
	GetUserRequests(ctx context.Context, ownerId int64, limit, offset int) ([]models.Request, error)
	GetDueRequests(ctx context.Context, now time.Time, limit int) ([]models.Request, error)
	MarkOnHold(ctx context.Context, requestId int64) (bool, error)
	MarkExpired(ctx context.Context, requestId int64) (bool, error)
}

// PostgresRequestRepository - реализация RequestRepository для базы данных.
type PostgresRequestRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRequestRepository создаёт новый экземпляр PostgresRequestRepository.
func NewPostgresRequestRepository(db *pgxpool.Pool) *PostgresRequestRepository {
	return &PostgresRequestRepository{DB: db}
}

const requestColumns = `id, owner_id, owner_company, state, selection_policy, offers_deadline,
       min_provider_size, min_provider_rating, category, subcategory, assignment_type,
       details, contract_id, created_at`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var request models.Request
	var details []byte
	err := row.Scan(
		&request.ID,
		&request.OwnerID,
		&request.OwnerCompany,
		&request.State,
		&request.SelectionPolicy,
		&request.OffersDeadline,
		&request.MinProviderSize,
		&request.MinProviderRating,
		&request.Category,
		&request.Subcategory,
		&request.AssignmentType,
		&details,
		&request.ContractID,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &request.Details); err != nil {
			return nil, fmt.Errorf("failed to decode request details: %w", err)
		}
	}
	return &request, nil
}

// CreateRequest создает новый тендерный запрос.
func (r *PostgresRequestRepository) CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error) {
	details, err := json.Marshal(request.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request details: %w", err)
	}

	insertQuery := `
		INSERT INTO request (owner_id, owner_company, state, selection_policy, offers_deadline,
		                     min_provider_size, min_provider_rating, category, subcategory, assignment_type,
		                     details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err = r.DB.QueryRow(
		ctx,
		insertQuery,
		request.OwnerID,
		request.OwnerCompany,
		request.State,
		request.SelectionPolicy,
		request.OffersDeadline,
		request.MinProviderSize,
		request.MinProviderRating,
		request.Category,
		request.Subcategory,
		request.AssignmentType,
		details,
		request.CreatedAt).Scan(&request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert request: %w", err)
	}
	return request, nil
}

// GetRequestByID получает тендерный запрос по ID.
func (r *PostgresRequestRepository) GetRequestByID(ctx context.Context, requestId int64) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM request WHERE id = $1`
	request, err := scanRequest(r.DB.QueryRow(ctx, query, requestId))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("request not found")
	}
	return request, err
}

// GetOpenRequests возвращает список открытых запросов с фильтрами по категориям.
func (r *PostgresRequestRepository) GetOpenRequests(ctx context.Context, limit, offset int, categories, assignmentTypes []string) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM request`
	filters := []string{"state = 'PENDING'"}
	var args []interface{}
	argIndex := 1

	if len(categories) > 0 {
		filters = append(filters, fmt.Sprintf("category = ANY($%d)", argIndex))
		args = append(args, pq.Array(categories))
		argIndex++
	}

	if len(assignmentTypes) > 0 {
		filters = append(filters, fmt.Sprintf("assignment_type = ANY($%d)", argIndex))
		args = append(args, pq.Array(assignmentTypes))
		argIndex++
	}

	query += " WHERE " + strings.Join(filters, " AND ")
	query += fmt.Sprintf(" ORDER BY offers_deadline, id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return r.queryRequests(ctx, query, args...)
}

// GetUserRequests возвращает список запросов заказчика.
func (r *PostgresRequestRepository) GetUserRequests(ctx context.Context, ownerId int64, limit, offset int) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM request WHERE owner_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.queryRequests(ctx, query, ownerId, limit, offset)
}

// GetDueRequests возвращает запросы в состоянии PENDING с истекшим дедлайном.
func (r *PostgresRequestRepository) GetDueRequests(ctx context.Context, now time.Time, limit int) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM request
	          WHERE state = 'PENDING' AND offers_deadline <= $1
	          ORDER BY offers_deadline, id LIMIT $2`
	return r.queryRequests(ctx, query, now, limit)
}

func (r *PostgresRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.Request, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

// MarkOnHold переводит запрос PENDING -> ON_HOLD. Переход защищен условием
// по текущему состоянию: запрос, уже ушедший из PENDING, не трогается.
func (r *PostgresRequestRepository) MarkOnHold(ctx context.Context, requestId int64) (bool, error) {
	updateQuery := `UPDATE request SET state = 'ON_HOLD' WHERE id = $1 AND state = 'PENDING'`
	tag, err := r.DB.Exec(ctx, updateQuery, requestId)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkExpired переводит запрос PENDING -> EXPIRED без контракта
// (автоматический режим при нуле предложений).
func (r *PostgresRequestRepository) MarkExpired(ctx context.Context, requestId int64) (bool, error) {
	updateQuery := `UPDATE request SET state = 'EXPIRED' WHERE id = $1 AND state = 'PENDING'`
	tag, err := r.DB.Exec(ctx, updateQuery, requestId)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
