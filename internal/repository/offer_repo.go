package repository

import (
	"context"
	"errors"

	"github.com/senyabanana/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Код нарушения уникальности в Postgres.
const uniqueViolationCode = "23505"

// OfferRepository - интерфейс для работы с предложениями.
type OfferRepository interface {
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	GetOfferByID(ctx context.Context, offerId int64) (*models.Offer, error)
	GetRequestOffers(ctx context.Context, requestId int64) ([]models.Offer, error)
	GetPendingOffers(ctx context.Context, requestId int64) ([]models.Offer, error)
	GetProviderOffers(ctx context.Context, providerId int64, limit, offset int) ([]models.Offer, error)
	GetProviderRequestIDs(ctx context.Context, providerId int64) (map[int64]bool, error)
}

// PostgresOfferRepository - реализация OfferRepository для базы данных.
type PostgresOfferRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOfferRepository создает новый экземпляр PostgresOfferRepository.
func NewPostgresOfferRepository(db *pgxpool.Pool) *PostgresOfferRepository {
	return &PostgresOfferRepository{DB: db}
}

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var offer models.Offer
	var price string
	err := row.Scan(
		&offer.ID,
		&offer.RequestID,
		&offer.ProviderID,
		&price,
		&offer.Status,
		&offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	offer.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// CreateOffer создает новое предложение. Повторное предложение того же
// исполнителя по тому же запросу ловится уникальным индексом, а не
// предварительным чтением.
func (r *PostgresOfferRepository) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	insertQuery := `INSERT INTO offer (request_id, provider_id, price, status, created_at)
	                VALUES ($1, $2, $3, $4, $5)
	                RETURNING id`
	err := r.DB.QueryRow(
		ctx,
		insertQuery,
		offer.RequestID,
		offer.ProviderID,
		offer.Price.String(),
		offer.Status,
		offer.CreatedAt).Scan(&offer.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, models.NewConflict("an offer for this request already exists for this provider")
		}
		return nil, err
	}
	return offer, nil
}

// GetOfferByID получает предложение по ID.
func (r *PostgresOfferRepository) GetOfferByID(ctx context.Context, offerId int64) (*models.Offer, error) {
	query := `SELECT id, request_id, provider_id, price::text, status, created_at FROM offer WHERE id = $1`
	offer, err := scanOffer(r.DB.QueryRow(ctx, query, offerId))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("offer not found")
	}
	return offer, err
}

// GetRequestOffers возвращает все предложения по запросу.
func (r *PostgresOfferRepository) GetRequestOffers(ctx context.Context, requestId int64) ([]models.Offer, error) {
	query := `SELECT id, request_id, provider_id, price::text, status, created_at
	          FROM offer WHERE request_id = $1 ORDER BY price, id`
	return r.queryOffers(ctx, query, requestId)
}

// GetPendingOffers возвращает предложения запроса, ждущие решения.
func (r *PostgresOfferRepository) GetPendingOffers(ctx context.Context, requestId int64) ([]models.Offer, error) {
	query := `SELECT id, request_id, provider_id, price::text, status, created_at
	          FROM offer WHERE request_id = $1 AND status = 'PENDING' ORDER BY price, id`
	return r.queryOffers(ctx, query, requestId)
}

// GetProviderOffers возвращает список предложений исполнителя.
func (r *PostgresOfferRepository) GetProviderOffers(ctx context.Context, providerId int64, limit, offset int) ([]models.Offer, error) {
	query := `SELECT id, request_id, provider_id, price::text, status, created_at
	          FROM offer WHERE provider_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.queryOffers(ctx, query, providerId, limit, offset)
}

func (r *PostgresOfferRepository) queryOffers(ctx context.Context, query string, args ...interface{}) ([]models.Offer, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, rows.Err()
}

// GetProviderRequestIDs возвращает id запросов, по которым исполнитель уже
// подал предложение. Используется фильтром видимости.
func (r *PostgresOfferRepository) GetProviderRequestIDs(ctx context.Context, providerId int64) (map[int64]bool, error) {
	query := `SELECT request_id FROM offer WHERE provider_id = $1`
	rows, err := r.DB.Query(ctx, query, providerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requestIds := make(map[int64]bool)
	for rows.Next() {
		var requestId int64
		if err := rows.Scan(&requestId); err != nil {
			return nil, err
		}
		requestIds[requestId] = true
	}
	return requestIds, rows.Err()
}
