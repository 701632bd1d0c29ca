package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ContractRepository - интерфейс завершающей транзакции выбора победителя
// и чтения контрактов.
type ContractRepository interface {
	Finalize(ctx context.Context, request *models.Request, winner *models.Offer, now time.Time) (*models.Contract, bool, error)
	GetRequestContract(ctx context.Context, requestId int64) (*models.Contract, error)
}

// PostgresContractRepository - реализация ContractRepository для базы данных.
type PostgresContractRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresContractRepository создает новый экземпляр PostgresContractRepository.
func NewPostgresContractRepository(db *pgxpool.Pool) *PostgresContractRepository {
	return &PostgresContractRepository{DB: db}
}

// Finalize выполняет завершающую последовательность выбора победителя одной
// транзакцией: контракт, статусы предложений, терминальное состояние запроса.
// Либо фиксируется все, либо ничего - частичное состояние снаружи не видно.
//
// Возвращает alreadyDecided = true, если контракт по запросу уже существует:
// конкурентная попытка (двойной клик, гонка ручного выбора и свипера)
// наблюдает тот же итог, что и первая, и считается успехом. Решение
// принимает уникальный индекс contract.request_id, а не предварительное
// чтение.
func (r *PostgresContractRepository) Finalize(ctx context.Context, request *models.Request, winner *models.Offer, now time.Time) (*models.Contract, bool, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin finalize transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокировка строки запроса упорядочивает конкурентные финализации
	// и закрывает окно для поздних предложений.
	var contractId *int64
	err = tx.QueryRow(ctx, `SELECT contract_id FROM request WHERE id = $1 FOR UPDATE`, request.ID).Scan(&contractId)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, models.NewNotFound("request not found")
	}
	if err != nil {
		return nil, false, err
	}
	if contractId != nil {
		return nil, true, nil
	}

	contract := models.Contract{
		RequestID:    request.ID,
		ClientID:     request.OwnerID,
		ProviderID:   winner.ProviderID,
		Price:        winner.Price,
		ContractDate: now,
	}
	insertQuery := `INSERT INTO contract (request_id, client_id, provider_id, price, contract_date)
	                VALUES ($1, $2, $3, $4, $5)
	                RETURNING id`
	err = tx.QueryRow(
		ctx,
		insertQuery,
		contract.RequestID,
		contract.ClientID,
		contract.ProviderID,
		contract.Price.String(),
		contract.ContractDate).Scan(&contract.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, true, nil
		}
		return nil, false, err
	}

	winQuery := `UPDATE offer SET status = 'WON' WHERE id = $1 AND request_id = $2`
	tag, err := tx.Exec(ctx, winQuery, winner.ID, request.ID)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 0 {
		return nil, false, models.NewNotFound("winning offer does not belong to this request")
	}

	loseQuery := `UPDATE offer SET status = 'LOST' WHERE request_id = $1 AND id <> $2`
	if _, err = tx.Exec(ctx, loseQuery, request.ID, winner.ID); err != nil {
		return nil, false, err
	}

	expireQuery := `UPDATE request SET state = 'EXPIRED', contract_id = $1 WHERE id = $2`
	if _, err = tx.Exec(ctx, expireQuery, contract.ID, request.ID); err != nil {
		return nil, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit finalize transaction: %w", err)
	}
	return &contract, false, nil
}

// GetRequestContract получает контракт по id запроса.
func (r *PostgresContractRepository) GetRequestContract(ctx context.Context, requestId int64) (*models.Contract, error) {
	var contract models.Contract
	var price string
	query := `SELECT id, request_id, client_id, provider_id, price::text, contract_date
	          FROM contract WHERE request_id = $1`
	err := r.DB.QueryRow(ctx, query, requestId).Scan(
		&contract.ID,
		&contract.RequestID,
		&contract.ClientID,
		&contract.ProviderID,
		&price,
		&contract.ContractDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("no contract exists for this request")
	}
	if err != nil {
		return nil, err
	}
	contract.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}
