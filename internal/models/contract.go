package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract представляет контракт - итог выбора победителя по запросу.
// На один запрос может существовать не более одного контракта
// (уникальный индекс по request_id), цена копируется из выигравшего
// предложения в момент выбора и далее не меняется.
type Contract struct {
	ID           int64           `json:"id"`
	RequestID    int64           `json:"requestId"`
	ClientID     int64           `json:"clientId"`
	ProviderID   int64           `json:"providerId"`
	Price        decimal.Decimal `json:"price"`
	ContractDate time.Time       `json:"contractDate"`
}
