package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferStatus string // Статус предложения

const (
	PendingOffer OfferStatus = "PENDING" // Предложение подано и ждёт решения
	WonOffer     OfferStatus = "WON"     // Предложение выиграло тендер
	LostOffer    OfferStatus = "LOST"    // Предложение проиграло тендер
)

// Offer представляет модель предложения исполнителя по тендерному запросу.
// Цена хранится как decimal и сравнивается только численно.
type Offer struct {
	ID         int64           `json:"id"`
	RequestID  int64           `json:"requestId"`
	ProviderID int64           `json:"providerId"`
	Price      decimal.Decimal `json:"price"`
	Status     OfferStatus     `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// SubmitOfferInput представляет структуру запроса для подачи предложения.
type SubmitOfferInput struct {
	RequestID int64  `json:"requestId"`
	Price     string `json:"price"`
}
