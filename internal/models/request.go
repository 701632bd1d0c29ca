package models

import "time"

type (
	RequestState    string // Статус тендерного запроса
	SelectionPolicy string // Политика выбора победителя
)

const (
	PendingRequest RequestState = "PENDING" // Запрос открыт для предложений
	OnHoldRequest  RequestState = "ON_HOLD" // Дедлайн прошёл, заказчик выбирает вручную
	ExpiredRequest RequestState = "EXPIRED" // Запрос закрыт, новые предложения не принимаются

	AutomaticSelection SelectionPolicy = "automatic" // Победитель выбирается по минимальной цене
	ManualSelection    SelectionPolicy = "manual"    // Победителя выбирает заказчик
)

// Request представляет модель тендерного запроса.
type Request struct {
	ID                int64             `json:"id"`
	OwnerID           int64             `json:"ownerId"`
	OwnerCompany      string            `json:"-"`
	State             RequestState      `json:"state"`
	SelectionPolicy   SelectionPolicy   `json:"selectionPolicy"`
	OffersDeadline    time.Time         `json:"offersDeadline"`
	MinProviderSize   string            `json:"minProviderSize"`
	MinProviderRating string            `json:"minProviderRating"`
	Category          string            `json:"category"`
	Subcategory       string            `json:"subcategory"`
	AssignmentType    string            `json:"assignmentType"`
	Details           map[string]string `json:"details,omitempty"`
	ContractID        *int64            `json:"contractId,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Decided сообщает, что по запросу уже есть контракт.
func (r *Request) Decided() bool {
	return r.ContractID != nil
}

// CreateRequestInput представляет структуру запроса для создания тендерного запроса.
type CreateRequestInput struct {
	SelectionPolicy   SelectionPolicy   `json:"selectionPolicy"`
	OffersDeadline    time.Time         `json:"offersDeadline"`
	MinProviderSize   string            `json:"minProviderSize"`
	MinProviderRating string            `json:"minProviderRating"`
	Category          string            `json:"category"`
	Subcategory       string            `json:"subcategory"`
	AssignmentType    string            `json:"assignmentType"`
	Details           map[string]string `json:"details"`
}
