package events

import "time"

type EventType string // Тип события жизненного цикла

const (
	OfferSubmitted   EventType = "OFFER_SUBMITTED"
	QuestionAsked    EventType = "QUESTION_ASKED"
	QuestionAnswered EventType = "QUESTION_ANSWERED"
	WinnerSelected   EventType = "WINNER_SELECTED"
)

// Envelope - конверт события для notification/export-слоя. Доставка писем
// и генерация документов - забота получателя, ядро только публикует факт.
type Envelope struct {
	EventID     string           `json:"event_id"`
	EventType   EventType        `json:"event_type"`
	Timestamp   time.Time        `json:"timestamp"`
	Source      string           `json:"source"`
	RequestID   int64            `json:"request_id"`
	RelevantIDs map[string]int64 `json:"relevant_ids,omitempty"`
	Data        map[string]any   `json:"data,omitempty"`
}
