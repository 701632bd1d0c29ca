package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Publisher публикует события жизненного цикла: пишет их в лог и, если
// настроен webhook, отправляет конверт по HTTP. Ошибки доставки никогда
// не прерывают транзакции ядра.
type Publisher struct {
	source     string
	httpClient *http.Client
	webhookURL string
}

// NewPublisher создает новый публикатор событий.
func NewPublisher(source, webhookURL string) *Publisher {
	return &Publisher{
		source: source,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

// Publish публикует событие жизненного цикла по запросу requestID.
func (p *Publisher) Publish(ctx context.Context, eventType EventType, requestID int64, relevantIDs map[string]int64, data map[string]any) {
	envelope := Envelope{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		Timestamp:   time.Now().UTC(),
		Source:      p.source,
		RequestID:   requestID,
		RelevantIDs: relevantIDs,
		Data:        data,
	}

	slog.InfoContext(ctx, "event_published",
		"event_id", envelope.EventID,
		"event_type", envelope.EventType,
		"request_id", envelope.RequestID,
	)

	if p.webhookURL != "" {
		p.sendWebhook(ctx, envelope)
	}
}

func (p *Publisher) sendWebhook(ctx context.Context, envelope Envelope) {
	body, err := json.Marshal(envelope)
	if err != nil {
		slog.WarnContext(ctx, "webhook_marshal_failed", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		slog.WarnContext(ctx, "webhook_request_failed", "error", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", envelope.EventID)
	req.Header.Set("X-Event-Type", string(envelope.EventType))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "webhook_failed",
			"url", p.webhookURL,
			"event_type", envelope.EventType,
			"error", err,
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.WarnContext(ctx, "webhook_error",
			"url", p.webhookURL,
			"event_type", envelope.EventType,
			"status", resp.StatusCode,
		)
	}
}
