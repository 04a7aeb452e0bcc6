package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCancelled = "OrderCancelled"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order number
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID        int64   `json:"order_id"`
	OrderNumber    string  `json:"order_number"`
	CustomerID     int64   `json:"customer_id"`
	Status         string  `json:"status"`
	IsConsultation bool    `json:"is_consultation"`
	ServiceDate    string  `json:"service_date"`
	ServiceTime    string  `json:"service_time"`
	TotalAmount    float64 `json:"total_amount"`
}

type OrderCancelledPayload struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	ServiceDate string `json:"service_date"`
	ServiceTime string `json:"service_time"`
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
