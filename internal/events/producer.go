package events

import (
	"context"
	"log"
	"time"

	"HomeServicesAPI/internal/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes order lifecycle events through a buffered channel so
// checkout never blocks on the broker. Messages are keyed by order number to
// keep one order's events on one partition.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	service string
}

func NewProducer(brokers []string, topic, service string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		service: service,
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// flush whatever is already queued, then exit
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							_ = p.w.Close()
							close(p.closeCh)
							return
						}
						p.write(m)
					default:
						_ = p.w.Close()
						close(p.closeCh)
						return
					}
				}
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("events: publish failed: %v", err)
	}
}

// Close stops accepting events; the loop flushes what is left and exits.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the flush loop has drained.
func (p *Producer) WaitClosed() { <-p.closeCh }

func (p *Producer) publish(eventType, orderNumber string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.service,
		CorrelationID: orderNumber,
		Payload:       mustMarshal(payload),
	}
	p.inbox <- kafka.Message{
		Key:     []byte(orderNumber),
		Value:   mustMarshal(ev),
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "x-event-type", Value: []byte(eventType)}},
	}
}

func (p *Producer) OrderCreated(o *model.Order) {
	p.publish(EventOrderCreated, o.OrderNumber, OrderCreatedPayload{
		OrderID:        o.OrderID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		IsConsultation: o.IsConsultation,
		ServiceDate:    o.ServiceDate.Format("2006-01-02"),
		ServiceTime:    o.ServiceTime,
		TotalAmount:    o.TotalAmount,
	})
}

func (p *Producer) OrderCancelled(o *model.Order) {
	p.publish(EventOrderCancelled, o.OrderNumber, OrderCancelledPayload{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		ServiceDate: o.ServiceDate.Format("2006-01-02"),
		ServiceTime: o.ServiceTime,
	})
}
