package services

import (
	"context"
	"errors"

	"HomeServicesAPI/internal/model"
	"HomeServicesAPI/internal/repository"
)

var ErrForbidden = errors.New("order belongs to another customer")

// OrderService covers post-checkout reads and cancellation.
type OrderService struct {
	Repo   *repository.OrderRepository
	Events EventPublisher
}

func NewOrderService(r *repository.OrderRepository, events EventPublisher) *OrderService {
	return &OrderService{Repo: r, Events: events}
}

// GetByNumber returns an order with its items, restricted to the owner.
func (s *OrderService) GetByNumber(ctx context.Context, number string, customerID int64) (*model.Order, []model.OrderItem, error) {
	o, err := s.Repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	if o.CustomerID != customerID {
		return nil, nil, ErrForbidden
	}
	items, err := s.Repo.GetItems(ctx, o.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// Cancel sets status to cancelled, which frees the order's slot for future
// availability queries, and announces the change downstream.
func (s *OrderService) Cancel(ctx context.Context, number string, customerID int64) (*model.Order, error) {
	o, err := s.Repo.Cancel(ctx, number, customerID)
	if err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.OrderCancelled(o)
	}
	return o, nil
}
