package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"HomeServicesAPI/internal/model"
	"HomeServicesAPI/internal/repository"

	"github.com/google/uuid"
)

// priceTolerance is how far the client-advertised total may drift from the
// server-recomputed one (stale catalog, client-side rounding) before the
// submission is rejected as a pricing mismatch.
const priceTolerance = 0.05

// ErrPricingMismatch: the client's total disagrees with the server's
// recomputation beyond tolerance. The server value is authoritative.
var ErrPricingMismatch = errors.New("submitted total does not match server pricing")

// ValidationError is malformed or incomplete client input. Surfaced to the
// user, never persisted.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type AddonChoice struct {
	AddonID  int64 `json:"addonId"`
	Quantity int   `json:"quantity"`
}

type CheckoutCartItem struct {
	ProductID  int64             `json:"productId"`
	Quantity   int               `json:"quantity"`
	Variations map[string]string `json:"variations"`
	Addons     []AddonChoice     `json:"addons"`
}

type CheckoutRequest struct {
	CustomerName   string             `json:"customerName"`
	CustomerEmail  string             `json:"customerEmail"`
	CustomerPhone  string             `json:"customerPhone"`
	Address        string             `json:"address"`
	ServiceDate    string             `json:"serviceDate"`
	ServiceTime    string             `json:"serviceTime"`
	Notes          string             `json:"notes"`
	IsConsultation bool               `json:"isConsultation"`
	IdempotencyKey string             `json:"idempotencyKey"`
	CartItems      []CheckoutCartItem `json:"cartItems"`
	ClientTotal    float64            `json:"clientTotal"` // advisory only
}

// CatalogStore is what checkout needs from the catalog read side.
type CatalogStore interface {
	GetProduct(ctx context.Context, productID int64) (*model.Product, error)
	GetVariantPrices(ctx context.Context, productID int64) ([]model.VariantPriceEntry, error)
}

type TaxStore interface {
	GetTaxSettings(ctx context.Context) (model.TaxSettings, error)
}

type OrderStore interface {
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) error
}

// Mailer sends the confirmation message after a successful write.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail, customerName, orderNumber string, total float64) error
}

// EventPublisher announces order lifecycle changes to downstream consumers.
type EventPublisher interface {
	OrderCreated(o *model.Order)
	OrderCancelled(o *model.Order)
}

type CheckoutService struct {
	Catalog CatalogStore
	Taxes   TaxStore
	Orders  OrderStore
	Mailer  Mailer
	Events  EventPublisher
	Now     func() time.Time // test seam
}

func NewCheckoutService(cat CatalogStore, taxes TaxStore, orders OrderStore, mailer Mailer, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		Catalog: cat,
		Taxes:   taxes,
		Orders:  orders,
		Mailer:  mailer,
		Events:  events,
		Now:     time.Now,
	}
}

func (s *CheckoutService) validate(req *CheckoutRequest) (time.Time, error) {
	if req.CustomerName == "" {
		return time.Time{}, &ValidationError{Field: "customerName", Reason: "required"}
	}
	if req.CustomerEmail == "" {
		return time.Time{}, &ValidationError{Field: "customerEmail", Reason: "required"}
	}
	if req.CustomerPhone == "" {
		return time.Time{}, &ValidationError{Field: "customerPhone", Reason: "required"}
	}
	if len(req.CartItems) == 0 {
		return time.Time{}, &ValidationError{Field: "cartItems", Reason: "at least one item required"}
	}
	date, err := time.Parse(dateLayout, req.ServiceDate)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "serviceDate", Reason: "must be YYYY-MM-DD"}
	}
	// The parsed date is midnight UTC; build "today" the same way from the
	// clock's local calendar day so the comparison never drifts a day on
	// servers west of UTC.
	y, m, d := s.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, &ValidationError{Field: "serviceDate", Reason: "must not be in the past"}
	}
	if !ValidSlot(req.ServiceTime) {
		return time.Time{}, &ValidationError{Field: "serviceTime", Reason: "not a valid slot"}
	}
	return date, nil
}

// pricedLine is one cart line after server-side re-derivation.
type pricedLine struct {
	item     model.OrderItem
	taxable  bool
	subtotal float64
}

func (s *CheckoutService) priceLine(ctx context.Context, line CheckoutCartItem) (*pricedLine, error) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	p, err := s.Catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, &ValidationError{Field: "cartItems", Reason: fmt.Sprintf("product %d not found", line.ProductID)}
		}
		return nil, err
	}

	entries, err := s.Catalog.GetVariantPrices(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	res, err := ResolvePrice(p.ProductType, p.Attributes, line.Variations, p.BasePrice, entries)
	if err != nil {
		return nil, err
	}
	if !res.Complete {
		return nil, &ValidationError{Field: "variations", Reason: fmt.Sprintf("selection incomplete for product %d", line.ProductID)}
	}

	sel := make(map[int64]int, len(line.Addons))
	for _, a := range line.Addons {
		sel[a.AddonID] = ClampQty(a.Quantity)
	}
	addons := AggregateAddons(p.AddonGroups, sel, p.ProductType)
	if !addons.Ready {
		return nil, &ValidationError{Field: "addons", Reason: fmt.Sprintf("product %d requires at least one add-on", line.ProductID)}
	}

	subtotal := res.Price*float64(line.Quantity) + addons.Delta
	return &pricedLine{
		item: model.OrderItem{
			ProductID:    p.ProductID,
			ProductName:  p.Title,
			ProductImage: p.Image,
			ProductSKU:   p.SKU,
			VariantTitle: VariantTitle(p.Attributes, line.Variations),
			Quantity:     line.Quantity,
			UnitPrice:    res.Price,
			LineTotal:    Round2(subtotal),
			Addons:       addons.Selected,
		},
		taxable:  p.Taxable,
		subtotal: subtotal,
	}, nil
}

// Checkout re-derives the full price server-side, claims the slot and
// persists the order atomically. Client totals are advisory; the recomputed
// value is what gets stored.
func (s *CheckoutService) Checkout(ctx context.Context, customerID int64, req CheckoutRequest) (*model.OrderConfirmation, error) {
	date, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	} else if existing, err := s.Orders.FindByIdempotencyKey(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return confirmation(existing, true), nil
	}

	var (
		subtotal    float64
		taxableBase float64
		hasTaxable  bool
		items       []model.OrderItem
	)
	for _, line := range req.CartItems {
		pl, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		subtotal += pl.subtotal
		if pl.taxable {
			hasTaxable = true
			taxableBase += pl.subtotal
		}
		items = append(items, pl.item)
	}

	settings, err := s.Taxes.GetTaxSettings(ctx)
	if err != nil {
		return nil, err
	}
	// hasTaxable, not taxableBase > 0: a taxable line priced at zero still
	// owes any enabled fixed-amount rule.
	taxes := CalculateTaxes(taxableBase, hasTaxable, settings.VATRule(), settings.ServiceRule())
	total := subtotal + taxes.TotalTaxAmount

	if req.ClientTotal != 0 && math.Abs(req.ClientTotal-total) > priceTolerance {
		return nil, fmt.Errorf("%w: client=%.2f server=%.2f", ErrPricingMismatch, req.ClientTotal, total)
	}

	status := model.OrderPending
	if req.IsConsultation {
		status = model.OrderConsultationPending
	}
	order := &model.Order{
		IdempotencyKey:   req.IdempotencyKey,
		CustomerID:       customerID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Address:          req.Address,
		Status:           status,
		PaymentStatus:    model.PaymentUnpaid,
		IsConsultation:   req.IsConsultation,
		Subtotal:         Round2(subtotal),
		VATAmount:        Round2(taxes.VATAmount),
		ServiceTaxAmount: Round2(taxes.ServiceTaxAmount),
		TotalAmount:      Round2(total),
		ServiceDate:      date,
		ServiceTime:      req.ServiceTime,
		Notes:            req.Notes,
	}

	if err := s.Orders.CreateOrder(ctx, order, items); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
			// a concurrent retry with the same key won the insert
			if existing, ferr := s.Orders.FindByIdempotencyKey(ctx, req.IdempotencyKey); ferr == nil && existing != nil {
				return confirmation(existing, true), nil
			}
		}
		return nil, err
	}

	// best-effort side effects, never fail the order
	if s.Mailer != nil {
		if err := s.Mailer.SendOrderConfirmation(ctx, order.CustomerEmail, order.CustomerName, order.OrderNumber, order.TotalAmount); err != nil {
			log.Printf("order %s: confirmation email failed: %v", order.OrderNumber, err)
		}
	}
	if s.Events != nil {
		s.Events.OrderCreated(order)
	}

	return confirmation(order, false), nil
}

// Replay returns the stored confirmation for an already-used idempotency
// key, or nil when the key is unknown. The HTTP layer calls this on a redis
// cache hit to skip re-pricing; the orders table stays the source of truth,
// so a stale cache entry just falls through to the full checkout.
func (s *CheckoutService) Replay(ctx context.Context, key string) (*model.OrderConfirmation, error) {
	if key == "" {
		return nil, nil
	}
	existing, err := s.Orders.FindByIdempotencyKey(ctx, key)
	if err != nil || existing == nil {
		return nil, err
	}
	return confirmation(existing, true), nil
}

// VariantPrice answers POST /variant-price: the authoritative unit price
// for a fully specified combination, straight from the resolver.
func (s *CheckoutService) VariantPrice(ctx context.Context, productID int64, combination map[string]string) (float64, error) {
	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	entries, err := s.Catalog.GetVariantPrices(ctx, productID)
	if err != nil {
		return 0, err
	}
	res, err := ResolvePrice(p.ProductType, p.Attributes, combination, p.BasePrice, entries)
	if err != nil {
		return 0, err
	}
	if !res.Complete {
		return 0, &ValidationError{Field: "variationCombination", Reason: "must specify every attribute"}
	}
	return res.Price, nil
}

func confirmation(o *model.Order, idempotent bool) *model.OrderConfirmation {
	return &model.OrderConfirmation{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       o.TotalAmount,
		Idempotent:  idempotent,
	}
}
