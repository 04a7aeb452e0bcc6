package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"HomeServicesAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrSlotTaken: another non-cancelled booking already holds the
	// (service_date, service_time) pair. Returned as a typed conflict, the
	// caller re-fetches availability and asks the customer to pick again.
	ErrSlotTaken = errors.New("service slot already booked")

	// ErrDuplicateIdempotencyKey: an order with the same idempotency key
	// landed first; the caller should return that order instead.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

	ErrOrderNotFound = errors.New("order not found")
)

const uniqueViolation = "23505"

// orderNumberAttempts bounds retries when two transactions race the same
// per-day counter and collide on order_number.
const orderNumberAttempts = 3

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// nextOrderNumber bumps the per-day sequence row and formats the
// human-readable number, e.g. SRV-20260830-0007.
func nextOrderNumber(ctx context.Context, tx pgx.Tx, day time.Time) (string, error) {
	var seq int
	query := `INSERT INTO order_counters (day, last_seq) VALUES ($1, 1)
	          ON CONFLICT (day) DO UPDATE SET last_seq = order_counters.last_seq + 1
	          RETURNING last_seq`
	if err := tx.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		return "", fmt.Errorf("order counter: %w", err)
	}
	return fmt.Sprintf("SRV-%s-%04d", day.Format("20060102"), seq), nil
}

// CreateOrder writes the order and all of its items as one transaction.
//
// The INSERT into orders is also the slot claim: a partial unique index on
// (service_date, service_time) over non-cancelled, non-consultation rows
// makes two concurrent claims impossible — the loser gets ErrSlotTaken and
// nothing of either the order or its items is left behind. The order number
// is taken from the per-day counter inside the same transaction and retried
// on the rare collision.
func (r *OrderRepository) CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		err := r.createOrderOnce(ctx, o, items)
		if err == nil {
			return nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "orders_order_number_key" {
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("order number collision persisted after %d attempts: %w", orderNumberAttempts, lastErr)
}

func (r *OrderRepository) createOrderOnce(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := nextOrderNumber(ctx, tx, o.ServiceDate)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `INSERT INTO orders
	          (order_number, idempotency_key, customer_id, customer_name, customer_email, customer_phone,
	           address, status, payment_status, is_consultation, subtotal, vat_amount, service_tax_amount,
	           total_amount, service_date, service_time, notes, created_at, updated_at)
	          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$18)
	          RETURNING id`
	err = tx.QueryRow(ctx, query,
		number, o.IdempotencyKey, o.CustomerID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.Address, o.Status, o.PaymentStatus, o.IsConsultation, o.Subtotal, o.VATAmount,
		o.ServiceTaxAmount, o.TotalAmount, o.ServiceDate, o.ServiceTime, o.Notes, now,
	).Scan(&o.OrderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "uq_orders_slot":
				return ErrSlotTaken
			case "orders_idempotency_key_key":
				return ErrDuplicateIdempotencyKey
			}
		}
		return fmt.Errorf("insert order: %w", err)
	}

	iq := `INSERT INTO order_items
	       (order_id, product_id, product_name, product_image, product_sku, variant_title,
	        quantity, unit_price, line_total, addons)
	       VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	for i := range items {
		it := &items[i]
		addons, err := json.Marshal(it.Addons)
		if err != nil {
			return fmt.Errorf("encode addons: %w", err)
		}
		if _, err := tx.Exec(ctx, iq,
			o.OrderID, it.ProductID, it.ProductName, it.ProductImage, it.ProductSKU,
			it.VariantTitle, it.Quantity, it.UnitPrice, it.LineTotal, addons,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	o.OrderNumber = number
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

const orderColumns = `id, order_number, idempotency_key, customer_id, customer_name,
	customer_email, customer_phone, address, status, payment_status, is_consultation,
	subtotal, vat_amount, service_tax_amount, total_amount, service_date, service_time,
	notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.OrderID, &o.OrderNumber, &o.IdempotencyKey, &o.CustomerID, &o.CustomerName,
		&o.CustomerEmail, &o.CustomerPhone, &o.Address, &o.Status, &o.PaymentStatus,
		&o.IsConsultation, &o.Subtotal, &o.VATAmount, &o.ServiceTaxAmount, &o.TotalAmount,
		&o.ServiceDate, &o.ServiceTime, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIdempotencyKey returns the order created by a previous attempt with
// the same key, or (nil, nil) when the key is unused.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE idempotency_key=$1`, key))
	if errors.Is(err, ErrOrderNotFound) {
		return nil, nil
	}
	return o, err
}

func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, number))
}

// Cancel flips an order to cancelled, which implicitly releases its slot
// for future availability queries. Only the owning customer may cancel.
func (r *OrderRepository) Cancel(ctx context.Context, number string, customerID int64) (*model.Order, error) {
	query := `UPDATE orders SET status='cancelled', updated_at=$3
	          WHERE order_number=$1 AND customer_id=$2 AND status <> 'cancelled'
	          RETURNING ` + orderColumns
	return scanOrder(r.DB.QueryRow(ctx, query, number, customerID, time.Now()))
}

// GetItems returns the persisted line items of an order.
func (r *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, product_image, product_sku,
	                 variant_title, quantity, unit_price, line_total, addons
	          FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		var addons []byte
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.ProductSKU, &it.VariantTitle, &it.Quantity,
			&it.UnitPrice, &it.LineTotal, &addons); err != nil {
			return nil, err
		}
		if len(addons) > 0 {
			if err := json.Unmarshal(addons, &it.Addons); err != nil {
				return nil, fmt.Errorf("decode addons: %w", err)
			}
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
