package redisx

import "time"

const (
	// Checkout idempotency fast path: idem:checkout:{idempotency_key} -> order_number.
	// The orders table stays the source of truth; this only short-circuits retries.
	KeyIdemCheckout = "idem:checkout:%s"

	// Order status cache: order_status:{order_number} -> JSON status body.
	KeyOrderStatus = "order_status:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
