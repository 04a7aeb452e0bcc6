package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"HomeServicesAPI/internal/middleware"
	"HomeServicesAPI/internal/model"
	"HomeServicesAPI/internal/redisx"
	"HomeServicesAPI/internal/repository"
	"HomeServicesAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// registerCheckoutRoutes mounts the authenticated checkout submission.
//
//	POST /checkout
//
// The server re-derives every price from the catalog; the client's totals
// are advisory. The write carries a request-level timeout — on timeout the
// client must re-query order status, not resubmit blindly (the idempotency
// key guards the retry either way).
func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService, rdb *redis.Client) {
	p := g.Group("/checkout")
	p.Use(middleware.JWTMiddleware())

	p.POST("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}

		var req services.CheckoutRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
		}

		ctx, cancel := contextWithTimeout(c, 10*time.Second)
		defer cancel()

		// idempotency fast path: a redis hit means this key already produced
		// an order, so replay it from the DB without re-pricing the cart. A
		// stale or missing cache entry falls through to the full checkout,
		// which re-checks the key against the orders table anyway.
		if req.IdempotencyKey != "" {
			idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, req.IdempotencyKey)
			if seen, err := redisx.Exists(ctx, rdb, idemKey); err == nil && seen {
				if conf, err := cs.Replay(ctx, req.IdempotencyKey); err == nil && conf != nil {
					return c.JSON(http.StatusCreated, checkoutBody(conf))
				}
			}
		}

		conf, err := cs.Checkout(ctx, cl.CustomerID, req)
		if err != nil {
			var ve *services.ValidationError
			switch {
			case errors.As(err, &ve):
				return c.JSON(http.StatusBadRequest, map[string]any{
					"success": false, "error": "validation_failed",
					"field": ve.Field, "reason": ve.Reason,
				})
			case errors.Is(err, repository.ErrSlotTaken):
				return c.JSON(http.StatusConflict, map[string]any{
					"success": false, "error": "slot_taken",
					"message": "that time slot was just booked, please pick another",
				})
			case errors.Is(err, services.ErrPricingMismatch):
				return c.JSON(http.StatusUnprocessableEntity, map[string]any{
					"success": false, "error": "pricing_mismatch", "message": err.Error(),
				})
			case errors.Is(err, services.ErrEmptyVariationSchema):
				return c.JSON(http.StatusUnprocessableEntity, map[string]any{
					"success": false, "error": "catalog_data_error", "message": err.Error(),
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false, "error": "order_not_created", "message": "please retry",
			})
		}

		// idempotency shortcut + status cache; redis is advisory, DB is truth
		if req.IdempotencyKey != "" {
			idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, req.IdempotencyKey)
			_ = rdb.Set(ctx, idemKey, conf.OrderNumber, redisx.TTLIdempotency).Err()
		}
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, conf.OrderNumber)
		_ = rdb.Set(ctx, statusKey, `{"status":"`+conf.Status+`"}`, redisx.TTLStatusCache).Err()

		return c.JSON(http.StatusCreated, checkoutBody(conf))
	})
}

func checkoutBody(conf *model.OrderConfirmation) map[string]any {
	return map[string]any{
		"success":     true,
		"orderId":     conf.OrderID,
		"orderNumber": conf.OrderNumber,
		"status":      conf.Status,
		"total":       conf.Total,
		"idempotent":  conf.Idempotent,
	}
}
