package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"HomeServicesAPI/internal/middleware"
	"HomeServicesAPI/internal/redisx"
	"HomeServicesAPI/internal/repository"
	"HomeServicesAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func contextWithTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

// registerOrderRoutes mounts authenticated order reads and cancellation.
//
//	GET  /orders/:number         -> status + items (redis cache, then DB)
//	POST /orders/:number/cancel  -> status -> cancelled, slot freed
func registerOrderRoutes(g *echo.Group, os *services.OrderService, rdb *redis.Client) {
	p := g.Group("/orders")
	p.Use(middleware.JWTMiddleware())

	p.GET("/:number", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		number := c.Param("number")

		ctx, cancel := contextWithTimeout(c, 3*time.Second)
		defer cancel()

		// status-only fast path for polling clients
		if c.QueryParam("statusOnly") == "true" {
			key := fmt.Sprintf(redisx.KeyOrderStatus, number)
			if s, err := rdb.Get(ctx, key).Result(); err == nil && s != "" {
				return c.JSONBlob(http.StatusOK, []byte(s))
			}
		}

		order, items, err := os.GetByNumber(ctx, number, cl.CustomerID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrOrderNotFound):
				return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
			case errors.Is(err, services.ErrForbidden):
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "order lookup failed"})
		}

		body, _ := json.Marshal(map[string]any{"status": order.Status})
		_ = rdb.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, number), body, redisx.TTLStatusCache).Err()

		return c.JSON(http.StatusOK, map[string]any{
			"order": order,
			"items": items,
		})
	})

	p.POST("/:number/cancel", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		number := c.Param("number")

		ctx, cancel := contextWithTimeout(c, 5*time.Second)
		defer cancel()

		order, err := os.Cancel(ctx, number, cl.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found or already cancelled"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "cancel failed"})
		}

		// refresh the status cache so pollers see the cancellation
		body, _ := json.Marshal(map[string]any{"status": order.Status})
		_ = rdb.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, number), body, redisx.TTLStatusCache).Err()

		return c.JSON(http.StatusOK, map[string]any{
			"ordernumber": order.OrderNumber,
			"status":      order.Status,
		})
	})
}
