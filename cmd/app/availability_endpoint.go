package main

import (
	"errors"
	"net/http"

	"HomeServicesAPI/internal/services"

	"github.com/labstack/echo/v4"
)

// registerAvailabilityRoutes mounts the public slot availability endpoint.
//
//	GET /availability?date=YYYY-MM-DD
func registerAvailabilityRoutes(g *echo.Group, bs *services.BookingService) {
	g.GET("/availability", func(c echo.Context) error {
		av, err := bs.Availability(c.Request().Context(), c.QueryParam("date"))
		if err != nil {
			if errors.Is(err, services.ErrBadDate) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "availability lookup failed"})
		}
		return c.JSON(http.StatusOK, av)
	})
}
