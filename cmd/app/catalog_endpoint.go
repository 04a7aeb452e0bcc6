package main

import (
	"errors"
	"net/http"

	"HomeServicesAPI/internal/repository"
	"HomeServicesAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type variantPriceRequest struct {
	ProductID            int64             `json:"productId"`
	VariationCombination map[string]string `json:"variationCombination"`
}

// registerCatalogRoutes mounts the public pricing lookups the configurator
// needs while the customer assembles a product.
//
//	POST /variant-price  -> authoritative price for a combination
//	GET  /tax-settings   -> the two named tax rules, fetched once per session
func registerCatalogRoutes(g *echo.Group, cs *services.CheckoutService, tr *repository.TaxRepository) {
	g.POST("/variant-price", func(c echo.Context) error {
		var req variantPriceRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
		}
		if req.ProductID == 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "productId required"})
		}

		price, err := cs.VariantPrice(c.Request().Context(), req.ProductID, req.VariationCombination)
		if err != nil {
			var ve *services.ValidationError
			switch {
			case errors.As(err, &ve), errors.Is(err, repository.ErrProductNotFound), errors.Is(err, services.ErrEmptyVariationSchema):
				return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "price lookup failed"})
		}
		return c.JSON(http.StatusOK, map[string]any{"success": true, "price": services.Round2(price)})
	})

	g.GET("/tax-settings", func(c echo.Context) error {
		settings, err := tr.GetTaxSettings(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "tax settings lookup failed"})
		}
		return c.JSON(http.StatusOK, settings)
	})
}
