package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// ProductReader is implemented by *catalog.GormRepo.
type ProductReader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error)
}

type CatalogHTTP struct {
	Catalog ProductReader
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, l, "get_product_failed", err)
	}

	product, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		return fail(c, l, "get_product_failed", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := catalog.ParseIntDefault(c.QueryParam("page"), 1)
	size := catalog.ParseIntDefault(c.QueryParam("size"), catalog.DefaultPageSize)
	offset, limit := catalog.Calculate(page, size)

	total, items, err := h.Catalog.ListProducts(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": catalog.NewMeta(page, offset, limit, total),
	})
}
