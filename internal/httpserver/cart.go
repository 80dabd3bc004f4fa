package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	uid, err := userID(c)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}

	view, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, err := userID(c)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}

	var req transport.AddItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}
	qty, err := transport.ParseQuantity(req.Quantity)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}

	item, err := h.Svc.AddToCart(ctx, uid, uuid.MustParse(req.ProductID), qty)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	uid, err := userID(c)
	if err != nil {
		return fail(c, l, "update_cart_item_error", err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return fail(c, l, "update_cart_item_error", err)
	}

	var req transport.UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, l, "update_cart_item_error", err)
	}
	qty, err := transport.ParseQuantity(req.Quantity)
	if err != nil {
		return fail(c, l, "update_cart_item_error", err)
	}

	item, err := h.Svc.UpdateQuantity(ctx, uid, itemID, qty)
	if err != nil {
		return fail(c, l, "update_cart_item_error", err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	uid, err := userID(c)
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return fail(c, l, "remove_from_cart_error", err)
	}

	if err := h.Svc.RemoveFromCart(ctx, uid, itemID); err != nil {
		return fail(c, l, "remove_from_cart_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"removed": itemID})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	uid, err := userID(c)
	if err != nil {
		return fail(c, l, "clear_cart_error", err)
	}

	n, err := h.Svc.ClearCart(ctx, uid)
	if err != nil {
		return fail(c, l, "clear_cart_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"removed": n})
}
