package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/pkg/apperrors"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// CartStore is implemented by *repo.GormRepo.
type CartStore interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpsertLineItem(ctx context.Context, userID, productID uuid.UUID, delta int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.CartItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CartService struct {
	Repo      CartStore
	Pricing   pricing.Policy
	Publisher events.Publisher
	Metrics   *metrics.CartMetrics

	pending sync.WaitGroup
}

type CartView struct {
	ID      *uuid.UUID        `json:"id,omitempty"`
	Items   []models.CartItem `json:"items"`
	Summary pricing.Summary   `json:"summary"`
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	view := &CartView{Items: []models.CartItem{}}
	if cart != nil {
		view.ID = &cart.ID
		if cart.Items != nil {
			view.Items = cart.Items
		}
	}
	view.Summary = s.ComputeSummary(cart).Present()
	return view, nil
}

// ComputeSummary prices the cart's items at their current product prices. A
// nil cart is an empty cart.
func (s *CartService) ComputeSummary(cart *models.Cart) pricing.Breakdown {
	var lines []pricing.Line
	if cart != nil {
		lines = make([]pricing.Line, 0, len(cart.Items))
		for _, it := range cart.Items {
			if it.Product == nil {
				continue
			}
			lines = append(lines, pricing.Line{UnitPrice: it.Product.Price, Quantity: it.Quantity})
		}
	}
	return s.Pricing.Compute(lines)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int) (item *models.CartItem, err error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "product_id", productID)
	defer func() { s.Metrics.Observe("add", err) }()

	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product_id is required: %w", apperrors.ErrMalformedRequest)
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity %d: %w", qty, apperrors.ErrInvalidQuantity)
	}

	item, err = s.Repo.UpsertLineItem(ctx, userID, productID, qty)
	if err != nil {
		return nil, err
	}

	l.Info("cart_item_added", "item_id", item.ID, "quantity", item.Quantity)
	s.publish(ctx, events.CartEvent{
		Type:      events.CartItemAdded,
		UserID:    userID,
		ItemID:    &item.ID,
		ProductID: &item.ProductID,
		Quantity:  item.Quantity,
	})
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (item *models.CartItem, err error) {
	l := logging.FromContext(ctx).With("svc", "cart.update", "item_id", itemID)
	defer func() { s.Metrics.Observe("update", err) }()

	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity %d: %w", qty, apperrors.ErrInvalidQuantity)
	}

	item, err = s.Repo.SetQuantity(ctx, userID, itemID, qty)
	if err != nil {
		return nil, err
	}

	l.Info("cart_item_updated", "quantity", item.Quantity)
	s.publish(ctx, events.CartEvent{
		Type:      events.CartItemUpdated,
		UserID:    userID,
		ItemID:    &item.ID,
		ProductID: &item.ProductID,
		Quantity:  item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) (err error) {
	l := logging.FromContext(ctx).With("svc", "cart.remove", "item_id", itemID)
	defer func() { s.Metrics.Observe("remove", err) }()

	if userID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}

	item, err := s.Repo.Remove(ctx, userID, itemID)
	if err != nil {
		return err
	}

	l.Info("cart_item_removed")
	s.publish(ctx, events.CartEvent{
		Type:      events.CartItemRemoved,
		UserID:    userID,
		ItemID:    &item.ID,
		ProductID: &item.ProductID,
	})
	return nil
}

// ClearCart removes every item from the user's cart and reports how many
// were removed.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (n int64, err error) {
	l := logging.FromContext(ctx).With("svc", "cart.clear")
	defer func() { s.Metrics.Observe("clear", err) }()

	if userID == uuid.Nil {
		return 0, apperrors.ErrUnauthorized
	}

	n, err = s.Repo.Clear(ctx, userID)
	if err != nil {
		return 0, err
	}

	l.Info("cart_cleared", "removed", n)
	if n > 0 {
		s.publish(ctx, events.CartEvent{Type: events.CartCleared, UserID: userID})
	}
	return n, nil
}

// publish hands ev to the publisher without holding up the caller. Failures
// are logged and never change the outcome of the mutation.
func (s *CartService) publish(ctx context.Context, ev events.CartEvent) {
	if s.Publisher == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	l := logging.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.Publisher.Publish(ctx, ev); err != nil {
			l.Warn("cart_event_publish_failed", "type", ev.Type, "error", err)
		}
	}()
}

// Wait blocks until in-flight event publishes have finished.
func (s *CartService) Wait() {
	s.pending.Wait()
}
