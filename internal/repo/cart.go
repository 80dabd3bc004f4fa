package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apperrors"
)

const (
	// ownedBy restricts cart_items to rows in the cart of the given user.
	ownedBy = "cart_id IN (SELECT id FROM carts WHERE carts.user_id = ?)"
	// withinStock compares a resulting quantity against the live stock of the
	// row's product, inside the same statement that writes it.
	withinStock = "(SELECT stock FROM products WHERE products.id = cart_items.product_id)"
)

// GetCart returns the user's cart with items and product snapshots, or nil
// when the user has never added anything.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Items.Product.Category").
		Where("user_id = ?", userID).
		Take(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertLineItem adds delta to the user's line item for productID, creating
// the cart and the item as needed. The stock bound is part of the write, so
// concurrent adds for the same product cannot jointly exceed stock.
func (r *GormRepo) UpsertLineItem(ctx context.Context, userID, productID uuid.UUID, delta int) (*models.CartItem, error) {
	if delta < 1 {
		return nil, fmt.Errorf("quantity %d: %w", delta, apperrors.ErrInvalidQuantity)
	}

	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id", "stock").
			Where("id = ?", productID).
			Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
			}
			return err
		}

		cartID, err := ensureCart(tx, userID)
		if err != nil {
			return err
		}

		ok, err := r.increment(tx, cartID, productID, delta)
		if err != nil {
			return err
		}
		if !ok {
			if err := r.checkBounds(delta, product.Stock); err != nil {
				return err
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
				DoNothing: true,
			}).Omit(clause.Associations).Create(&models.CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  delta,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// The row already exists, so the bounded increment above is
				// what rejected it, or a concurrent add just created it.
				ok, err = r.increment(tx, cartID, productID, delta)
				if err != nil {
					return err
				}
				if !ok {
					return r.rejectIncrement(tx, cartID, productID, delta)
				}
			}
		}

		return tx.Preload("Product.Category").
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Take(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity replaces the quantity of a line item owned by userID. Items in
// other users' carts are reported as missing.
func (r *GormRepo) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity %d: %w", qty, apperrors.ErrInvalidQuantity)
	}
	if r.MaxQuantity > 0 && qty > r.MaxQuantity {
		return nil, fmt.Errorf("quantity %d above limit %d: %w", qty, r.MaxQuantity, apperrors.ErrInvalidQuantity)
	}

	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND "+ownedBy, itemID, userID).
			Where("? <= "+withinStock, qty).
			Update("quantity", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing models.CartItem
			err := tx.Select("id").Where("id = ? AND "+ownedBy, itemID, userID).Take(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart item %s: %w", itemID, apperrors.ErrNotFound)
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("quantity %d: %w", qty, apperrors.ErrOutOfStock)
		}

		return tx.Preload("Product.Category").Where("id = ?", itemID).Take(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes a line item owned by userID and returns what was removed.
func (r *GormRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND "+ownedBy, itemID, userID).Take(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item %s: %w", itemID, apperrors.ErrNotFound)
		}
		if err != nil {
			return err
		}

		res := tx.Where("id = ?", item.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart item %s: %w", itemID, apperrors.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Clear deletes every line item in the user's cart. The cart row stays.
func (r *GormRepo) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where(ownedBy, userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func ensureCart(tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error) {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Cart{UserID: userID}).Error; err != nil {
		return uuid.Nil, err
	}

	var cart models.Cart
	if err := tx.Select("id").Where("user_id = ?", userID).Take(&cart).Error; err != nil {
		return uuid.Nil, err
	}
	return cart.ID, nil
}

// increment applies delta only if the result stays within stock and the
// per-item limit. It reports whether a row was updated.
func (r *GormRepo) increment(tx *gorm.DB, cartID, productID uuid.UUID, delta int) (bool, error) {
	q := tx.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Where("quantity + ? <= "+withinStock, delta)
	if r.MaxQuantity > 0 {
		q = q.Where("quantity + ? <= ?", delta, r.MaxQuantity)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) checkBounds(qty, stock int) error {
	if r.MaxQuantity > 0 && qty > r.MaxQuantity {
		return fmt.Errorf("quantity %d above limit %d: %w", qty, r.MaxQuantity, apperrors.ErrInvalidQuantity)
	}
	if qty > stock {
		return fmt.Errorf("quantity %d, stock %d: %w", qty, stock, apperrors.ErrOutOfStock)
	}
	return nil
}

func (r *GormRepo) rejectIncrement(tx *gorm.DB, cartID, productID uuid.UUID, delta int) error {
	var cur struct {
		Quantity int
		Stock    int
	}
	if err := tx.Table("cart_items").
		Select("cart_items.quantity, products.stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ? AND cart_items.product_id = ?", cartID, productID).
		Take(&cur).Error; err != nil {
		return err
	}
	if err := r.checkBounds(cur.Quantity+delta, cur.Stock); err != nil {
		return err
	}
	// Stock moved between the two statements; report against what was seen.
	return fmt.Errorf("quantity %d: %w", cur.Quantity+delta, apperrors.ErrOutOfStock)
}
