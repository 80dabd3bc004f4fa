package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	Name         string    `gorm:"not null"               json:"name"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Role         string    `gorm:"not null;default:user"  json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name string    `gorm:"uniqueIndex;not null"  json:"name"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                  json:"id"`
	Name        string          `gorm:"not null;index"                        json:"name"`
	Description string          `gorm:"not null;default:''"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"           json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"   json:"stock"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"                       json:"category_id,omitempty"`
	Category    *Category       `gorm:"foreignKey:CategoryID"                 json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Cart is created lazily on the first add and is never deleted; clearing a
// cart removes its items only.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"                           json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"                 json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"  json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                            json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity >= 1"                    json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID"                            json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error     { newID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error  { newID(&p.ID); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error     { newID(&c.ID); return nil }
func (i *CartItem) BeforeCreate(*gorm.DB) error { newID(&i.ID); return nil }

func (User) TableName() string     { return "users" }
func (Category) TableName() string { return "categories" }
func (Product) TableName() string  { return "products" }
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// All lists the tables in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &Cart{}, &CartItem{}}
}
