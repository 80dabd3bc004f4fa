package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
	// MaxQuantity caps a single line item when positive. Stock is always the
	// other upper bound.
	MaxQuantity int
}
