package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error

	ListImages(ctx context.Context, db *gorm.DB, productID int64) ([]Image, error)
	InsertImages(ctx context.Context, db *gorm.DB, images []Image) error
	DeleteImages(ctx context.Context, db *gorm.DB, ids []int64) error
}
