package repository

import (
	"context"

	"github.com/shopcraft/storefront/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, description, price, discount, stock, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.Stock,
		product.UserID,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, price, discount, stock, user_id, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}

	images, err := r.ListImages(ctx, db, id)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, price, discount, stock, user_id, created_at, updated_at
		 FROM products ORDER BY created_at DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	for i := range items {
		images, err := r.ListImages(ctx, db, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Images = images
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, price = ?, discount = ?, stock = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.Stock,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM images WHERE product_id = ?`, id,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM products WHERE id = ?`, id,
	).Error
}

func (r *repo) ListImages(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Image, error) {
	var images []domain.Image
	err := db.WithContext(ctx).Raw(
		`SELECT id, url, product_id FROM images WHERE product_id = ? ORDER BY id`,
		productID,
	).Scan(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *repo) InsertImages(ctx context.Context, db *gorm.DB, images []domain.Image) error {
	for _, image := range images {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO images (id, url, product_id) VALUES (?, ?, ?)`,
			image.ID,
			image.URL,
			image.ProductID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) DeleteImages(ctx context.Context, db *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM images WHERE id IN ?`, ids,
	).Error
}
