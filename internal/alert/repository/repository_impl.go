package repository

import (
	"context"

	"github.com/shopcraft/storefront/internal/alert/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, product_id, message, read, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		notification.ID,
		notification.ProductID,
		notification.Message,
		notification.Read,
		notification.CreatedAt,
	).Error
}

func (r *repo) FindUnreadLowStock(ctx context.Context, db *gorm.DB, productID int64) (*domain.Notification, error) {
	var n domain.Notification
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, message, read, created_at
		 FROM notifications
		 WHERE product_id = ? AND read = ? AND message LIKE ?
		 LIMIT 1`,
		productID,
		false,
		"%"+domain.LowStockMessagePrefix+"%",
	).Scan(&n).Error
	if err != nil {
		return nil, err
	}
	if n.ID == 0 {
		return nil, nil
	}
	return &n, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE notifications SET read = ? WHERE id = ?`,
		true,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Notification, error) {
	var n domain.Notification
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, message, read, created_at
		 FROM notifications WHERE id = ?`,
		id,
	).Scan(&n).Error
	if err != nil {
		return nil, err
	}
	if n.ID == 0 {
		return nil, nil
	}
	return &n, nil
}

func (r *repo) ListUnread(ctx context.Context, db *gorm.DB) ([]domain.UnreadRow, error) {
	var items []domain.UnreadRow
	err := db.WithContext(ctx).Raw(
		`SELECT n.id, n.product_id, n.message, n.created_at,
		        p.name AS product_name, p.stock AS product_stock
		 FROM notifications n
		 JOIN products p ON p.id = n.product_id
		 WHERE n.read = ?
		 ORDER BY n.created_at DESC`,
		false,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindStockRow(ctx context.Context, db *gorm.DB, productID int64) (*domain.StockRow, error) {
	var row domain.StockRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, stock FROM products WHERE id = ?`,
		productID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListBelowThreshold(ctx context.Context, db *gorm.DB, threshold int) ([]domain.StockRow, error) {
	var rows []domain.StockRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, stock FROM products WHERE stock < ? ORDER BY id`,
		threshold,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
