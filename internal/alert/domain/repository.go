package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// StockRow is the slice of a product an evaluation pass needs.
type StockRow struct {
	ID    int64
	Name  string
	Stock int
}

// UnreadRow is an unread notification joined with the current product state.
type UnreadRow struct {
	ID           int64
	ProductID    int64
	Message      string
	ProductName  string
	ProductStock int
	CreatedAt    time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	FindUnreadLowStock(ctx context.Context, db *gorm.DB, productID int64) (*Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, id int64) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Notification, error)
	ListUnread(ctx context.Context, db *gorm.DB) ([]UnreadRow, error)

	FindStockRow(ctx context.Context, db *gorm.DB, productID int64) (*StockRow, error)
	ListBelowThreshold(ctx context.Context, db *gorm.DB, threshold int) ([]StockRow, error)
}
