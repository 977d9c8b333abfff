package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// EnsureLowStock persists an unread low-stock notification for the
	// product unless its stock is at or above the threshold or an unread
	// low-stock notification already exists.
	EnsureLowStock(ctx context.Context, productID int64, stock int) error

	// SweepAll evaluates every under-threshold product. Per-product failures
	// are logged and swallowed so the sweep continues.
	SweepAll(ctx context.Context) error

	ListUnread(ctx context.Context) ([]UnreadNotification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
}

// UnreadNotification is a ledger row joined with the current product state
// for the admin notification feed.
type UnreadNotification struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Message      string    `json:"message"`
	ProductName  string    `json:"product_name"`
	ProductStock int       `json:"product_stock"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrNotFound  = errors.New("notification_not_found")
	ErrInvalidID = errors.New("invalid_notification_id")
)
