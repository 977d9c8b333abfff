package domain

import (
	"fmt"
	"time"
)

// LowStockThreshold is the stock quantity below which a product becomes
// alert-eligible.
const LowStockThreshold = 5

// LowStockMessagePrefix identifies low-stock notifications among other
// notification rows; the dedup query matches on it.
const LowStockMessagePrefix = "Low stock alert"

type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProductID int64     `json:"product_id" gorm:"column:product_id;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Notification) TableName() string { return "notifications" }

// LowStockMessage renders the alert text embedding the product display name
// and the exact stock count observed at creation time.
func LowStockMessage(name string, stock int) string {
	return fmt.Sprintf("%s: %s has only %d items remaining", LowStockMessagePrefix, name, stock)
}
