package migration

import (
	alertdomain "github.com/shopcraft/storefront/internal/alert/domain"
	catalogdomain "github.com/shopcraft/storefront/internal/catalog/domain"
	"gorm.io/gorm"
)

// Bootstrap builds the schema through gorm for dialects without a migration
// driver (sqlite, in-memory test databases). The partial unique index mirrors
// the one in 0001_init.up.sql.
func Bootstrap(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&catalogdomain.User{},
		&catalogdomain.Product{},
		&catalogdomain.Image{},
		&alertdomain.Notification{},
	); err != nil {
		return err
	}

	return conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_notifications_product_unread
		 ON notifications (product_id)
		 WHERE read = FALSE`,
	).Error
}
