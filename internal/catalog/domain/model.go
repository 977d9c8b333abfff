package domain

import "time"

type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	Discount    float64   `json:"discount" gorm:"not null;default:0"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null;index:ix_products_user"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Images []Image `json:"images" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// Image rows never outlive their product; they are removed during keep-set
// reconciliation and on product delete.
type Image struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	URL       string `json:"url" gorm:"type:text;not null"`
	ProductID int64  `json:"product_id" gorm:"column:product_id;not null;index:ix_images_product"`
}

func (Image) TableName() string { return "images" }
