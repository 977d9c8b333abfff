package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Delete(ctx context.Context, id string) error
}

// Patch is a wholesale field update; numeric fields default to zero when the
// caller leaves them out of the form.
type Patch struct {
	Name        string
	Description string
	Price       float64
	Discount    float64
	Stock       int
}

// Upload is a client-submitted image blob destined for the blob store.
type Upload struct {
	Filename string
	Data     []byte
}

type CreateRequest struct {
	UserID  int64
	Patch   Patch
	Uploads []Upload
}

type UpdateRequest struct {
	ID           string
	UserID       int64
	Patch        Patch
	KeepImageIDs []int64
	Uploads      []Upload
}

type ImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Response struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Price       float64         `json:"price"`
	Discount    float64         `json:"discount"`
	Stock       int             `json:"stock"`
	UserID      string          `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Images      []ImageResponse `json:"images"`
}

var (
	ErrNotFound        = errors.New("product_not_found")
	ErrForbidden       = errors.New("product_forbidden")
	ErrInvalidID       = errors.New("invalid_product_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrInvalidStock    = errors.New("invalid_stock")
	ErrInvalidUser     = errors.New("invalid_user")
)
