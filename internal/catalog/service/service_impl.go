package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	alertdomain "github.com/shopcraft/storefront/internal/alert/domain"
	"github.com/shopcraft/storefront/internal/catalog/domain"
	"github.com/shopcraft/storefront/internal/clock"
	"github.com/shopcraft/storefront/internal/uploads"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Blobs  uploads.BlobStore
	Alerts alertdomain.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	genID  *snowflake.Node
	clock  clock.Clock
	blobs  uploads.BlobStore
	alerts alertdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("catalog.service"),
		repo:   p.Repo,
		genID:  p.GenID,
		clock:  p.Clock,
		blobs:  p.Blobs,
		alerts: p.Alerts,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	if err := validatePatch(req.Patch); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, domain.ErrInvalidUser
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        strings.TrimSpace(req.Patch.Name),
		Description: req.Patch.Description,
		Price:       req.Patch.Price,
		Discount:    req.Patch.Discount,
		Stock:       req.Patch.Stock,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var result *domain.Product
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, product); err != nil {
			return err
		}
		images, err := s.storeUploads(ctx, product.ID, req.Uploads)
		if err != nil {
			return err
		}
		if err := s.repo.InsertImages(ctx, tx, images); err != nil {
			return err
		}
		result, err = s.repo.FindByID(ctx, tx, product.ID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.checkLowStock(ctx, result.ID, result.Stock)
	resp := s.toResponse(result)
	return &resp, nil
}

// Update applies a wholesale field patch and reconciles the persisted image
// set against the keep list inside a single transaction. A blob upload
// failure rolls the field patch back with everything else.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if err := validatePatch(req.Patch); err != nil {
		return nil, err
	}

	keep := make(map[int64]bool, len(req.KeepImageIDs))
	for _, id := range req.KeepImageIDs {
		keep[id] = true
	}

	var result *domain.Product
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByID(ctx, tx, productID.Int64())
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		// Ownership is checked before any mutation.
		if current.UserID != req.UserID {
			return domain.ErrForbidden
		}

		current.Name = strings.TrimSpace(req.Patch.Name)
		current.Description = req.Patch.Description
		current.Price = req.Patch.Price
		current.Discount = req.Patch.Discount
		current.Stock = req.Patch.Stock
		current.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, current); err != nil {
			return err
		}

		existing, err := s.repo.ListImages(ctx, tx, current.ID)
		if err != nil {
			return err
		}
		var toDelete []int64
		for _, image := range existing {
			if !keep[image.ID] {
				toDelete = append(toDelete, image.ID)
			}
		}
		if err := s.repo.DeleteImages(ctx, tx, toDelete); err != nil {
			return err
		}

		inserted, err := s.storeUploads(ctx, current.ID, req.Uploads)
		if err != nil {
			return err
		}
		if err := s.repo.InsertImages(ctx, tx, inserted); err != nil {
			return err
		}

		result, err = s.repo.FindByID(ctx, tx, current.ID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.checkLowStock(ctx, result.ID, result.Stock)
	resp := s.toResponse(result)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, s.toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByID(ctx, tx, productID.Int64())
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		return s.repo.Delete(ctx, tx, current.ID)
	})
}

func (s *Service) storeUploads(ctx context.Context, productID int64, items []domain.Upload) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(items))
	for _, item := range items {
		if len(item.Data) == 0 {
			continue
		}
		url, err := s.blobs.Put(ctx, item.Filename, item.Data)
		if err != nil {
			return nil, fmt.Errorf("store image %s: %w", item.Filename, err)
		}
		images = append(images, domain.Image{
			ID:        s.genID.Generate().Int64(),
			URL:       url,
			ProductID: productID,
		})
	}
	return images, nil
}

// checkLowStock runs after the transaction commits; a failure here must not
// surface as an update failure.
func (s *Service) checkLowStock(ctx context.Context, productID int64, stock int) {
	if err := s.alerts.EnsureLowStock(ctx, productID, stock); err != nil {
		s.log.Warn("low stock check failed",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
	}
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	images := make([]domain.ImageResponse, 0, len(p.Images))
	for _, image := range p.Images {
		images = append(images, domain.ImageResponse{
			ID:  snowflake.ID(image.ID).String(),
			URL: image.URL,
		})
	}

	return domain.Response{
		ID:          snowflake.ID(p.ID).String(),
		Name:        p.Name,
		Slug:        slug.Make(p.Name),
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Stock:       p.Stock,
		UserID:      snowflake.ID(p.UserID).String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Images:      images,
	}
}

func validatePatch(patch domain.Patch) error {
	if strings.TrimSpace(patch.Name) == "" {
		return domain.ErrInvalidName
	}
	if patch.Price < 0 {
		return domain.ErrInvalidPrice
	}
	if patch.Discount < 0 {
		return domain.ErrInvalidDiscount
	}
	if patch.Stock < 0 {
		return domain.ErrInvalidStock
	}
	return nil
}
