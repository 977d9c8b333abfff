package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopcraft/storefront/internal/alert/domain"
	"github.com/shopcraft/storefront/internal/clock"
	obsmetrics "github.com/shopcraft/storefront/internal/observability/metrics"
	"github.com/shopcraft/storefront/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alert.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) EnsureLowStock(ctx context.Context, productID int64, stock int) error {
	if stock >= domain.LowStockThreshold {
		return nil
	}

	metrics := obsmetrics.Monitor()
	suppressed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindUnreadLowStock(ctx, tx, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			suppressed = true
			return nil
		}

		row, err := s.repo.FindStockRow(ctx, tx, productID)
		if err != nil {
			return err
		}
		if row == nil {
			// Product vanished between the sweep fetch and evaluation.
			return nil
		}

		return s.repo.Insert(ctx, tx, &domain.Notification{
			ID:        s.genID.Generate().Int64(),
			ProductID: productID,
			Message:   domain.LowStockMessage(row.Name, stock),
			Read:      false,
			CreatedAt: s.clock.Now(),
		})
	})
	if err != nil {
		// A concurrent evaluator won the insert; the partial unique index on
		// unread notifications turns the race into a suppression.
		if db.IsDuplicateKeyErr(err) {
			metrics.IncAlertSuppressed(obsmetrics.SuppressReasonConstraint)
			s.log.Debug("low stock notification already created concurrently",
				zap.Int64("product_id", productID),
			)
			return nil
		}
		return err
	}

	if suppressed {
		metrics.IncAlertSuppressed(obsmetrics.SuppressReasonExisting)
		return nil
	}

	metrics.IncAlertCreated()
	s.log.Info("low stock notification created",
		zap.Int64("product_id", productID),
		zap.Int("stock", stock),
	)
	return nil
}

func (s *Service) SweepAll(ctx context.Context) error {
	rows, err := s.repo.ListBelowThreshold(ctx, s.db, domain.LowStockThreshold)
	if err != nil {
		return err
	}

	metrics := obsmetrics.Monitor()
	for _, row := range rows {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.EnsureLowStock(ctx, row.ID, row.Stock); err != nil {
			metrics.IncSweepError()
			s.log.Warn("low stock evaluation failed",
				zap.Int64("product_id", row.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) ListUnread(ctx context.Context) ([]domain.UnreadNotification, error) {
	rows, err := s.repo.ListUnread(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.UnreadNotification, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, domain.UnreadNotification{
			ID:           snowflake.ID(row.ID).String(),
			ProductID:    snowflake.ID(row.ProductID).String(),
			Message:      row.Message,
			ProductName:  row.ProductName,
			ProductStock: row.ProductStock,
			CreatedAt:    row.CreatedAt,
		})
	}
	return resp, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	notificationID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	updated, err := s.repo.MarkRead(ctx, s.db, notificationID.Int64())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrNotFound
	}

	return s.repo.FindByID(ctx, s.db, notificationID.Int64())
}
