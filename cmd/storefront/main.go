package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopcraft/storefront/internal/alert"
	"github.com/shopcraft/storefront/internal/catalog"
	"github.com/shopcraft/storefront/internal/clock"
	"github.com/shopcraft/storefront/internal/config"
	"github.com/shopcraft/storefront/internal/logger"
	"github.com/shopcraft/storefront/internal/migration"
	"github.com/shopcraft/storefront/internal/monitor"
	"github.com/shopcraft/storefront/internal/observability"
	"github.com/shopcraft/storefront/internal/server"
	"github.com/shopcraft/storefront/internal/uploads"
	"github.com/shopcraft/storefront/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		uploads.Module,
		alert.Module,
		catalog.Module,
		monitor.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
