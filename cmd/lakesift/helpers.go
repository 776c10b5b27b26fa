package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/engine"
	"github.com/lakesift/lakesift/internal/rules"
	"github.com/lakesift/lakesift/internal/service"
	"github.com/lakesift/lakesift/internal/storage"
	"github.com/lakesift/lakesift/internal/warehouse"
	"github.com/spf13/viper"
)

// warehouseConn bundles the two interfaces every configured warehouse
// implements, plus its cleanup.
type warehouseConn interface {
	service.Catalog
	service.Warehouse
	Close() error
}

// initWarehouse opens the configured warehouse connection.
func initWarehouse(ctx context.Context) (warehouseConn, error) {
	driver := viper.GetString("warehouse.driver")
	dsn := viper.GetString("warehouse.dsn")
	catalogName := viper.GetString("warehouse.catalog")

	switch driver {
	case "sqlite", "":
		wh, err := warehouse.NewSQLite(common.ExpandPath(dsn), catalogName)
		if err != nil {
			return nil, err
		}
		// Extra database files mount as additional databases.
		for name, path := range viper.GetStringMapString("warehouse.attach") {
			if err := wh.Attach(ctx, name, common.ExpandPath(path)); err != nil {
				_ = wh.Close()
				return nil, err
			}
		}
		return wh, nil
	case "postgres":
		return warehouse.NewPostgres(dsn)
	case "mysql":
		return warehouse.NewMySQL(dsn, catalogName)
	default:
		return nil, fmt.Errorf("%w: unknown warehouse driver %q", common.ErrInvalidConfig, driver)
	}
}

// initTagStore initializes the tag store with proper path expansion.
func initTagStore(ctx context.Context) (service.TagStore, error) {
	dbPath := viper.GetString("tagstore.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/lakesift/tags.db"
	}
	dbPath = common.ExpandPath(dbPath)

	store, err := storage.NewSQLiteTagStore(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engineConfig assembles the engine configuration from viper, loading
// custom rule definitions when a rules file is configured.
func engineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if viper.IsSet("classification.threshold") {
		cfg.Threshold = viper.GetFloat64("classification.threshold")
	}
	if viper.IsSet("classification.tag_prefix") {
		cfg.TagPrefix = viper.GetString("classification.tag_prefix")
	}
	if viper.IsSet("scan.sample_size") {
		cfg.SampleSize = viper.GetInt("scan.sample_size")
	}
	if viper.IsSet("scan.workers") {
		cfg.Workers = viper.GetInt("scan.workers")
	}
	if viper.IsSet("scan.table_timeout") {
		timeout, err := time.ParseDuration(viper.GetString("scan.table_timeout"))
		if err != nil {
			return cfg, fmt.Errorf("%w: scan.table_timeout: %v", common.ErrInvalidConfig, err)
		}
		cfg.TableTimeout = timeout
	}

	if rulesFile := viper.GetString("rules.file"); rulesFile != "" {
		custom, err := rules.LoadFile(common.ExpandPath(rulesFile))
		if err != nil {
			return cfg, fmt.Errorf("failed to load rules file: %w", err)
		}
		cfg.CustomRules = custom
	}

	return cfg, nil
}

// initEngine wires the warehouse, tag store, and configuration into a
// ready engine. The returned cleanup closes both connections.
func initEngine(ctx context.Context) (*engine.Engine, func(), error) {
	cfg, err := engineConfig()
	if err != nil {
		return nil, nil, err
	}

	wh, err := initWarehouse(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := initTagStore(ctx)
	if err != nil {
		_ = wh.Close()
		return nil, nil, err
	}

	eng, err := engine.NewWithConfig(cfg, wh, wh, store)
	if err != nil {
		_ = store.Close()
		_ = wh.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		_ = wh.Close()
	}
	return eng, cleanup, nil
}

// patternFromFlags builds the table pattern from the shared
// catalogs/databases/tables flags.
func patternFromFlags(catalogs, databases, tables string) catalog.Pattern {
	if catalogs == "" {
		catalogs = "*"
	}
	if databases == "" {
		databases = "*"
	}
	if tables == "" {
		tables = "*"
	}
	return catalog.Pattern{Catalogs: catalogs, Databases: databases, Tables: tables}
}
