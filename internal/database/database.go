package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"merchpilot/internal/models"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// SQLite has no gen_random_uuid, let gorm build the schema
		if err := db.AutoMigrate(
			&models.Shop{},
			&models.ShopConfig{},
			&models.Product{},
			&models.PerformanceSnapshot{},
			&models.SeasonalEvent{},
			&models.AIAction{},
			&models.AIFeedback{},
			&models.AutopilotRun{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate tables: %w", err)
		}
		return &Database{DB: db}, nil
	}

	// PostgreSQL for production
	db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS shops (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		domain TEXT UNIQUE NOT NULL,
		name TEXT,
		email TEXT,
		currency TEXT DEFAULT 'USD',
		access_token TEXT NOT NULL,
		scope TEXT,
		status TEXT DEFAULT 'ACTIVE',
		last_sync TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS shop_configs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID UNIQUE NOT NULL,
		mode VARCHAR(20) DEFAULT 'manual',
		risk_level VARCHAR(20) DEFAULT 'normal',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID NOT NULL,
		external_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		vendor TEXT,
		price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		inventory_qty INTEGER DEFAULT 0,
		status TEXT DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS performance_snapshots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID NOT NULL,
		product_id UUID NOT NULL,
		conversion_rate DECIMAL(6,4) DEFAULT 0,
		profit_margin DECIMAL(6,4) DEFAULT 0,
		sales_count_30d INTEGER DEFAULT 0,
		revenue_30d DECIMAL(12,2) DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS seasonal_events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		display_name TEXT,
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		active BOOLEAN DEFAULT false,
		keywords JSONB,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS ai_actions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID NOT NULL,
		product_id UUID NOT NULL,
		kind VARCHAR(50) NOT NULL,
		detail JSONB,
		reason TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'suggested',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS ai_feedbacks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID NOT NULL,
		product_id UUID NOT NULL,
		action_id UUID NOT NULL,
		action_kind VARCHAR(50) NOT NULL,
		approved BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS autopilot_runs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		shop_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL,
		analyzed INTEGER DEFAULT 0,
		price_suggestions INTEGER DEFAULT 0,
		applied INTEGER DEFAULT 0,
		skipped_by_feedback INTEGER DEFAULT 0,
		marketing_suggestions INTEGER DEFAULT 0,
		error TEXT,
		started_at TIMESTAMPTZ,
		finished_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
