// Package store adapts every domain Repository interface to a gorm
// backing, following the shape of core/settings/infrastructure's
// key-value repository: one gorm model per aggregate, one repository
// struct wrapping *gorm.DB, context-scoped queries throughout.
package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fillow/wap-core/config"
)

// Open connects to config.DBURI, picking the driver from its scheme.
// A "file:" URI, a bare path or "sqlite://" prefix opens sqlite; anything
// else is handed to the postgres driver as a DSN.
func Open() (*gorm.DB, error) {
	uri := config.DBURI
	var dialector gorm.Dialector
	switch {
	case uri == "":
		dialector = sqlite.Open("storages/wap-core.db")
	case len(uri) >= 9 && uri[:9] == "sqlite://":
		dialector = sqlite.Open(uri[9:])
	case strings.HasPrefix(uri, "file:") || (!strings.Contains(uri, "://") && !strings.Contains(uri, "=")):
		dialector = sqlite.Open(uri)
	default:
		dialector = postgres.Open(uri)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table this module owns. Called once
// at startup by every cmd/ entrypoint that touches the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TenantModel{},
		&PlanModel{},
		&InstanceModel{},
		&WebhookConfigModel{},
		&MessageModel{},
		&ChatbotConfigModel{},
		&ChatbotContactModel{},
		&CampaignModel{},
		&RecipientModel{},
		&QueueItemModel{},
		&InstanceDispatchStateModel{},
		&ErrorLogEntryModel{},
	)
}
