package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	AppVersion = "v1.0.0"
	AppPort    = "3000"
	AppDebug   = false
	AppBaseUrl = "http://localhost:3000"

	PathStatics = "statics"
	PathMedia   = "statics/media"
	PathStorages = "storages"

	DBURI = "file:storages/core.db?_foreign_keys=on"

	// Bridge connection settings (core/bridge.Client).
	BridgeBaseURL  = "http://localhost:3001"
	BridgeAdminKey string

	// Webhook Ingress admin secret: the exact header-match credential
	// the Bridge must present on POST /webhook/node/.
	WebhookAdminSecret string

	// AdminAPIKey authenticates the tenant-admin management routes
	// (Instance/ChatbotConfig/Campaign CRUD) via x-api-key, the same
	// header shape the Bridge client itself uses in admin mode.
	AdminAPIKey string

	// Reconciler defaults, overridable per-invocation by
	// the `reconcile` CLI flags.
	ReconcileCycleInterval    = 30 * time.Second
	ReconcilePerInstancePause = 250 * time.Millisecond
	ReconcileStartIfMissing   = false
	ReconcileStaleThreshold   = 10 * time.Minute
	ReconcileMaxPerCycle      = 100

	// Chatbot Engine defaults.
	ChatbotReadReceiptDelayMinMs = 250
	ChatbotReadReceiptDelayMaxMs = 1100
	ChatbotInterMessageDelayMinMs = 450
	ChatbotInterMessageDelayMaxMs = 1600
	ChatbotMediaPauseMinMs        = 200
	ChatbotMediaPauseMaxMs        = 800
	ChatbotComposingTickInterval  = 1200 * time.Millisecond
	ChatbotMaxOutboundMessages    = 4
	ChatbotMaxMessageChars        = 750
	ChatbotMaxInboundChars        = 4000
	ChatbotDefaultTemperature     = 0.35
	ChatbotMaxOutputTokens        = 420

	// Dispatch Queue defaults.
	DispatchMaxItemsPerTick = 20
	DispatchTickSleep       = 2 * time.Second

	// Message Worker Pool settings, reused for chatbot per-pair
	// serialization (pkg/msgworker).
	MessageWorkerPoolSize  = 20
	MessageWorkerQueueSize = 1000

	// HTTPBodyLimitBytes bounds the REST server's request body
	// (send-media/send-voice multipart uploads).
	HTTPBodyLimitBytes int64 = 50 * 1024 * 1024

	AppSecretKey = "changeme_please_change_me_in_prod_12345"
)

func init() {
	if v := strings.TrimSpace(os.Getenv("APP_PORT")); v != "" {
		AppPort = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_BASE_URL")); v != "" {
		AppBaseUrl = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_URI")); v != "" {
		DBURI = v
	}
	if v := strings.TrimSpace(os.Getenv("BRIDGE_BASE_URL")); v != "" {
		BridgeBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BRIDGE_ADMIN_KEY")); v != "" {
		BridgeAdminKey = v
	}
	if v := strings.TrimSpace(os.Getenv("WEBHOOK_ADMIN_SECRET")); v != "" {
		WebhookAdminSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_API_KEY")); v != "" {
		AdminAPIKey = v
	}

	if v := strings.TrimSpace(os.Getenv("MESSAGE_WORKER_POOL_SIZE")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			MessageWorkerPoolSize = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGE_WORKER_QUEUE_SIZE")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			MessageWorkerQueueSize = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("APP_SECRET_KEY")); v != "" {
		AppSecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("RECONCILE_CYCLE_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ReconcileCycleInterval = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DISPATCH_MAX_ITEMS_PER_TICK")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			DispatchMaxItemsPerTick = parsed
		}
	}
}

var (
	appDB     *sql.DB
	appDBErr  error
	appDBOnce sync.Once
)

// GetAppDB opens a lightweight database/sql settings-store handle
// (SettingsService itself works on a gorm handle), following the same DSN-scheme dialect
// switch as store.Open: a postgres DBURI gets its own database/sql
// connection via lib/pq, anything else falls back to a dedicated
// sqlite file alongside the main database.
func GetAppDB() (*sql.DB, error) {
	appDBOnce.Do(func() {
		driver, connStr := "sqlite3", fmt.Sprintf("file:%s/settings.db?_journal_mode=WAL&_foreign_keys=on", PathStorages)
		if strings.HasPrefix(DBURI, "postgres://") || strings.HasPrefix(DBURI, "postgresql://") {
			driver, connStr = "postgres", DBURI
		}

		db, err := sql.Open(driver, connStr)
		if err != nil {
			appDBErr = err
			return
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(time.Hour)
		appDB = db
	})
	return appDB, appDBErr
}

func GetAllSettings() map[string]any {
	return map[string]any{
		"bridge_base_url":             BridgeBaseURL,
		"reconcile_cycle_interval":    ReconcileCycleInterval.String(),
		"reconcile_start_if_missing":  ReconcileStartIfMissing,
		"dispatch_max_items_per_tick": DispatchMaxItemsPerTick,
		"message_worker_pool_size":    MessageWorkerPoolSize,
	}
}
