package domain

import "context"

// Setting represents a dynamic configuration value stored in the database.
type Setting struct {
	Key   string
	Value string
}

// ISettingsRepository defines the contract for persisting dynamic settings.
type ISettingsRepository interface {
	// Basic CRUD
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error

	// InitSchema creates the necessary tables
	InitSchema(ctx context.Context) error
}

// Common Keys defined in the system: operator-tunable override values
// for Chatbot Engine, Reconciler and Dispatch knobs whose defaults live
// in config.
const (
	KeyChatbotDefaultTemperature = "chatbot_default_temperature"
	KeyChatbotMaxOutputTokens   = "chatbot_max_output_tokens"
	KeyChatbotReadDelayMinMs    = "chatbot_read_delay_min_ms"
	KeyChatbotReadDelayMaxMs    = "chatbot_read_delay_max_ms"
	KeyChatbotInterMsgDelayMinMs = "chatbot_inter_msg_delay_min_ms"
	KeyChatbotInterMsgDelayMaxMs = "chatbot_inter_msg_delay_max_ms"
	KeyReconcileCycleInterval   = "reconcile_cycle_interval"
	KeyReconcileStartIfMissing  = "reconcile_start_if_missing"
	KeyDispatchMaxItemsPerTick  = "dispatch_max_items_per_tick"
)
