// Package cmd wires every domain, store repository, and transport
// adapter into the long-running processes described by the CLI
// surface, following az-wap's cmd/root.go init()/initEnvConfig()/
// initApp() shape: package-level state built once in initApp, cobra
// subcommands added via init() in sibling files.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/fillow/wap-core/chatbot"
	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/core/bridge"
	"github.com/fillow/wap-core/dispatch"
	domainCampaign "github.com/fillow/wap-core/domains/campaign"
	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
	domainChatbotContact "github.com/fillow/wap-core/domains/chatbotcontact"
	domainErrorLog "github.com/fillow/wap-core/domains/errorlog"
	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainMessage "github.com/fillow/wap-core/domains/message"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
	domainWebhook "github.com/fillow/wap-core/domains/webhook"
	"github.com/fillow/wap-core/ingress"
	"github.com/fillow/wap-core/sessionmgr"
	"github.com/fillow/wap-core/store"
	"github.com/fillow/wap-core/usecase"
)

var (
	db *gorm.DB

	// Repositories
	tenantRepo    domainTenant.Repository
	instanceRepo  domainInstance.Repository
	webhookRepo   domainWebhook.Repository
	messageRepo   domainMessage.Repository
	chatbotCfgRepo domainChatbotConfig.Repository
	chatbotCtcRepo domainChatbotContact.Repository
	campaignRepo  domainCampaign.Repository
	recipientRepo domainCampaign.RecipientRepository
	queueItemRepo domainCampaign.QueueItemRepository
	dispatchStateRepo domainCampaign.DispatchStateRepository
	errorLogRepo  domainErrorLog.Repository

	// Infra / core
	bridgeClient *bridge.Client
	sessionMgr   *sessionmgr.Manager
	reconciler   *sessionmgr.Reconciler

	// Engines
	chatbotEngine *chatbot.Engine
	planner       *dispatch.Planner
	worker        *dispatch.Worker

	// Usecases
	identitySvc      *usecase.IdentityService
	instanceSvc      *usecase.InstanceService
	messageSvc       *usecase.MessageService
	chatbotConfigSvc *usecase.ChatbotConfigService
	campaignSvc      *usecase.CampaignService
)

// rootCmd is the base command; every subcommand shares the package
// state built by initApp.
var rootCmd = &cobra.Command{
	Use:   "wap-core",
	Short: "Multi-tenant WhatsApp automation platform control plane",
	Long:  `wap-core drives the Instance Session Manager, Webhook Ingress Pipeline, AI Chatbot Engine, and Dispatch Queue against an external WhatsApp Bridge.`,
}

func init() {
	// Best-effort .env load: absent in production, convenient in dev.
	_ = godotenv.Load()

	time.Local = time.UTC
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()
	cobra.OnInitialize(initEnvConfig, initApp)
}

// initEnvConfig binds environment variables through viper, layered on
// top of config's own os.Getenv-based defaults so either mechanism can
// supply a value: viper wins when set, the config package default
// otherwise.
func initEnvConfig() {
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("app_base_url", "APP_BASE_URL")
	viper.BindEnv("db_uri", "DB_URI")
	viper.BindEnv("bridge_base_url", "BRIDGE_BASE_URL")
	viper.BindEnv("bridge_admin_key", "BRIDGE_ADMIN_KEY")
	viper.BindEnv("webhook_admin_secret", "WEBHOOK_ADMIN_SECRET")
	viper.BindEnv("admin_api_key", "ADMIN_API_KEY")
	viper.BindEnv("app_secret_key", "APP_SECRET_KEY")

	if v := viper.GetString("app_port"); v != "" {
		config.AppPort = v
	}
	if v := viper.GetString("app_base_url"); v != "" {
		config.AppBaseUrl = v
	}
	if v := viper.GetString("db_uri"); v != "" {
		config.DBURI = v
	}
	if v := viper.GetString("bridge_base_url"); v != "" {
		config.BridgeBaseURL = v
	}
	if v := viper.GetString("bridge_admin_key"); v != "" {
		config.BridgeAdminKey = v
	}
	if v := viper.GetString("webhook_admin_secret"); v != "" {
		config.WebhookAdminSecret = v
	}
	if v := viper.GetString("admin_api_key"); v != "" {
		config.AdminAPIKey = v
	}
	if v := viper.GetString("app_secret_key"); v != "" {
		config.AppSecretKey = v
	}
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(&config.AppPort, "port", "p", config.AppPort,
		"HTTP port for the rest command --port <number>")
	rootCmd.PersistentFlags().StringVarP(&config.DBURI, "db-uri", "", config.DBURI,
		`database DSN, sqlite path or postgres:// URI --db-uri <string>`)
	rootCmd.PersistentFlags().StringVarP(&config.BridgeBaseURL, "bridge-base-url", "", config.BridgeBaseURL,
		"base URL of the WhatsApp Bridge --bridge-base-url <string>")
}

// initApp builds every repository, service, and engine exactly once,
// shared by whichever subcommand actually runs.
func initApp() {
	if err := os.MkdirAll(config.PathStorages, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create storages directory")
	}

	var err error
	db, err = store.Open()
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	if err := store.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	tenantRepo = store.NewTenantGormRepository(db)
	instanceRepo = store.NewInstanceGormRepository(db)
	webhookRepo = store.NewWebhookGormRepository(db)
	messageRepo = store.NewMessageGormRepository(db)
	chatbotCfgRepo = store.NewChatbotConfigGormRepository(db)
	chatbotCtcRepo = store.NewChatbotContactGormRepository(db)
	campaignRepo = store.NewCampaignGormRepository(db)
	recipientRepo = store.NewRecipientGormRepository(db)
	queueItemRepo = store.NewQueueItemGormRepository(db)
	dispatchStateRepo = store.NewDispatchStateGormRepository(db)
	errorLogRepo = store.NewErrorLogGormRepository(db)
	planRepo := store.NewPlanGormRepository(db)

	bridgeClient = bridge.New(config.BridgeBaseURL, config.BridgeAdminKey)

	sessionMgr = sessionmgr.New(instanceRepo, bridgeClient)
	reconciler = sessionmgr.NewReconciler(sessionMgr, instanceRepo, sessionmgr.ReconcilerParams{
		CycleInterval:    config.ReconcileCycleInterval,
		PerInstancePause: config.ReconcilePerInstancePause,
		StartIfMissing:   config.ReconcileStartIfMissing,
		StaleThreshold:   config.ReconcileStaleThreshold,
		MaxPerCycle:      config.ReconcileMaxPerCycle,
	})

	chatbotEngine = chatbot.NewEngine(chatbotCfgRepo, chatbotCtcRepo, messageRepo, tenantRepo, bridgeClient, sessionMgr)

	planner = dispatch.NewPlanner(campaignRepo, recipientRepo, queueItemRepo, groupMembersFromBridge(bridgeClient))
	worker = dispatch.NewWorker(campaignRepo, recipientRepo, queueItemRepo, dispatchStateRepo, instanceRepo, bridgeClient, sessionMgr, dispatch.WorkerParams{
		MaxItemsPerTick: config.DispatchMaxItemsPerTick,
		TickSleep:       config.DispatchTickSleep,
	})

	identitySvc = usecase.NewIdentityService(tenantRepo, planRepo)
	instanceSvc = usecase.NewInstanceService(instanceRepo, tenantRepo, webhookRepo, bridgeClient, identitySvc)
	messageSvc = usecase.NewMessageService(bridgeClient, messageRepo)
	chatbotConfigSvc = usecase.NewChatbotConfigService(chatbotCfgRepo, tenantRepo, identitySvc)
	campaignSvc = usecase.NewCampaignService(campaignRepo, planner)
}

// newPipeline builds the Webhook Ingress Pipeline, shared by the rest
// and listener commands (the two processes that receive Bridge
// events).
func newPipeline() *ingress.Pipeline {
	return ingress.NewPipeline(instanceRepo, tenantRepo, webhookRepo, messageRepo, queueItemRepo, sessionMgr, chatbotEngine, errorLogRepo)
}

// groupMembersFromBridge adapts the Bridge's participant-listing call
// to dispatch.Planner's groupMembers contract, tolerating either a
// bare array or a {"participants": [...]} envelope in the response.
func groupMembersFromBridge(client *bridge.Client) func(ctx context.Context, instanceID, sessionID, token, groupJID string) ([]string, error) {
	return func(ctx context.Context, instanceID, sessionID, token, groupJID string) ([]string, error) {
		raw, err := client.GroupParticipants(ctx, sessionID, token, groupJID, "list", nil)
		if err != nil {
			return nil, err
		}
		return parseGroupParticipants(raw)
	}
}

// Execute runs the CLI, following az-wap's cmd.Execute shape (minus
// the embedded frontend, which this module does not ship).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
