package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/pkg/msgworker"
	"github.com/fillow/wap-core/ui/rest"
	"github.com/fillow/wap-core/ui/rest/middleware"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the Northbound/Westbound HTTP API and Bridge webhook ingress",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	app := fiber.New(fiber.Config{
		BodyLimit: int(config.HTTPBodyLimitBytes),
	})
	logrus.Infof("request body limit: %s", humanize.Bytes(uint64(config.HTTPBodyLimitBytes)))

	app.Use(middleware.Recovery())
	if config.AppDebug {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-api-key",
	}))

	// Bridge -> core inbound events, authenticated by its own x-api-key
	// check inside InitRestWebhook.
	rest.InitRestWebhook(app, newPipeline())

	// Tenant-admin management surface.
	admin := app.Group("/", middleware.AdminAuth())
	rest.InitRestInstance(admin, instanceSvc)
	rest.InitRestChatbotConfig(admin, chatbotConfigSvc)
	rest.InitRestCampaign(admin, campaignSvc)

	// Northbound tenant-facing surface, per-instance bearer token.
	northbound := app.Group("/", middleware.InstanceAuth(instanceRepo, tenantRepo))
	rest.InitRestMessage(northbound, messageSvc)
	rest.InitRestChat(northbound, bridgeClient)
	rest.InitRestGroups(northbound, bridgeClient)
	rest.InitRestProfile(northbound, bridgeClient)

	app.Get("/api/worker-pool/stats", func(c *fiber.Ctx) error {
		return c.JSON(msgworker.GetGlobalStats())
	})
	app.Get("/api/bot-monitor/stats", rest.GetBotMonitorStats)

	go func() {
		if err := reconciler.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("reconciler stopped")
		}
	}()
	go func() {
		if err := worker.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("dispatch worker stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("received termination signal, shutting down gracefully")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + config.AppPort); err != nil {
		logrus.WithError(err).Fatal("failed to start HTTP server")
	}
}
