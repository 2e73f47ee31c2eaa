package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/sessionmgr"
)

var (
	reconcileInterval       time.Duration
	reconcileSleepPerInstance time.Duration
	reconcileStartIfMissing bool
	reconcileOnlyStaleSeconds int
	reconcileMax            int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the Instance reconciler continuously on a cron cadence",
	Run: func(_ *cobra.Command, _ []string) {
		params := sessionmgr.ReconcilerParams{
			CycleInterval:    reconcileInterval,
			PerInstancePause: reconcileSleepPerInstance,
			StartIfMissing:   reconcileStartIfMissing,
			StaleThreshold:   time.Duration(reconcileOnlyStaleSeconds) * time.Second,
			MaxPerCycle:      reconcileMax,
		}
		r := sessionmgr.NewReconciler(sessionMgr, instanceRepo, params)
		if err := r.Run(context.Background()); err != nil {
			logrus.WithError(err).Fatal("reconciler stopped")
		}
	},
}

func init() {
	reconcileCmd.Flags().DurationVar(&reconcileInterval, "interval", config.ReconcileCycleInterval,
		"cron cadence between reconciliation sweeps, e.g. 30s")
	reconcileCmd.Flags().DurationVar(&reconcileSleepPerInstance, "sleep-per-instance", config.ReconcilePerInstancePause,
		"pause between per-instance checks within one sweep")
	reconcileCmd.Flags().BoolVar(&reconcileStartIfMissing, "start-if-missing", config.ReconcileStartIfMissing,
		"auto-restart sessions the Bridge reports as missing")
	reconcileCmd.Flags().IntVar(&reconcileOnlyStaleSeconds, "only-stale-seconds", int(config.ReconcileStaleThreshold.Seconds()),
		"skip instances whose last-seen timestamp is fresher than this many seconds")
	reconcileCmd.Flags().IntVar(&reconcileMax, "max", config.ReconcileMaxPerCycle,
		"maximum instances reconciled per sweep")

	rootCmd.AddCommand(reconcileCmd)
}
