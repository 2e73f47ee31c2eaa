package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/dispatch"
)

var (
	dispatcherOnce     bool
	dispatcherMaxItems int
	dispatcherSleep    time.Duration
)

var dispatcherCmd = &cobra.Command{
	Use:   "dispatcher",
	Short: "Run the Dispatch Queue worker loop that claims and sends due campaign messages",
	Run: func(_ *cobra.Command, _ []string) {
		w := dispatch.NewWorker(campaignRepo, recipientRepo, queueItemRepo, dispatchStateRepo, instanceRepo, bridgeClient, sessionMgr, dispatch.WorkerParams{
			MaxItemsPerTick: dispatcherMaxItems,
			TickSleep:       dispatcherSleep,
		})

		ctx := context.Background()
		if dispatcherOnce {
			if err := w.Tick(ctx); err != nil {
				logrus.WithError(err).Fatal("dispatch tick failed")
			}
			return
		}

		if err := w.Run(ctx); err != nil {
			logrus.WithError(err).Fatal("dispatch worker stopped")
		}
	},
}

func init() {
	dispatcherCmd.Flags().BoolVar(&dispatcherOnce, "once", false,
		"claim and process a single batch of due queue items, then exit")
	dispatcherCmd.Flags().IntVar(&dispatcherMaxItems, "max-items", config.DispatchMaxItemsPerTick,
		"maximum queue items claimed per tick")
	dispatcherCmd.Flags().DurationVar(&dispatcherSleep, "sleep", config.DispatchTickSleep,
		"pause between ticks, e.g. 2s")

	rootCmd.AddCommand(dispatcherCmd)
}
