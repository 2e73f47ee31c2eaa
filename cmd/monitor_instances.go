package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var monitorInstancesCmd = &cobra.Command{
	Use:   "monitor-instances",
	Short: "Run a single Instance reconciliation sweep against the Bridge and exit",
	Run: func(_ *cobra.Command, _ []string) {
		if err := reconciler.Sweep(context.Background()); err != nil {
			logrus.WithError(err).Fatal("reconciliation sweep failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorInstancesCmd)
}
