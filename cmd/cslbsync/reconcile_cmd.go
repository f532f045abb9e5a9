package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence"
	"github.com/norcalcba/cslbsync/modules/cslb/services"
	"github.com/norcalcba/cslbsync/pkg/composables"
	"github.com/norcalcba/cslbsync/pkg/configuration"
)

func newReconcileCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Fail PROCESSING batches orphaned by a crashed run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			threshold := olderThan
			if threshold == 0 {
				threshold = conf.Import.StaleAfter
			}

			ctx := cmd.Context()
			pool, err := connectDB(ctx, conf)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()
			ctx = composables.WithPool(ctx, pool)

			svc := services.NewImportService(
				persistence.NewContractorRepository(),
				persistence.NewImportBatchRepository(),
				conf.Logger(),
			)
			swept, err := svc.ReconcileStale(ctx, threshold)
			if err != nil {
				return withCode(exitDB, err)
			}
			return writeJSONLine(map[string]any{
				"status":     "reconciled",
				"older_than": threshold.String(),
				"swept":      swept,
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0,
		"Age threshold for stale PROCESSING batches (default from IMPORT_STALE_AFTER)")
	return cmd
}
