package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norcalcba/cslbsync/migrations"
	"github.com/norcalcba/cslbsync/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply database migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			conf := configuration.Use()
			switch direction {
			case "up":
				if err := migrations.Up(conf.Database.Opts); err != nil {
					return withCode(exitDB, err)
				}
			case "down":
				if err := migrations.Down(conf.Database.Opts); err != nil {
					return withCode(exitDB, err)
				}
			default:
				return withCode(exitUsage, fmt.Errorf("unknown direction: %s", direction))
			}
			return writeJSONLine(map[string]string{"status": "migrated", "direction": direction})
		},
	}
	return cmd
}
