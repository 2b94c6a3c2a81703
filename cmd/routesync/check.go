package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/routesync"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a route file",
		Long: `Compile the route file and index its signals.

Reports routes that are not a list, props mappings without a signal,
signals bound twice and malformed map references.

Examples:
  routesync check
  routesync check -c routes/routesync.yaml
  routesync check -c s3://my-bucket/app/routesync.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			printCheck(app)
			return nil
		},
	}
}

func printCheck(app *routesync.App) {
	routes := app.Routes()
	success("%d routes, %d bound signals", len(routes), len(app.BoundSignals()))
	for _, path := range routes {
		info("%s", path)
	}
}
