package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "match <url>",
		Short: "Resolve a URL against the route table",
		Long: `Resolve a URL against the route table without routing it and print
the matched route, its signal and the decoded values as JSON.

Examples:
  routesync match /items/:42?tab=info
  routesync match 'http://localhost:3000/app/#/items/abc'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}

			m, err := app.Match(args[0])
			if err != nil {
				return err
			}
			if m == nil {
				warn("No route matched %s", args[0])
				return fmt.Errorf("no route matched")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}
}
