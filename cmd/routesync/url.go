package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func urlCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "url <signal> [key=value...]",
		Short: "Print the URL of the route bound to a signal",
		Long: `Render the URL of the route bound to a signal for a payload.

Values use the URL codec: ":42" is a number, ":true" a boolean and
anything else a string.

Examples:
  routesync url home
  routesync url item id=:42 tab=info`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePairs(args[1:])
			if err != nil {
				return err
			}

			app, err := loadApp(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}

			u, err := app.SignalURL(args[0], payload)
			if err != nil {
				return err
			}
			fmt.Println(u)
			return nil
		},
	}
}
