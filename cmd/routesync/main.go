package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routesync/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	config  string
	region  string
	verbose bool
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routesync",
		Short: "Inspect and serve URL to state route tables",
		Long: `routesync binds a URL address bar to a state tree.

Route files (routesync.json or routesync.yaml, local or on S3) declare
routes, the signals they run and how URL values map to state and
signal payloads. This tool validates them, resolves URLs and signals
against them and serves a debug server that drives a browser address
bar over a websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Route file path or s3://bucket/key (default: search upwards for routesync.json)")
	rootCmd.PersistentFlags().StringVar(&flags.region, "region", "", "AWS region for s3:// route files (default $AWS_REGION)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		checkCmd(flags),
		matchCmd(flags),
		urlCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		var re *errors.RouteError
		if errors.As(err, &re) {
			fmt.Fprint(os.Stderr, re.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
