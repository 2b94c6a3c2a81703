package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routesync/internal/config"
)

func initCmd() *cobra.Command {
	var (
		yamlFormat bool
		tomlFormat bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter route file",
		Long: `Create a starter route file with a single root route.

Examples:
  routesync init
  routesync init --yaml ./web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.ConfigFileName
			switch {
			case yamlFormat:
				name = config.YAMLFileName
			case tomlFormat:
				name = config.TOMLFileName
			}
			return runInit(filepath.Join(dir, name), force)
		},
	}

	cmd.Flags().BoolVar(&yamlFormat, "yaml", false, "Write routesync.yaml instead of routesync.json")
	cmd.Flags().BoolVar(&tomlFormat, "toml", false, "Write routesync.toml instead of routesync.json")
	cmd.MarkFlagsMutuallyExclusive("yaml", "toml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing route file")

	return cmd
}

func runInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("Created %s", path)
	return nil
}
