package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "nivizrater",
		Short:        "Database resolver and tooling for the QC rater",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "rater.yaml", "Path to the rater configuration file")
	root.PersistentFlags().StringArrayVar(&pragmaFlags, "pragma", nil, "Extra SQLite pragma as name=value (repeatable)")
	root.AddCommand(initCmd())
	root.AddCommand(provisionCmd())
	root.AddCommand(sqlCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
