package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var dbFile string
	var datmanDB string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a rater configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInit(configPath, dbFile, datmanDB); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbFile, "db-file", "rater.db", "SQLite database location")
	cmd.Flags().StringVar(&datmanDB, "datman-db", "", "PostgreSQL database name; selects the datman backend")
	return cmd
}

func runInit(path, dbFile, datmanDB string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	var b strings.Builder
	if strings.TrimSpace(datmanDB) != "" {
		fmt.Fprintf(&b, "datman_config:\n  db_name: %q\n  user: DATMAN_DB_USER\n  password: DATMAN_DB_PASSWORD\n  server: DATMAN_DB_HOST\n\n", datmanDB)
	} else {
		fmt.Fprintf(&b, "niviz_rater.db.file: %q\n\n", dbFile)
	}
	b.WriteString("logging:\n  level: info\n  format: text\n  output: stderr\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
