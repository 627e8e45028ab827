package app

import (
	"github.com/spf13/cobra"

	"github.com/bizdesk/bizdesk/internal/backup"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/daemon"
	"github.com/bizdesk/bizdesk/internal/logger"
)

func init() { //nolint: gochecknoinits
	backupCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	backupCmd.Flags().StringVar(&backupTenant, "tenant", "", "Tenant slug to back up (defaults to the default tenant)")
	backupCmd.Flags().StringVar(&backupDir, "dir", "", "Directory to write the backup file to")

	restoreCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup file to restore from")
	_ = restoreCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

var (
	backupTenant string
	backupDir    string
	restoreFile  string

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Dump all tenant-scoped tables to a timestamped JSON file",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			tenant := backupTenant
			if tenant == "" {
				tenant = cfg.Tenant.Default
			}

			dir := backupDir
			if dir == "" {
				dir = cfg.Backup.Dir
			}

			_, err = backup.Export(db, tenant, dir)

			return err
		},
	}

	restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Upsert rows by id from a backup JSON file",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			return backup.Restore(db, restoreFile)
		},
	}
)
