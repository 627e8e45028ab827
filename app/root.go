// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bizdesk",
	Short: "BizDesk is a multi-tenant business-management backend",
	Long: `BizDesk is a multi-tenant business-management backend for small and
medium companies that provides inventory, sales, finance, HR, warranty,
media-task tracking and internal chat behind a single JSON API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
