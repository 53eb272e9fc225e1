// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-estate-admin",
	Short: "GoEstate-Admin is a management tool for commercial real-estate portfolios",
	Long: `GoEstate-Admin is a management tool for commercial real-estate portfolios
that provides a multi-tenant REST API for managing customers, sites, buildings,
floors, assets, tenants, vendors, documents and users.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
