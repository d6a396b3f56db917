// Package commands implements the importcsv command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the importcsv command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "importcsv",
		Short: "Import income and expense transactions from CSV or XLSX files",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCommand())
	return rootCmd
}
