// Package cmd holds the amcgen subcommands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the amcgen command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "amcgen",
		Short: "AMC filtration line test data generator",
		Long: `amcgen synthesizes sensor records of an AMC chemical filtration line without
running the API server.

The same seed and settings always produce the same records, so a file can be
regenerated instead of stored.`,
		SilenceUsage: true,
	}
	root.AddCommand(NewGenerateCmd())
	root.AddCommand(NewPresetsCmd())
	return root
}
