package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"amc_simulator/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type presetEntry struct {
	Mode       models.PresetMode       `json:"mode" yaml:"mode"`
	Parameters models.SystemParameters `json:"parameters" yaml:"parameters"`
}

// NewPresetsCmd builds `amcgen presets`.
func NewPresetsCmd() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "presets",
		Short: "Print the system parameter presets",
		Long: `Prints every preset bundle applied to the default parameters. Presets only
affect analysis scores; record classification uses fixed limits.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			modes := models.PresetModes()
			entries := make([]presetEntry, 0, len(modes))
			for _, m := range modes {
				p, _ := models.ApplyPreset(models.DefaultParameters, m)
				entries = append(entries, presetEntry{Mode: m, Parameters: p})
			}

			switch strings.ToLower(output) {
			case "yaml", "yml":
				enc := yaml.NewEncoder(c.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(entries); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(c.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			default:
				return fmt.Errorf("unsupported output %q: use yaml or json", output)
			}
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "yaml", "Output encoding: yaml or json")
	return c
}
