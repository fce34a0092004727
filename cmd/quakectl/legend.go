package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/spf13/cobra"
)

var labelStyle = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)

// swatch renders a block filled with the legend color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

func newLegendCmd() *cobra.Command {
	var flags scaleFlags
	var plain bool
	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the magnitude legend with color swatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := flags.scale()
			if err != nil {
				return err
			}
			entries := domain.BuildLegend(domain.LegendCategories(scale, domain.DefaultCategories), scale)
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if plain {
					_, _ = fmt.Fprintf(out, "%s\t%s\n", e.Label, e.Color)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s %s %s\n", swatch(e.Color), labelStyle.Render(e.Label), e.Color)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "Print label and color without swatches")
	return cmd
}
