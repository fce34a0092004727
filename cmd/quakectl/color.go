package main

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
	"github.com/spf13/cobra"
)

type scaleFlags struct {
	scheme string
	max    float64
}

func (f *scaleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scheme, "scheme", string(domain.SchemeDiscrete), "Color scheme: discrete, discrete-strict, linear or gradient")
	cmd.Flags().Float64Var(&f.max, "max", domain.DefaultLinearMax, "Magnitude mapped to full red by the linear scheme")
}

func (f *scaleFlags) scale() (domain.ColorScale, error) {
	return domain.NewColorScale(domain.PresetConfig(domain.Scheme(f.scheme), f.max))
}

func newColorCmd() *cobra.Command {
	var flags scaleFlags
	cmd := &cobra.Command{
		Use:   "color <magnitude>...",
		Short: "Print the marker color for each magnitude",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := flags.scale()
			if err != nil {
				return err
			}
			for _, arg := range args {
				m, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("magnitude %q is not a number", arg)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", arg, scale.Color(m))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
