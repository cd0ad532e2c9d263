package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avaneev/areafitter/internal/engine"
	"github.com/avaneev/areafitter/internal/model"
)

func newCompareCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	opts := fitOpts{
		maxWidth:  defaults.MaxImageWidth,
		maxHeight: defaults.MaxImageHeight,
		maxSize:   defaults.MaxImageSize,
		minImages: defaults.MinImageCount,
		calls:     defaults.FitCallsLimit,
	}

	cmd := &cobra.Command{
		Use:   "compare <input>",
		Short: "Compare fit outcomes under alternative settings",
		Long: `Compare runs the fitter several times with varied budgets and sizing
constraints and prints the outcomes side by side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxWidth, "max-width", opts.maxWidth, "maximum output image width")
	cmd.Flags().IntVar(&opts.maxHeight, "max-height", opts.maxHeight, "maximum output image height")
	cmd.Flags().IntVar(&opts.maxSize, "max-size", opts.maxSize, "maximum output image size in pixels (0 = unlimited)")
	cmd.Flags().IntVar(&opts.minImages, "min-images", opts.minImages, "number of output images to start with")
	cmd.Flags().IntVar(&opts.calls, "calls", opts.calls, "fit call budget")

	return cmd
}

func runCompare(cmd *cobra.Command, input string, opts *fitOpts) error {
	areas, settings, _, err := loadInput(cmd, input)
	if err != nil {
		return err
	}
	opts.applyTo(cmd, &settings)

	scenarios := engine.BuildDefaultScenarios(settings)
	results := engine.CompareScenarios(scenarios, areas)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tOK\tIMAGES\tTOTAL SIZE\tQUALITY")
	for _, r := range results {
		if !r.OK {
			fmt.Fprintf(w, "%s\tno\t-\t-\t-\n", r.Scenario.Name)
			continue
		}
		fmt.Fprintf(w, "%s\tyes\t%d\t%d\t%.1f%%\n",
			r.Scenario.Name, r.ImagesUsed, r.TotalSize, r.Quality)
	}
	return w.Flush()
}
