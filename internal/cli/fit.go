package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avaneev/areafitter/internal/engine"
	"github.com/avaneev/areafitter/internal/export"
	"github.com/avaneev/areafitter/internal/importer"
	"github.com/avaneev/areafitter/internal/model"
	"github.com/avaneev/areafitter/internal/project"
)

// fitOpts holds the command-line flags for the fit command.
type fitOpts struct {
	maxWidth  int
	maxHeight int
	maxSize   int
	minImages int
	calls     int

	pdfPath    string
	xlsxPath   string
	dxfPath    string
	labelsPath string
	savePath   string
}

// applyTo overrides job settings with any flags the user set explicitly.
func (o *fitOpts) applyTo(cmd *cobra.Command, s *model.FitSettings) {
	if cmd.Flags().Changed("max-width") {
		s.MaxImageWidth = o.maxWidth
	}
	if cmd.Flags().Changed("max-height") {
		s.MaxImageHeight = o.maxHeight
	}
	if cmd.Flags().Changed("max-size") {
		s.MaxImageSize = o.maxSize
	}
	if cmd.Flags().Changed("min-images") {
		s.MinImageCount = o.minImages
	}
	if cmd.Flags().Changed("calls") {
		s.FitCallsLimit = o.calls
	}
}

// loadInput reads areas (and, for job files, settings and image hints) from
// the given path based on its extension.
func loadInput(cmd *cobra.Command, path string) ([]model.FitArea, model.FitSettings, []model.OutImage, error) {
	logger := loggerFromContext(cmd.Context())

	// Saved jobs carry their own settings; everything else starts from the
	// user's persisted defaults.
	settings := model.DefaultSettings()
	if cfg, err := project.LoadAppConfig(project.DefaultConfigPath()); err == nil {
		cfg.ApplyToSettings(&settings)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		job, err := project.LoadJob(path)
		if err != nil {
			return nil, settings, nil, err
		}
		return job.Areas, job.Settings, job.Images, nil
	}

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return nil, settings, nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if len(result.Errors) > 0 {
		return nil, settings, nil, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
	}
	logger.Debugf("Imported %d areas from %s", len(result.Areas), path)
	return result.Areas, settings, nil, nil
}

func newFitCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	opts := fitOpts{
		maxWidth:  defaults.MaxImageWidth,
		maxHeight: defaults.MaxImageHeight,
		maxSize:   defaults.MaxImageSize,
		minImages: defaults.MinImageCount,
		calls:     defaults.FitCallsLimit,
	}

	cmd := &cobra.Command{
		Use:   "fit <input>",
		Short: "Fit areas from a file into output images",
		Long: `Fit reads an area list and packs it into as little output image space
as the search budget allows.

Supported inputs: .csv/.txt, .xlsx, .dxf, and saved .json jobs.

Examples:
  areafit fit areas.csv
  areafit fit areas.xlsx --max-width 1024 --max-height 1024
  areafit fit job.json --calls 1000000 --pdf layout.pdf --labels labels.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxWidth, "max-width", opts.maxWidth, "maximum output image width")
	cmd.Flags().IntVar(&opts.maxHeight, "max-height", opts.maxHeight, "maximum output image height")
	cmd.Flags().IntVar(&opts.maxSize, "max-size", opts.maxSize, "maximum output image size in pixels (0 = unlimited)")
	cmd.Flags().IntVar(&opts.minImages, "min-images", opts.minImages, "number of output images to start with")
	cmd.Flags().IntVar(&opts.calls, "calls", opts.calls, "fit call budget")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write a layout PDF to this path")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write a placement workbook to this path")
	cmd.Flags().StringVar(&opts.dxfPath, "dxf", "", "write a layout DXF to this path")
	cmd.Flags().StringVar(&opts.labelsPath, "labels", "", "write QR label sheets to this path")
	cmd.Flags().StringVar(&opts.savePath, "save", "", "save the job with its result to this path")

	return cmd
}

func runFit(cmd *cobra.Command, input string, opts *fitOpts) error {
	logger := loggerFromContext(cmd.Context())

	areas, settings, hints, err := loadInput(cmd, input)
	if err != nil {
		return err
	}
	opts.applyTo(cmd, &settings)

	logger.Debugf("Fitting %d areas (budget %d calls)", len(areas), settings.FitCallsLimit)
	fitter := engine.New(settings)
	result, ok := fitter.Fit(areas, hints)
	if !ok {
		return fmt.Errorf("no fit found within %d calls; retry with a larger --calls or --min-images", settings.FitCallsLimit)
	}

	logger.Infof("Fitted %d areas into %d images, quality %.1f%%",
		len(result.Areas), len(result.Images), result.Quality)
	printResult(cmd, result)

	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, result); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		logger.Infof("Wrote %s", opts.pdfPath)
	}
	if opts.xlsxPath != "" {
		if err := export.ExportXLSX(opts.xlsxPath, result); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		logger.Infof("Wrote %s", opts.xlsxPath)
	}
	if opts.dxfPath != "" {
		if err := export.ExportDXF(opts.dxfPath, result); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		logger.Infof("Wrote %s", opts.dxfPath)
	}
	if opts.labelsPath != "" {
		if err := export.ExportLabels(opts.labelsPath, result); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		logger.Infof("Wrote %s", opts.labelsPath)
	}
	if opts.savePath != "" {
		job := model.Job{
			Name:     strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
			Areas:    result.Areas,
			Settings: settings,
			Result:   &result,
		}
		if err := project.SaveJob(opts.savePath, job); err != nil {
			return fmt.Errorf("save job: %w", err)
		}
		logger.Infof("Saved %s", opts.savePath)

		configPath := project.DefaultConfigPath()
		if cfg, err := project.LoadAppConfig(configPath); err == nil {
			cfg.AddRecentJob(opts.savePath, 10)
			if err := project.SaveAppConfig(configPath, cfg); err != nil {
				logger.Warnf("Could not update recent jobs: %v", err)
			}
		}
	}

	return nil
}

// printResult writes the placement table to the command's stdout.
func printResult(cmd *cobra.Command, result model.FitResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tIMAGE\tX\tY\tWIDTH\tHEIGHT")
	for _, a := range result.Areas {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			a.Label, a.OutImage+1, a.OutX, a.OutY, a.Width, a.Height)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d images, total size %d px², quality %.1f%%\n",
		len(result.Images), result.TotalSize(), result.Quality)
}
