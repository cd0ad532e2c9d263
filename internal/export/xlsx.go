package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/avaneev/areafitter/internal/model"
)

// ExportXLSX writes the fit result to an Excel workbook: a "Placements"
// sheet with one row per placed area and a "Summary" sheet with per-image
// statistics.
func ExportXLSX(path string, result model.FitResult) error {
	if len(result.Areas) == 0 {
		return fmt.Errorf("no placed areas to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const placements = "Placements"
	if err := f.SetSheetName(f.GetSheetName(0), placements); err != nil {
		return err
	}

	header := []any{"Label", "Image", "X", "Y", "Width", "Height"}
	if err := setRow(f, placements, 1, header); err != nil {
		return err
	}
	for i, a := range result.Areas {
		row := []any{a.Label, a.OutImage + 1, a.OutX, a.OutY, a.Width, a.Height}
		if err := setRow(f, placements, i+2, row); err != nil {
			return err
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	if err := setRow(f, summary, 1, []any{"Image", "Width", "Height", "Size", "Areas", "Fill %"}); err != nil {
		return err
	}
	for i, img := range result.Images {
		row := []any{i + 1, img.Width, img.Height, img.Size,
			len(result.ImageAreas(i)), result.ImageEfficiency(i)}
		if err := setRow(f, summary, i+2, row); err != nil {
			return err
		}
	}
	quality := []any{"Quality %", result.Quality}
	if err := setRow(f, summary, len(result.Images)+3, quality); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// setRow writes cells left to right starting at column A of the given row.
func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
