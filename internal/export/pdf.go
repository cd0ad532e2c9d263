// Package export provides functionality for exporting fit results to
// various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/avaneev/areafitter/internal/model"
)

// areaColor represents an RGB color for a placed area.
type areaColor struct {
	R, G, B int
}

var areaColors = []areaColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document containing the fit result. Each output
// image is rendered on its own page with a scaled layout diagram, followed
// by a summary page with overall statistics.
func ExportPDF(path string, result model.FitResult) error {
	if len(result.Images) == 0 {
		return fmt.Errorf("no images to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i := range result.Images {
		pdf.AddPage()
		renderImagePage(pdf, result, i)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderImagePage draws a single output image on the current PDF page.
func renderImagePage(pdf *fpdf.Fpdf, result model.FitResult, imageIdx int) {
	img := result.Images[imageIdx]
	areas := result.ImageAreas(imageIdx)

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Image %d (%d x %d px)", imageIdx+1, img.Width, img.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Areas: %d | Image size: %d px² | Fill: %.1f%%",
		len(areas), img.Size, result.ImageEfficiency(imageIdx))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	if img.Width == 0 || img.Height == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetXY(marginLeft, drawAreaTop)
		pdf.CellFormat(0, 5, "Image is unused", "", 0, "L", false, 0, "")
		return
	}

	// Scale the image to fit the drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/float64(img.Width), drawHeight/float64(img.Height))

	canvasW := float64(img.Width) * scale
	canvasH := float64(img.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Image background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Placed areas
	for i, a := range areas {
		col := areaColors[i%len(areaColors)]
		aw := float64(a.Width) * scale
		ah := float64(a.Height) * scale
		ax := offsetX + float64(a.OutX)*scale
		ay := offsetY + float64(a.OutY)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(ax, ay, aw, ah, "FD")

		// Label only if the rectangle is large enough
		if aw > 15 && ah > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(aw, ah))
			pdf.SetTextColor(0, 0, 0)

			label := a.Label
			dims := fmt.Sprintf("%dx%d", a.Width, a.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < aw-2 {
				pdf.SetXY(ax+(aw-labelW)/2, ay+ah/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ah > 14 && dimsW < aw-2 {
				pdf.SetXY(ax+(aw-dimsW)/2, ay+ah/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	// Dimension annotations along the edges
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", img.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", img.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize picks a font size proportional to the rectangle being labeled.
func labelFontSize(w, h float64) float64 {
	size := math.Min(w, h) / 4
	if size < 5 {
		return 5
	}
	if size > 9 {
		return 9
	}
	return size
}

// renderSummaryPage draws overall statistics on the current PDF page.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.FitResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Summary", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	y := marginTop + headerHeight + 5

	lines := []string{
		fmt.Sprintf("Output images: %d", len(result.Images)),
		fmt.Sprintf("Placed areas: %d", len(result.Areas)),
		fmt.Sprintf("Used area: %d px²", result.UsedSize()),
		fmt.Sprintf("Total image area: %d px²", result.TotalSize()),
		fmt.Sprintf("Fit quality: %.1f%%", result.Quality),
	}
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(0, 5, line, "", 0, "L", false, 0, "")
		y += 6
	}

	// Per-image breakdown table
	y += 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(25, 6, "Image", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Dimensions", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Areas", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Fill", "1", 0, "C", false, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 10)
	for i, img := range result.Images {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d x %d", img.Width, img.Height), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", len(result.ImageAreas(i))), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f%%", result.ImageEfficiency(i)), "1", 0, "C", false, 0, "")
		y += 6
	}
}
