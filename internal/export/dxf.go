package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/avaneev/areafitter/internal/model"
)

// imageGutter is the horizontal spacing between output images in the
// exported drawing.
const imageGutter = 50.0

// ExportDXF writes the fit result as a DXF drawing. Output images are laid
// out side by side, each on its own layer, with the image boundary and every
// placed area drawn as rectangles.
func ExportDXF(path string, result model.FitResult) error {
	if len(result.Images) == 0 {
		return fmt.Errorf("no images to export")
	}

	d := dxf.NewDrawing()

	offsetX := 0.0
	for i, img := range result.Images {
		layer := fmt.Sprintf("IMAGE_%d", i+1)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer, err)
		}

		if img.Width > 0 && img.Height > 0 {
			if err := drawRect(d, offsetX, 0, float64(img.Width), float64(img.Height)); err != nil {
				return err
			}
		}
		for _, a := range result.ImageAreas(i) {
			if a.Width == 0 || a.Height == 0 {
				continue
			}
			err := drawRect(d, offsetX+float64(a.OutX), float64(a.OutY),
				float64(a.Width), float64(a.Height))
			if err != nil {
				return err
			}
		}

		offsetX += float64(img.Width) + imageGutter
	}

	return d.SaveAs(path)
}

// drawRect draws an axis-aligned rectangle as four LINE entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	lines := [][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}
	return nil
}
