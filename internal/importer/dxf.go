package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/avaneev/areafitter/internal/model"
)

// ImportDXF imports areas from a DXF file. Each LWPOLYLINE with at least three
// vertices and each CIRCLE becomes one area sized to the shape's bounding box,
// rounded up to whole units; the polyline's closed flag is not checked, so an
// open polyline is treated like a closed one. Other entity types are skipped.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	areaNum := 0
	skipped := 0
	for _, ent := range entities {
		var minX, minY, maxX, maxY float64
		var found bool

		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			minX, minY = e.Vertices[0][0], e.Vertices[0][1]
			maxX, maxY = minX, minY
			for _, v := range e.Vertices[1:] {
				minX = math.Min(minX, v[0])
				minY = math.Min(minY, v[1])
				maxX = math.Max(maxX, v[0])
				maxY = math.Max(maxY, v[1])
			}
			found = true

		case *entity.Circle:
			minX = e.Center[0] - e.Radius
			minY = e.Center[1] - e.Radius
			maxX = e.Center[0] + e.Radius
			maxY = e.Center[1] + e.Radius
			found = true

		default:
			skipped++
		}

		if !found {
			continue
		}

		width := int(math.Ceil(maxX - minX))
		height := int(math.Ceil(maxY - minY))
		if width <= 0 || height <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%d x %d)", width, height))
			continue
		}

		areaNum++
		result.Areas = append(result.Areas,
			model.NewFitArea(fmt.Sprintf("DXF Area %d", areaNum), width, height))
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if len(result.Areas) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}

	return result
}
