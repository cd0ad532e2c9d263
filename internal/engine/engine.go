// Package engine implements the area-fitting search: a branch-and-bound
// depth-first enumeration over a guillotine-style free-rectangle partitioning.
// The search minimizes the summary size of the output images first and the
// number of output images second, bounded by a fit-call budget.
package engine

import (
	"math"
	"sort"

	"github.com/avaneev/areafitter/internal/model"
)

// Fitter runs the area-fitting search.
type Fitter struct {
	Settings model.FitSettings
}

func New(settings model.FitSettings) *Fitter {
	return &Fitter{Settings: settings}
}

// unsetBest marks the global best as not found yet. The worker-local copy
// starts one below it so the local pruning threshold is always at least as
// tight as the untouched global one.
const unsetBest = math.MaxInt

// callSlice is the number of fit calls a worker takes from the shared budget
// at a time. Slicing amortizes the synchronization cost.
const callSlice = 512

// FitAreas fits all areas into the given (or a greater) number of output
// images. The images argument provides optional per-image maximum dimension
// hints: a zero width or height falls back to the settings caps. Output image
// extents always grow from zero, so the hints are upper bounds, not sizes.
//
// On success the areas slice is rewritten with the best placements found and
// sorted by (OutImage, OutX, OutY), and the returned image list holds the
// grown extents. The float result is the fit quality in percent: 100 means
// the packing reached the theoretical minimum summary size.
//
// FitAreas returns false when the call budget was exhausted before any
// complete placement was found. Retrying with a larger FitCallsLimit and/or
// MinImageCount is the expected recovery.
func (f *Fitter) FitAreas(areas []model.FitArea, images []model.OutImage) ([]model.OutImage, float64, bool) {
	if len(areas) < 2 {
		if len(areas) == 0 {
			return nil, 100.0, true
		}
		areas[0].OutImage = 0
		areas[0].OutX = 0
		areas[0].OutY = 0
		img := model.OutImage{Width: areas[0].Width, Height: areas[0].Height}
		img.Size = img.Width * img.Height
		return []model.OutImage{img}, 100.0, true
	}

	// Wide areas first. Stable so equal widths keep their input order.
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Width > areas[j].Width
	})

	maxSize := f.Settings.MaxImageSize
	if maxSize <= 0 {
		maxSize = unsetBest
	}

	// The size cap must admit the largest single area. minOutSize is the
	// theoretical optimum used for the quality ratio.
	minOutSize := 0
	for i := range areas {
		size := areas[i].Width * areas[i].Height
		if maxSize < size {
			maxSize = size
		}
		minOutSize += size
	}

	g := &globals{
		fitCallsLimit:  f.Settings.FitCallsLimit,
		fitCallsLeft:   f.Settings.FitCallsLimit,
		bestOutSize:    unsetBest,
		bestImageCount: unsetBest,
	}

	minImages := f.Settings.MinImageCount
	if minImages < 1 {
		minImages = 1
	}
	if minImages < len(images) {
		minImages = len(images)
	}

	w := newWorker(f.Settings.MaxImageWidth, f.Settings.MaxImageHeight, maxSize, g, areas)
	w.fd = newFitData(minImages, images, f.Settings.MaxImageWidth, f.Settings.MaxImageHeight)
	w.pushStack()
	w.fitUnfittedAreas()

	if g.bestOutSize == unsetBest {
		return nil, 0, false
	}

	copy(areas, g.bestAreas)
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].OutImage != areas[j].OutImage {
			return areas[i].OutImage < areas[j].OutImage
		}
		if areas[i].OutX != areas[j].OutX {
			return areas[i].OutX < areas[j].OutX
		}
		return areas[i].OutY < areas[j].OutY
	})

	quality := 100.0 * float64(minOutSize) / float64(g.bestOutSize)
	return g.bestImages, quality, true
}

// Fit is a convenience wrapper that returns the finished fit as a FitResult.
func (f *Fitter) Fit(areas []model.FitArea, images []model.OutImage) (model.FitResult, bool) {
	outImages, quality, ok := f.FitAreas(areas, images)
	if !ok {
		return model.FitResult{}, false
	}
	return model.FitResult{
		Areas:   areas,
		Images:  outImages,
		Quality: quality,
	}, true
}
