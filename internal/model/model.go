package model

import "github.com/google/uuid"

// FitArea represents a rectangle to be placed into one of the output images.
// Width and Height include any inter-area spacing the caller wants to bake in.
type FitArea struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Object is an opaque caller-owned payload carried through the fit
	// unread. It is not serialized.
	Object any `json:"-"`

	// Placement results, valid only after a successful fit.
	OutImage int `json:"out_image"` // output image index
	OutX     int `json:"out_x"`     // X offset within the output image
	OutY     int `json:"out_y"`     // Y offset within the output image
}

func NewFitArea(label string, w, h int) FitArea {
	return FitArea{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// Size returns the area in pixels.
func (a FitArea) Size() int {
	return a.Width * a.Height
}

// OutImage holds the grown extent of one output image. The dimensions are the
// minimum bounding size needed by the areas placed in it so far.
type OutImage struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Size   int `json:"size"` // always Width * Height
}

// FitSettings holds the sizing constraints and the search budget.
type FitSettings struct {
	MaxImageWidth  int `json:"max_image_width"`  // per-image width cap, raised to the widest area
	MaxImageHeight int `json:"max_image_height"` // per-image height cap, raised to the tallest area
	MaxImageSize   int `json:"max_image_size"`   // hard cap on Width*Height; <= 0 means unlimited
	MinImageCount  int `json:"min_image_count"`  // number of output images to start with
	FitCallsLimit  int `json:"fit_calls_limit"`  // total placement-step budget across all workers
}

func DefaultSettings() FitSettings {
	return FitSettings{
		MaxImageWidth:  2048,
		MaxImageHeight: 2048,
		MaxImageSize:   0, // unlimited
		MinImageCount:  1,
		FitCallsLimit:  200000,
	}
}

// FitResult bundles a finished fit for persistence and export.
type FitResult struct {
	Areas   []FitArea  `json:"areas"`
	Images  []OutImage `json:"images"`
	Quality float64    `json:"quality"` // percent in (0, 100]
}

// UsedSize returns the total area covered by the placed areas.
func (r FitResult) UsedSize() int {
	var total int
	for _, a := range r.Areas {
		total += a.Size()
	}
	return total
}

// TotalSize returns the summary size of all output images.
func (r FitResult) TotalSize() int {
	var total int
	for _, img := range r.Images {
		total += img.Size
	}
	return total
}

// Efficiency returns the overall fill percentage.
func (r FitResult) Efficiency() float64 {
	ts := r.TotalSize()
	if ts == 0 {
		return 0
	}
	return float64(r.UsedSize()) / float64(ts) * 100.0
}

// ImageEfficiency returns the fill percentage of a single output image.
func (r FitResult) ImageEfficiency(i int) float64 {
	if i < 0 || i >= len(r.Images) || r.Images[i].Size == 0 {
		return 0
	}
	var used int
	for _, a := range r.Areas {
		if a.OutImage == i {
			used += a.Size()
		}
	}
	return float64(used) / float64(r.Images[i].Size) * 100.0
}

// ImageAreas returns the areas placed in output image i, in finalized order.
func (r FitResult) ImageAreas(i int) []FitArea {
	var areas []FitArea
	for _, a := range r.Areas {
		if a.OutImage == i {
			areas = append(areas, a)
		}
	}
	return areas
}

// Job ties everything together for save/load.
type Job struct {
	Name     string      `json:"name"`
	Areas    []FitArea   `json:"areas"`
	Images   []OutImage  `json:"images,omitempty"` // initial image hints, may be empty
	Settings FitSettings `json:"settings"`
	Result   *FitResult  `json:"result,omitempty"`
}

func NewJob() Job {
	return Job{
		Name:     "Untitled",
		Areas:    []FitArea{},
		Settings: DefaultSettings(),
	}
}
