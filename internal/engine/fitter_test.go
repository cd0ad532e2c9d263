package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaneev/areafitter/internal/model"
)

func freeListHeights(fd *fitData) []int {
	var heights []int
	for oa := fd.outAreas.next; oa != nil; oa = oa.next {
		heights = append(heights, oa.height)
	}
	return heights
}

func TestInsertOutArea_KeepsHeightOrder(t *testing.T) {
	fd := newFitData(1, nil, 100, 100)

	insert := func(h int) *outArea {
		oa := &outArea{width: 10, height: h}
		fd.insertOutArea(oa)
		return oa
	}
	insert(40)
	insert(250)
	insert(100)
	insert(40)

	// Base region height 100 plus the four inserts, ascending, equal
	// heights in insertion order.
	assert.Equal(t, []int{40, 40, 100, 100, 250}, freeListHeights(fd))
}

func TestInsertOutArea_ReturnsUnlinkablePredecessor(t *testing.T) {
	fd := newFitData(1, nil, 100, 100)
	oa := &outArea{width: 10, height: 50}

	prev := fd.insertOutArea(oa)

	require.Same(t, oa, prev.next)
	prev.next = prev.next.next
	assert.Equal(t, []int{100}, freeListHeights(fd))
}

func TestNewFitData_UsesHintDimensions(t *testing.T) {
	hints := []model.OutImage{
		{Width: 120, Height: 80},
		{}, // placeholder falls back to the caps
	}
	fd := newFitData(2, hints, 300, 200)

	var regions []outArea
	for oa := fd.outAreas.next; oa != nil; oa = oa.next {
		regions = append(regions, *oa)
	}
	require.Len(t, regions, 2)

	// Height order puts the 80-tall hinted region first.
	assert.Equal(t, 0, regions[0].image)
	assert.Equal(t, 120, regions[0].width)
	assert.Equal(t, 80, regions[0].height)
	assert.Equal(t, 1, regions[1].image)
	assert.Equal(t, 300, regions[1].width)
	assert.Equal(t, 200, regions[1].height)

	// Extents start at zero regardless of hints.
	for i, img := range fd.images {
		assert.Zero(t, img.Size, "image %d should start empty", i)
	}
}

func TestAddImage_ReusesUndoneSlot(t *testing.T) {
	fd := newFitData(1, nil, 100, 100)

	fd.addImage()
	assert.Equal(t, 2, fd.imageCount)
	fd.images[1] = model.OutImage{Width: 7, Height: 7, Size: 49}

	// Backtracking an added image just drops the count; the next add must
	// hand back a clean slot.
	fd.imageCount--
	fd.addImage()
	assert.Equal(t, 2, fd.imageCount)
	assert.Zero(t, fd.images[1].Size)
}

func newTestWorker(areas []model.FitArea, maxW, maxH, maxSize int) *worker {
	g := &globals{bestOutSize: unsetBest, bestImageCount: unsetBest}
	w := newWorker(maxW, maxH, maxSize, g, areas)
	w.fd = newFitData(1, nil, maxW, maxH)
	return w
}

func TestCheckFitAgainstBest_GrowsAndSaves(t *testing.T) {
	areas := []model.FitArea{{Width: 60, Height: 40}, {Width: 10, Height: 10}}
	w := newTestWorker(areas, 100, 100, unsetBest)
	fd := w.fd
	s := &stackItem{}
	oa := &outArea{image: 0, x: 0, y: 0, width: 100, height: 100}

	ok := w.checkFitAgainstBest(fd, s, oa, &w.areas[0])

	require.True(t, ok)
	assert.True(t, s.restoreImage)
	assert.Equal(t, model.OutImage{}, s.imageSave)
	assert.Equal(t, model.OutImage{Width: 60, Height: 40, Size: 2400}, fd.images[0])
	assert.Equal(t, 2400, fd.outSize)
	assert.Equal(t, 1, s.outAreasTried)
}

func TestCheckFitAgainstBest_NoGrowthInsideExtent(t *testing.T) {
	areas := []model.FitArea{{Width: 60, Height: 40}, {Width: 10, Height: 10}}
	w := newTestWorker(areas, 100, 100, unsetBest)
	fd := w.fd
	fd.images[0] = model.OutImage{Width: 80, Height: 80, Size: 6400}
	fd.outSize = 6400
	s := &stackItem{}
	oa := &outArea{image: 0, x: 10, y: 10, width: 90, height: 90}

	ok := w.checkFitAgainstBest(fd, s, oa, &w.areas[0])

	require.True(t, ok)
	assert.False(t, s.restoreImage)
	assert.Equal(t, 6400, fd.outSize)
}

func TestCheckFitAgainstBest_SizeCapRejectsWithoutCountingTried(t *testing.T) {
	// A size-cap rejection must not count as tried, so a fresh image can
	// still be opened for the area.
	areas := []model.FitArea{{Width: 60, Height: 40}, {Width: 10, Height: 10}}
	w := newTestWorker(areas, 100, 100, 1000)
	s := &stackItem{}
	oa := &outArea{image: 0, x: 0, y: 0, width: 100, height: 100}

	ok := w.checkFitAgainstBest(w.fd, s, oa, &w.areas[0])

	assert.False(t, ok)
	assert.Zero(t, s.outAreasTried)
}

func TestCheckFitAgainstBest_BoundRejectionCountsTried(t *testing.T) {
	areas := []model.FitArea{{Width: 60, Height: 40}, {Width: 10, Height: 10}}
	w := newTestWorker(areas, 100, 100, unsetBest)
	w.fd.bestOutSize = 2400 // equal summary size is not an improvement
	s := &stackItem{}
	oa := &outArea{image: 0, x: 0, y: 0, width: 100, height: 100}

	ok := w.checkFitAgainstBest(w.fd, s, oa, &w.areas[0])

	assert.False(t, ok)
	assert.Equal(t, 1, s.outAreasTried)
}

func TestRecordFit_AcceptsOnlyStrictlySmaller(t *testing.T) {
	areas := []model.FitArea{{Width: 10, Height: 10}, {Width: 5, Height: 5}}
	w := newTestWorker(areas, 100, 100, unsetBest)
	fd := w.fd
	fd.images[0] = model.OutImage{Width: 15, Height: 10, Size: 150}
	fd.outSize = 150

	w.recordFit(fd)
	require.Equal(t, 150, w.globals.bestOutSize)
	require.Equal(t, 1, w.globals.bestImageCount)

	// Equal summary size never replaces the best, even with fewer images.
	fd.bestOutSize = unsetBest - 1
	w.recordFit(fd)
	assert.Equal(t, 150, w.globals.bestOutSize)
	// The worker adopted the global bounds instead.
	assert.Equal(t, 150, fd.bestOutSize)
	assert.Equal(t, 1, fd.bestImageCount)
}

func TestRecordFit_RejectsMoreImages(t *testing.T) {
	areas := []model.FitArea{{Width: 10, Height: 10}, {Width: 5, Height: 5}}
	w := newTestWorker(areas, 100, 100, unsetBest)
	w.globals.bestOutSize = 200
	w.globals.bestImageCount = 1

	fd := w.fd
	fd.addImage()
	fd.outSize = 100 // smaller, but spread over two images

	w.recordFit(fd)

	assert.Equal(t, 200, w.globals.bestOutSize)
	assert.Equal(t, 1, w.globals.bestImageCount)
}

func TestNewWorker_LinksAreasInOrder(t *testing.T) {
	areas := []model.FitArea{
		{ID: "a", Width: 30, Height: 10},
		{ID: "b", Width: 20, Height: 10},
		{ID: "c", Width: 10, Height: 10},
	}
	w := newWorker(100, 100, unsetBest, &globals{}, areas)

	var ids []string
	for n := w.unfitted.next; n != nil; n = n.next {
		ids = append(ids, n.area.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	// The worker owns its copy; placements must not leak into the input.
	w.areas[0].OutX = 99
	assert.Zero(t, areas[0].OutX)
}
