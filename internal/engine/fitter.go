package engine

import (
	"sync"

	"github.com/avaneev/areafitter/internal/model"
)

// globals holds the search state shared among all workers. Every access to
// the best fields or the remaining call budget goes through mu, and the four
// best fields are only ever updated together.
type globals struct {
	mu             sync.Mutex
	fitCallsLimit  int
	fitCallsLeft   int
	bestOutSize    int
	bestImageCount int
	bestAreas      []model.FitArea
	bestImages     []model.OutImage
}

// outArea is an available rectangular region within one of the output
// images. The free list links outAreas through next in ascending height
// order behind a sentinel node.
type outArea struct {
	image         int
	x, y          int
	width, height int
	next          *outArea
}

// areaNode links a worker's copy of a fit area into the unfitted list.
type areaNode struct {
	area *model.FitArea
	next *areaNode
}

// fitData is the mutable state of one in-progress exploration.
type fitData struct {
	outAreas     *outArea  // free-list sentinel
	baseOutAreas []outArea // sentinel + one region per initial image

	images     []model.OutImage // grown extents; imageCount entries are live
	imageCount int
	outSize    int // summary size of all output images so far

	// Worker-local snapshot of the best fit used for pruning. May trail the
	// global best between budget refills.
	bestOutSize    int
	bestImageCount int
}

// newFitData builds the initial exploration state: imageCount zero-extent
// images and a free region per image covering that image's maximum allowed
// extent (the caller's hint dimensions, or the settings caps where the hint
// is zero).
func newFitData(imageCount int, hints []model.OutImage, maxWidth, maxHeight int) *fitData {
	fd := &fitData{
		baseOutAreas:   make([]outArea, imageCount+1),
		images:         make([]model.OutImage, imageCount),
		imageCount:     imageCount,
		bestOutSize:    unsetBest - 1,
		bestImageCount: unsetBest,
	}
	fd.outAreas = &fd.baseOutAreas[0]

	for i := 0; i < imageCount; i++ {
		oa := &fd.baseOutAreas[i+1]
		oa.image = i
		oa.width = maxWidth
		oa.height = maxHeight
		if i < len(hints) {
			if hints[i].Width > 0 {
				oa.width = hints[i].Width
			}
			if hints[i].Height > 0 {
				oa.height = hints[i].Height
			}
		}
		fd.insertOutArea(oa)
	}
	return fd
}

// insertOutArea links oa into the free list just before the first region
// taller than it, keeping the list in ascending height order. The returned
// predecessor lets the caller unlink oa again in O(1).
func (fd *fitData) insertOutArea(oa *outArea) *outArea {
	prev := fd.outAreas
	for scan := prev.next; scan != nil && scan.height <= oa.height; scan = scan.next {
		prev = scan
	}
	oa.next = prev.next
	prev.next = oa
	return prev
}

// addImage appends a fresh zero-extent image slot.
func (fd *fitData) addImage() {
	if fd.imageCount < len(fd.images) {
		fd.images[fd.imageCount] = model.OutImage{}
	} else {
		fd.images = append(fd.images, model.OutImage{})
	}
	fd.imageCount++
}

// Resume labels for popped stack frames.
const (
	locAfterConfig1 = 2
	locAfterConfig2 = 3
)

// stackItem holds one linearized recursion frame of the search: the area
// being placed at this depth and everything needed to undo a trial placement
// on backtrack.
type stackItem struct {
	codeLoc  int
	area     *areaNode
	prevArea *areaNode

	outArea       *outArea
	prevOutArea   *outArea
	outAreasTried int

	// Storage for the up-to-two successor regions of the current split
	// configuration; slot 2 backs a synthesized fresh image.
	newOutAreas     [3]outArea
	prevNewOutAreas [2]*outArea

	remainRight  int
	remainBottom int

	imageAdded   bool
	restoreImage bool
	imageSave    model.OutImage
	outSizeSave  int

	minAreaWidth  int
	minAreaHeight int

	c, c1 int
}

// worker drives one depth-first exploration. Several workers may cooperate
// on a single globals block; the reference configuration runs one.
type worker struct {
	maxImageWidth  int
	maxImageHeight int
	maxImageSize   int

	globals   *globals
	callsLeft int

	areas    []model.FitArea // worker copy of the sorted input
	nodes    []areaNode
	unfitted areaNode // sentinel of the unfitted list

	fd    *fitData
	stack []stackItem
	depth int
}

func newWorker(maxWidth, maxHeight, maxSize int, g *globals, sorted []model.FitArea) *worker {
	w := &worker{
		maxImageWidth:  maxWidth,
		maxImageHeight: maxHeight,
		maxImageSize:   maxSize,
		globals:        g,
		areas:          append([]model.FitArea(nil), sorted...),
		nodes:          make([]areaNode, len(sorted)),
		stack:          make([]stackItem, len(sorted)),
		depth:          -1,
	}
	prev := &w.unfitted
	for i := range w.nodes {
		w.nodes[i].area = &w.areas[i]
		prev.next = &w.nodes[i]
		prev = &w.nodes[i]
	}
	prev.next = nil
	return w
}

// pushStack opens a frame for the next set of unfitted areas.
func (w *worker) pushStack() {
	w.depth++
	s := &w.stack[w.depth]
	s.area = w.unfitted.next
	s.prevArea = &w.unfitted
}

// Search steps. The search is an explicit state machine rather than native
// recursion: the call budget is checkable between any two placement steps,
// and a partial exploration can be handed off by copying fitData plus the
// stack.
const (
	stepArea = iota
	stepOutArea
	stepAfterConfig1
	stepAfterConfig2
	stepAfterTrial
	stepEndArea
	stepPop
)

// fitUnfittedAreas iterates through all available output regions where the
// unfitted areas could be placed, recursing (via the explicit stack) for the
// remaining areas after each trial placement. The region occupied by a
// placement is temporarily split into up to two successor regions, in two
// alternative configurations, and the search continues under each.
func (w *worker) fitUnfittedAreas() {
	g := w.globals
	fd := w.fd
	s := &w.stack[w.depth]
	step := stepArea

	for {
		switch step {
		case stepArea:
			if s.area == nil ||
				fd.outSize >= fd.bestOutSize || fd.imageCount > fd.bestImageCount {
				step = stepPop
				continue
			}

			if w.callsLeft == 0 {
				g.mu.Lock()
				if fd.bestOutSize > g.bestOutSize || fd.bestImageCount > g.bestImageCount {
					// Another worker found a better fit; adopt its bound and
					// abandon this subtree.
					fd.bestOutSize = g.bestOutSize
					fd.bestImageCount = g.bestImageCount
					g.mu.Unlock()
					step = stepPop
					continue
				}
				if g.fitCallsLeft == 0 {
					g.mu.Unlock()
					return
				}
				if g.fitCallsLeft >= callSlice {
					w.callsLeft = callSlice
					g.fitCallsLeft -= callSlice
				} else {
					w.callsLeft = g.fitCallsLeft
					g.fitCallsLeft = 0
				}
				g.mu.Unlock()
			}
			w.callsLeft--

			// Detach the area being placed from the unfitted list.
			s.prevArea.next = s.area.next

			s.prevOutArea = fd.outAreas
			s.outArea = fd.outAreas.next
			s.outAreasTried = 0
			step = stepOutArea

		case stepOutArea:
			oa := s.outArea
			area := s.area.area

			if oa == nil {
				// Nothing fit anywhere. Open a fresh output image for this
				// area, unless something was tried at this depth or the
				// image-count bound forbids it. At most one per frame.
				if s.outAreasTried > 0 || fd.imageCount == fd.bestImageCount {
					step = stepEndArea
					continue
				}
				oa = &s.newOutAreas[2]
				oa.x = 0
				oa.y = 0
				oa.width = max(area.Width, w.maxImageWidth)
				oa.height = max(area.Height, w.maxImageHeight)
				s.prevOutArea = fd.insertOutArea(oa)
				oa.image = fd.imageCount
				fd.addImage()
				s.outArea = oa
				s.imageAdded = true
			} else {
				s.imageAdded = false
			}

			s.remainRight = oa.width - area.Width
			s.remainBottom = oa.height - area.Height
			if s.remainRight < 0 || s.remainBottom < 0 {
				s.prevOutArea = oa
				s.outArea = oa.next
				continue
			}

			if !w.checkFitAgainstBest(fd, s, oa, area) {
				step = stepAfterTrial
				continue
			}

			area.OutImage = oa.image
			area.OutX = oa.x
			area.OutY = oa.y

			if w.unfitted.next == nil {
				// All areas placed; this is a candidate best fit.
				w.recordFit(fd)
				if s.restoreImage {
					fd.images[oa.image] = s.imageSave
					fd.outSize = s.outSizeSave
				}
				step = stepAfterTrial
				continue
			}

			// Minimal dimensions among the remaining unfitted areas; any
			// successor region smaller than these in either dimension can
			// never be used and is dropped.
			scan := w.unfitted.next
			s.minAreaWidth = scan.area.Width
			s.minAreaHeight = scan.area.Height
			for scan = scan.next; scan != nil; scan = scan.next {
				if scan.area.Width < s.minAreaWidth {
					s.minAreaWidth = scan.area.Width
				}
				if scan.area.Height < s.minAreaHeight {
					s.minAreaHeight = scan.area.Height
				}
			}

			// Remove the occupied region while the remaining areas are fit.
			s.prevOutArea.next = oa.next

			// Configuration 1: the right remainder keeps the full region
			// height, the bottom remainder sits under the placed area.
			s.c = 0
			if s.remainRight >= s.minAreaWidth && oa.height >= s.minAreaHeight {
				n := &s.newOutAreas[0]
				n.image = oa.image
				n.x = oa.x + area.Width
				n.y = oa.y
				n.width = s.remainRight
				n.height = oa.height
				s.prevNewOutAreas[0] = fd.insertOutArea(n)
				s.c = 1
			}
			if area.Width >= s.minAreaWidth && s.remainBottom >= s.minAreaHeight {
				n := &s.newOutAreas[1]
				n.image = oa.image
				n.x = oa.x
				n.y = oa.y + area.Height
				n.width = area.Width
				n.height = s.remainBottom
				s.prevNewOutAreas[s.c] = fd.insertOutArea(n)
				s.c++
			}
			s.c1 = s.c
			s.codeLoc = locAfterConfig1
			w.pushStack()
			s = &w.stack[w.depth]
			step = stepArea

		case stepAfterConfig1:
			for s.c > 0 {
				s.c--
				prev := s.prevNewOutAreas[s.c]
				prev.next = prev.next.next
			}

			if fd.outSize < fd.bestOutSize && fd.imageCount <= fd.bestImageCount {
				oa := s.outArea
				area := s.area.area

				// Configuration 2: the right remainder stops at the placed
				// area's height, the bottom remainder keeps the full width.
				s.c = 0
				if s.remainRight >= s.minAreaWidth && area.Height >= s.minAreaHeight {
					n := &s.newOutAreas[0]
					n.image = oa.image
					n.x = oa.x + area.Width
					n.y = oa.y
					n.width = s.remainRight
					n.height = area.Height
					s.prevNewOutAreas[0] = fd.insertOutArea(n)
					s.c = 1
				}
				if oa.width >= s.minAreaWidth && s.remainBottom >= s.minAreaHeight {
					n := &s.newOutAreas[1]
					n.image = oa.image
					n.x = oa.x
					n.y = oa.y + area.Height
					n.width = oa.width
					n.height = s.remainBottom
					s.prevNewOutAreas[s.c] = fd.insertOutArea(n)
					s.c++
				}

				// When both configurations produced zero successors they are
				// identical; skip the second recursion.
				if s.c+s.c1 > 0 {
					s.codeLoc = locAfterConfig2
					w.pushStack()
					s = &w.stack[w.depth]
					step = stepArea
					continue
				}
			}

			w.undoSplit(fd, s)
			step = stepAfterTrial

		case stepAfterConfig2:
			for s.c > 0 {
				s.c--
				prev := s.prevNewOutAreas[s.c]
				prev.next = prev.next.next
			}
			w.undoSplit(fd, s)
			step = stepAfterTrial

		case stepAfterTrial:
			oa := s.outArea
			if s.imageAdded {
				// Undo the synthesized image; no further regions exist at
				// this depth once a fresh image was tried.
				s.prevOutArea.next = oa.next
				fd.imageCount--
				step = stepEndArea
				continue
			}
			if fd.outSize >= fd.bestOutSize || fd.imageCount > fd.bestImageCount {
				step = stepEndArea
				continue
			}
			s.prevOutArea = oa
			s.outArea = oa.next
			step = stepOutArea

		case stepEndArea:
			// Relink the area and move on to placing the next unfitted area
			// first at this depth.
			area := s.area
			s.prevArea.next = area
			s.prevArea = area
			s.area = area.next
			step = stepArea

		case stepPop:
			if w.depth > 0 {
				w.depth--
				s = &w.stack[w.depth]
				if s.codeLoc == locAfterConfig1 {
					step = stepAfterConfig1
				} else {
					step = stepAfterConfig2
				}
				continue
			}
			if w.callsLeft > 0 {
				g.mu.Lock()
				g.fitCallsLeft += w.callsLeft
				g.mu.Unlock()
				w.callsLeft = 0
			}
			return
		}
	}
}

// undoSplit relinks the occupied region into the free list and restores the
// owning image's extent if the trial placement grew it.
func (w *worker) undoSplit(fd *fitData, s *stackItem) {
	s.prevOutArea.next = s.outArea
	if s.restoreImage {
		fd.images[s.outArea.image] = s.imageSave
		fd.outSize = s.outSizeSave
	}
}

// checkFitAgainstBest decides whether placing area into oa is worth pursuing.
// If the placement grows the owning image, the grown extent must stay within
// the size cap and keep the summary size below the best found so far; the
// prior extent is saved in the frame for restoration on backtrack.
// outAreasTried is not advanced when the size cap rejects the region, so a
// fresh image may still be opened for this area.
func (w *worker) checkFitAgainstBest(fd *fitData, s *stackItem, oa *outArea, area *model.FitArea) bool {
	newWidth := oa.x + area.Width
	newHeight := oa.y + area.Height
	img := &fd.images[oa.image]

	grew := false
	if newWidth > img.Width {
		grew = true
	} else {
		newWidth = img.Width
	}
	if newHeight > img.Height {
		grew = true
	} else {
		newHeight = img.Height
	}

	if grew {
		newSize := newWidth * newHeight
		if newSize > w.maxImageSize {
			return false
		}
		newOutSize := fd.outSize + newSize - img.Size
		if newOutSize >= fd.bestOutSize {
			s.outAreasTried++
			return false
		}

		s.imageSave = *img
		s.outSizeSave = fd.outSize
		img.Width = newWidth
		img.Height = newHeight
		img.Size = newSize
		fd.outSize = newOutSize
		s.restoreImage = true
	} else {
		s.restoreImage = false
	}

	s.outAreasTried++
	return true
}

// recordFit publishes a complete placement to the globals if it beats the
// best found so far: strictly smaller summary size, and no more images. The
// four best fields update as one critical section. When not accepted, the
// worker still adopts the possibly-better global bounds before backtracking.
func (w *worker) recordFit(fd *fitData) {
	g := w.globals
	g.mu.Lock()
	if fd.outSize < g.bestOutSize && fd.imageCount <= g.bestImageCount {
		fd.bestOutSize = fd.outSize
		fd.bestImageCount = fd.imageCount

		g.bestOutSize = fd.outSize
		g.bestImageCount = fd.imageCount
		g.bestAreas = append(g.bestAreas[:0], w.areas...)
		g.bestImages = append(g.bestImages[:0], fd.images[:fd.imageCount]...)
	} else {
		fd.bestOutSize = g.bestOutSize
		fd.bestImageCount = g.bestImageCount
	}
	g.mu.Unlock()
}
