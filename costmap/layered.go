// Package costmap implements the layered composition engine: an ordered
// list of layers that successively write into a shared master grid, bounded
// by a rectangular window the layers themselves negotiate. Structurally it
// follows go.viam.com/rdk's services/navigation orchestration style (a
// builtin service holding ordered, independently-configured subcomponents).
package costmap

import (
	"sync"

	"github.com/golang/geo/r3"

	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/grid"
	"go.viam.com/costmap/logging"
)

// LayeredCostmap holds the master grid and an ordered list of layers, and
// orchestrates one tick of layer composition in UpdateMap. The master grid
// is exclusively owned by LayeredCostmap; layers hold only a non-owning
// back-reference to it, passed into each method call.
type LayeredCostmap struct {
	logger logging.Logger

	master        *grid.Grid
	trackUnknown  bool
	rollingWindow bool

	// mu guards layers, footprint, and lastBounds/initialized bookkeeping —
	// everything here except the grid buffer itself, which has its own
	// mutex (see grid.Grid).
	mu          sync.Mutex
	layers      []Layer
	fp          *footprint.Footprint
	lastBounds  CellBounds
	initialized bool
}

func defaultValue(trackUnknown bool) byte {
	if trackUnknown {
		return grid.NoInformation
	}
	return grid.Free
}

// New constructs an empty LayeredCostmap. Call Resize before the first
// UpdateMap.
func New(trackUnknown, rollingWindow bool, logger logging.Logger) *LayeredCostmap {
	return &LayeredCostmap{
		logger:        logger,
		master:        grid.New(0, 0, 1.0, 0, 0, defaultValue(trackUnknown)),
		trackUnknown:  trackUnknown,
		rollingWindow: rollingWindow,
	}
}

// AddLayer appends a layer to the orchestration order. Layer registration
// order is preserved and is the order layers run in on every tick.
func (lc *LayeredCostmap) AddLayer(l Layer) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.layers = append(lc.layers, l)
}

// Layers returns the registered layers in registration order.
func (lc *LayeredCostmap) Layers() []Layer {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	out := make([]Layer, len(lc.layers))
	copy(out, lc.layers)
	return out
}

// Costmap returns the master grid.
func (lc *LayeredCostmap) Costmap() *grid.Grid {
	return lc.master
}

// TrackUnknownSpace reports whether unknown cells are tracked as
// no-information (vs. treated as free).
func (lc *LayeredCostmap) TrackUnknownSpace() bool {
	return lc.trackUnknown
}

// Resize resizes the master grid and notifies every layer via MatchSize.
func (lc *LayeredCostmap) Resize(sizeX, sizeY int, resolution, originX, originY float64) {
	lc.master.Resize(sizeX, sizeY, resolution, originX, originY, defaultValue(lc.trackUnknown))

	lc.mu.Lock()
	layers := make([]Layer, len(lc.layers))
	copy(layers, lc.layers)
	lc.mu.Unlock()

	for _, l := range layers {
		l.MatchSize(lc.master)
	}
}

// SetFootprint stores the footprint, recomputes inscribed/circumscribed
// radii, and notifies every layer via OnFootprintChanged. The points are
// stored as given; no padding is applied to them.
func (lc *LayeredCostmap) SetFootprint(points []r3.Vector) error {
	fp, err := footprint.New(points)
	if err != nil {
		return err
	}

	lc.mu.Lock()
	lc.fp = fp
	layers := make([]Layer, len(lc.layers))
	copy(layers, lc.layers)
	lc.mu.Unlock()

	for _, l := range layers {
		l.OnFootprintChanged(fp)
	}
	return nil
}

// Footprint returns the currently installed footprint, or nil if
// none has been set.
func (lc *LayeredCostmap) Footprint() *footprint.Footprint {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.fp
}

// InscribedRadius returns the installed footprint's inscribed radius, or 0
// if no footprint has been set.
func (lc *LayeredCostmap) InscribedRadius() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.fp == nil {
		return 0
	}
	return lc.fp.InscribedRadius
}

// UpdateMap runs one full tick: every layer widens the dirty window in
// registration order, the window is clamped and converted to cell indices,
// the master region is reset, and every layer writes its contribution in
// the same order.
func (lc *LayeredCostmap) UpdateMap(x, y, yaw float64) {
	lc.mu.Lock()
	layers := make([]Layer, len(lc.layers))
	copy(layers, lc.layers)
	lc.mu.Unlock()

	lc.master.Lock()
	defer lc.master.Unlock()

	bounds := EmptyBounds()
	for _, l := range layers {
		l.UpdateBounds(x, y, yaw, &bounds)
	}

	cb := lc.worldBoundsToCellBoundsLocked(bounds)

	if lc.rollingWindow {
		sizeX, sizeY, res := lc.master.SizeX(), lc.master.SizeY(), lc.master.Resolution()
		lc.master.UpdateOrigin(x-float64(sizeX)*res/2, y-float64(sizeY)*res/2)
	}

	lc.master.ResetWindow(cb.MinI, cb.MinJ, cb.MaxI, cb.MaxJ)

	for _, l := range layers {
		if !l.Enabled() {
			continue
		}
		l.UpdateCosts(lc.master, cb.MinI, cb.MinJ, cb.MaxI, cb.MaxJ)
	}

	lc.mu.Lock()
	lc.lastBounds = cb
	lc.initialized = true
	lc.mu.Unlock()
}

// worldBoundsToCellBoundsLocked converts a world-frame Bounds to clamped
// cell indices. Caller must hold lc.master's lock.
func (lc *LayeredCostmap) worldBoundsToCellBoundsLocked(b Bounds) CellBounds {
	if b.IsEmpty() {
		return CellBounds{}
	}
	minI, minJ := lc.master.WorldToMapEnforceBounds(b.MinX, b.MinY)
	maxI, maxJ := lc.master.WorldToMapEnforceBounds(b.MaxX, b.MaxY)
	// WorldToMapEnforceBounds returns an inclusive max index; widen the
	// window to the conventional exclusive [min,max) form LayeredCostmap
	// hands to layers and Grid.ResetWindow.
	maxI++
	maxJ++
	return CellBounds{MinI: minI, MinJ: minJ, MaxI: maxI, MaxJ: maxJ}
}

// Bounds returns the dirty window computed by the most recent UpdateMap
// call, for downstream callers (e.g. CostmapLoop deciding whether to
// publish an incremental update).
func (lc *LayeredCostmap) Bounds() CellBounds {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.lastBounds
}

// IsInitialized reports whether UpdateMap has completed at least once.
func (lc *LayeredCostmap) IsInitialized() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.initialized
}

// Cost implements Reader.
func (lc *LayeredCostmap) Cost(i, j int) byte { return lc.master.GetCost(i, j) }

// WorldToMap implements Reader.
func (lc *LayeredCostmap) WorldToMap(wx, wy float64) (int, int, bool) {
	return lc.master.WorldToMap(wx, wy)
}

// MapToWorld implements Reader.
func (lc *LayeredCostmap) MapToWorld(i, j int) (float64, float64) {
	return lc.master.MapToWorld(i, j)
}

// SizeX implements Reader.
func (lc *LayeredCostmap) SizeX() int { return lc.master.SizeX() }

// SizeY implements Reader.
func (lc *LayeredCostmap) SizeY() int { return lc.master.SizeY() }

// Resolution implements Reader.
func (lc *LayeredCostmap) Resolution() float64 { return lc.master.Resolution() }

// Lock/Unlock/RLock/RUnlock implement Reader by delegating to the master
// grid's mutex.
func (lc *LayeredCostmap) Lock()    { lc.master.Lock() }
func (lc *LayeredCostmap) Unlock()  { lc.master.Unlock() }
func (lc *LayeredCostmap) RLock()   { lc.master.RLock() }
func (lc *LayeredCostmap) RUnlock() { lc.master.RUnlock() }
