package costmap

import (
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/grid"
)

// Layer is the capability set every costmap layer implements: a
// polymorphic entity that writes only into the master grid region it is
// handed during UpdateCosts. Variants in this module are StaticLayer and
// InflationLayer; LayeredCostmap never needs to know which.
type Layer interface {
	// Name identifies the layer for logging.
	Name() string

	// Enabled reports whether the layer currently participates in ticks.
	Enabled() bool

	// Current reports whether the layer's view of the world is up to date.
	// The static layer reports false until its first map arrives; the
	// inflation layer always reports true.
	Current() bool

	// MatchSize is called whenever the master grid's size or resolution
	// changes, so the layer can resize its own internal buffers (kernels,
	// scratch bitmaps) to match.
	MatchSize(master *grid.Grid)

	// UpdateBounds widens bounds to cover whatever this layer intends to
	// write during UpdateCosts, given the robot's current world pose.
	UpdateBounds(x, y, yaw float64, bounds *Bounds)

	// UpdateCosts writes this layer's contribution into master, restricted
	// to the cell rectangle [minI,maxI) x [minJ,maxJ).
	UpdateCosts(master *grid.Grid, minI, minJ, maxI, maxJ int)

	// Activate/Deactivate are lifecycle hooks most layers no-op.
	Activate()
	Deactivate()

	// OnFootprintChanged is called whenever LayeredCostmap.SetFootprint
	// installs a new footprint and recomputed radii.
	OnFootprintChanged(fp *footprint.Footprint)
}

// Reader is the read-side interface a global planner consumes: a planner
// never needs LayeredCostmap's write-side methods (AddLayer, SetFootprint,
// UpdateMap), only a stable way to read cost values and coordinate-transform
// against the current grid.
type Reader interface {
	// Cost returns the cost at cell (i,j). Callers must hold Lock/RLock for
	// the duration of any multi-cell read.
	Cost(i, j int) byte

	// WorldToMap converts a world coordinate into cell indices.
	WorldToMap(wx, wy float64) (i, j int, ok bool)

	// MapToWorld converts cell indices into the world coordinate of the
	// cell's center.
	MapToWorld(i, j int) (wx, wy float64)

	// SizeX/SizeY report the grid extent in cells.
	SizeX() int
	SizeY() int

	// Resolution reports meters per cell.
	Resolution() float64

	// Bounds returns the dirty window computed by the most recent
	// UpdateMap call.
	Bounds() CellBounds

	// IsInitialized reports whether UpdateMap has completed at least once.
	IsInitialized() bool

	// Lock/Unlock/RLock/RUnlock guard the underlying grid so an external
	// reader can take a consistent snapshot across several calls above.
	Lock()
	Unlock()
	RLock()
	RUnlock()
}
