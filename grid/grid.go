// Package grid implements the dense row-major byte grid shared by every
// costmap layer: world<->cell coordinate math, resize, and rectangle blits.
// It is grounded on go.viam.com/rdk's pattern of a small value type guarded
// by its own mutex (cf. spatialmath's lazily-computed, mutex-protected
// fields), since the grid's buffer is the one piece of state every layer and
// every reader touches concurrently.
package grid

import (
	"fmt"
	"math"
	"sync"
)

// Reserved cost values. 1..252 are graded costs; higher means more
// dangerous.
const (
	Free              byte = 0
	InscribedInflated byte = 253
	Lethal            byte = 254
	NoInformation     byte = 255
	MaxGradedCost     byte = 252
	MinGradedCost     byte = 1
)

// Grid is a dense occupancy cost grid in row-major (x,y) -> y*size_x+x
// order. The zero value is not usable; construct with New or Resize.
type Grid struct {
	mu sync.RWMutex

	resolution float64
	sizeX      int
	sizeY      int
	originX    float64
	originY    float64
	defaultVal byte

	data []byte
}

// New constructs an empty grid of the given size. resolution is meters per
// cell; originX/originY are the world coordinates of cell (0,0)'s corner.
func New(sizeX, sizeY int, resolution, originX, originY float64, defaultVal byte) *Grid {
	g := &Grid{}
	g.doResize(sizeX, sizeY, resolution, originX, originY, defaultVal)
	return g
}

// Lock/Unlock/RLock/RUnlock expose the grid's mutex directly. Go's
// sync.RWMutex is not reentrant, so every other method on Grid assumes the
// caller already holds the appropriate lock rather than taking it itself —
// LayeredCostmap.UpdateMap holds the write lock for an entire tick while
// layers call GetCost/SetCost/SizeX/etc. on the same goroutine, and a
// second internal Lock() call there would deadlock. Top-level, standalone
// calls (Resize, Reset, CopyWindow) are the exception: they are never
// invoked while a caller already holds the lock, so they take it
// themselves for convenience.
func (g *Grid) Lock()    { g.mu.Lock() }
func (g *Grid) Unlock()  { g.mu.Unlock() }
func (g *Grid) RLock()   { g.mu.RLock() }
func (g *Grid) RUnlock() { g.mu.RUnlock() }

// Resize reallocates the buffer, filling it with defaultVal, and rewrites
// resolution/origin. It is never called while the caller already holds the
// grid's lock, so it takes it itself.
func (g *Grid) Resize(sizeX, sizeY int, resolution, originX, originY float64, defaultVal byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doResize(sizeX, sizeY, resolution, originX, originY, defaultVal)
}

func (g *Grid) doResize(sizeX, sizeY int, resolution, originX, originY float64, defaultVal byte) {
	g.sizeX = sizeX
	g.sizeY = sizeY
	g.resolution = resolution
	g.originX = originX
	g.originY = originY
	g.defaultVal = defaultVal
	g.data = make([]byte, sizeX*sizeY)
	for i := range g.data {
		g.data[i] = defaultVal
	}
}

// Reset fills the whole buffer with the grid's default value without
// reallocating. Like Resize, it is a standalone call and takes the lock
// itself.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.data {
		g.data[i] = g.defaultVal
	}
}

// ResetWindow fills only the rectangle [minI,maxI) x [minJ,maxJ) with the
// grid's default value. Bounds are clamped to the grid extent. Called by
// LayeredCostmap.UpdateMap while it already holds the write lock; the
// caller must hold it.
func (g *Grid) ResetWindow(minI, minJ, maxI, maxJ int) {
	minI, minJ, maxI, maxJ = g.clampWindowLocked(minI, minJ, maxI, maxJ)
	for j := minJ; j < maxJ; j++ {
		base := j * g.sizeX
		for i := minI; i < maxI; i++ {
			g.data[base+i] = g.defaultVal
		}
	}
}

func (g *Grid) clampWindowLocked(minI, minJ, maxI, maxJ int) (int, int, int, int) {
	if minI < 0 {
		minI = 0
	}
	if minJ < 0 {
		minJ = 0
	}
	if maxI > g.sizeX {
		maxI = g.sizeX
	}
	if maxJ > g.sizeY {
		maxJ = g.sizeY
	}
	return minI, minJ, maxI, maxJ
}

// ClampWindow clamps a candidate dirty window to the grid extent. Caller
// must hold at least a read lock.
func (g *Grid) ClampWindow(minI, minJ, maxI, maxJ int) (int, int, int, int) {
	return g.clampWindowLocked(minI, minJ, maxI, maxJ)
}

// SizeX returns the width in cells. Caller must hold at least a read lock.
func (g *Grid) SizeX() int { return g.sizeX }

// SizeY returns the height in cells. Caller must hold at least a read lock.
func (g *Grid) SizeY() int { return g.sizeY }

// Resolution returns meters per cell. Caller must hold at least a read lock.
func (g *Grid) Resolution() float64 { return g.resolution }

// Origin returns the world coordinates of cell (0,0)'s corner. Caller must
// hold at least a read lock.
func (g *Grid) Origin() (float64, float64) { return g.originX, g.originY }

// DefaultValue returns the fill value used by Resize/Reset. Caller must
// hold at least a read lock.
func (g *Grid) DefaultValue() byte { return g.defaultVal }

// Index returns the row-major buffer offset for cell (i,j). Callers must
// already hold a read or write lock; it does not bounds-check.
func (g *Grid) Index(i, j int) int {
	return j*g.sizeX + i
}

// GetCost returns the cost stored at cell (i,j). Caller must hold at least
// a read lock.
func (g *Grid) GetCost(i, j int) byte {
	return g.data[g.Index(i, j)]
}

// SetCost writes c into cell (i,j). Caller must hold the write lock.
func (g *Grid) SetCost(i, j int, c byte) {
	g.data[g.Index(i, j)] = c
}

// GetCharMap returns the raw backing buffer. The caller must hold the
// grid's lock (via Lock/RLock) for the duration of any access, since the
// slice aliases Grid's internal storage and Resize can replace it.
func (g *Grid) GetCharMap() []byte {
	return g.data
}

// MapToWorld converts cell indices to the world coordinate of the cell's
// center. Callers must already hold a lock.
func (g *Grid) MapToWorld(mx, my int) (float64, float64) {
	wx := g.originX + (float64(mx)+0.5)*g.resolution
	wy := g.originY + (float64(my)+0.5)*g.resolution
	return wx, wy
}

// WorldToMap converts a world coordinate to cell indices, returning ok=false
// if the point falls outside the grid.
func (g *Grid) WorldToMap(wx, wy float64) (mx, my int, ok bool) {
	if wx < g.originX || wy < g.originY {
		return 0, 0, false
	}
	mx = int(math.Floor((wx - g.originX) / g.resolution))
	my = int(math.Floor((wy - g.originY) / g.resolution))
	if mx >= g.sizeX || my >= g.sizeY {
		return 0, 0, false
	}
	return mx, my, true
}

// WorldToMapEnforceBounds behaves like WorldToMap but clamps to
// [0,size-1] instead of failing. wx/wy may be ±Inf (layers request the
// whole grid this way when they need full reinflation); infinities are
// clamped directly rather than run through float->int conversion, which
// Go leaves implementation-defined for non-finite inputs.
func (g *Grid) WorldToMapEnforceBounds(wx, wy float64) (mx, my int) {
	mx = worldToCellEnforceBounds(wx, g.originX, g.resolution, g.sizeX)
	my = worldToCellEnforceBounds(wy, g.originY, g.resolution, g.sizeY)
	return mx, my
}

func worldToCellEnforceBounds(w, origin, resolution float64, size int) int {
	if math.IsInf(w, -1) {
		return 0
	}
	if math.IsInf(w, 1) {
		return size - 1
	}
	c := int(math.Floor((w - origin) / resolution))
	if c < 0 {
		c = 0
	}
	if c >= size {
		c = size - 1
	}
	return c
}

// CopyWindow blits a w x h rectangle from src, anchored at (sx,sy) in src's
// cell space, into the receiver at (dx,dy). Standalone call; takes the
// lock(s) itself. Never called with the source and destination swapped
// concurrently, so a fixed dst-then-src lock order is safe.
func (g *Grid) CopyWindow(src *Grid, sx, sy, w, h, dx, dy int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if src != g {
		src.mu.RLock()
		defer src.mu.RUnlock()
	}

	for row := 0; row < h; row++ {
		srcJ := sy + row
		dstJ := dy + row
		if srcJ < 0 || srcJ >= src.sizeY || dstJ < 0 || dstJ >= g.sizeY {
			continue
		}
		for col := 0; col < w; col++ {
			srcI := sx + col
			dstI := dx + col
			if srcI < 0 || srcI >= src.sizeX || dstI < 0 || dstI >= g.sizeX {
				continue
			}
			g.data[dstJ*g.sizeX+dstI] = src.data[srcJ*src.sizeX+srcI]
		}
	}
}

// UpdateOrigin shifts the grid's origin to (newOriginX, newOriginY),
// snapped down (floor) to a whole-cell offset from the old origin, preserving whatever overlap remains
// between the old and new windows and filling the rest with the grid's
// default value. Caller must hold the write lock; it is called mid-tick by
// LayeredCostmap.UpdateMap when rollingWindow is set, so it cannot take the
// lock itself the way Resize does.
func (g *Grid) UpdateOrigin(newOriginX, newOriginY float64) {
	cellOx := int(math.Floor((newOriginX - g.originX) / g.resolution))
	cellOy := int(math.Floor((newOriginY - g.originY) / g.resolution))
	if cellOx == 0 && cellOy == 0 {
		return
	}

	snappedOriginX := g.originX + float64(cellOx)*g.resolution
	snappedOriginY := g.originY + float64(cellOy)*g.resolution

	lowerX := clampInt(cellOx, 0, g.sizeX)
	lowerY := clampInt(cellOy, 0, g.sizeY)
	upperX := clampInt(cellOx+g.sizeX, 0, g.sizeX)
	upperY := clampInt(cellOy+g.sizeY, 0, g.sizeY)
	overlapW := upperX - lowerX
	overlapH := upperY - lowerY

	var saved []byte
	if overlapW > 0 && overlapH > 0 {
		saved = make([]byte, overlapW*overlapH)
		for row := 0; row < overlapH; row++ {
			srcBase := (lowerY + row) * g.sizeX
			copy(saved[row*overlapW:(row+1)*overlapW], g.data[srcBase+lowerX:srcBase+lowerX+overlapW])
		}
	}

	for i := range g.data {
		g.data[i] = g.defaultVal
	}
	g.originX = snappedOriginX
	g.originY = snappedOriginY

	if overlapW <= 0 || overlapH <= 0 {
		return
	}
	startX := lowerX - cellOx
	startY := lowerY - cellOy
	for row := 0; row < overlapH; row++ {
		dstBase := (startY + row) * g.sizeX
		copy(g.data[dstBase+startX:dstBase+startX+overlapW], saved[row*overlapW:(row+1)*overlapW])
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// String formats the grid's metadata. Caller must hold at least a read
// lock.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d @ %.4fm/cell, origin=(%.3f,%.3f))", g.sizeX, g.sizeY, g.resolution, g.originX, g.originY)
}
