// Package static implements the one-shot static layer: on first receipt of
// an external occupancy map it adopts the map's resolution/origin/
// dimensions, translates every cell through the reverse table, and marks
// the whole extent dirty. Subsequent ticks reassert the same cells until a
// new static map arrives.
package static

import (
	"sync"
	"time"

	"go.viam.com/costmap/costmap"
	"go.viam.com/costmap/costmaperrors"
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/grid"
	"go.viam.com/costmap/logging"
)

// Map is the external static occupancy map source contract: a timestamped
// snapshot of an occupancy map in {-1,0..100}.
type Map struct {
	Stamp      time.Time
	Resolution float64
	Width      int
	Height     int
	OriginX    float64
	OriginY    float64
	Data       []int8 // row-major, length Width*Height
}

// Layer is the one-shot static layer.
type Layer struct {
	logger logging.Logger

	mu           sync.Mutex
	trackUnknown bool
	enabled      bool
	current      bool
	haveMap      bool
	resolution   float64
	sizeX, sizeY int
	originX      float64
	originY      float64
	stamp        time.Time
	costs        []byte // translated once per incoming map, reasserted every tick

	resizePending bool // true once a map has arrived that the master grid has not yet adopted
}

// New constructs a StaticLayer. trackUnknown controls how an unknown
// input cell (-1) is translated.
func New(trackUnknown bool, logger logging.Logger) *Layer {
	return &Layer{
		logger:       logger,
		trackUnknown: trackUnknown,
		enabled:      true,
	}
}

// SetMap ingests a new external static map. It is safe to call from any
// goroutine; the translated costs are picked up by the next UpdateCosts.
func (l *Layer) SetMap(m Map) error {
	if m.Width <= 0 || m.Height <= 0 {
		return costmaperrors.NewSizeMismatch("static map has non-positive dimensions")
	}
	if len(m.Data) != m.Width*m.Height {
		return costmaperrors.NewSizeMismatch("static map data length does not match width*height")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.haveMap && !m.Stamp.IsZero() && !l.stamp.IsZero() && m.Stamp.Before(l.stamp) {
		l.logger.Warnw("dropping out-of-order static map",
			"stamp", m.Stamp, "current_stamp", l.stamp)
		return nil
	}

	costs := make([]byte, len(m.Data))
	for i, v := range m.Data {
		costs[i] = costmap.Reverse(v, l.trackUnknown)
	}

	l.resolution = m.Resolution
	l.sizeX = m.Width
	l.sizeY = m.Height
	l.originX = m.OriginX
	l.originY = m.OriginY
	l.stamp = m.Stamp
	l.costs = costs
	l.haveMap = true
	l.resizePending = true
	l.current = true
	return nil
}

// MapStamp returns the stamp of the most recently adopted static map, or
// the zero time and false if no map has been received yet.
func (l *Layer) MapStamp() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.haveMap {
		return time.Time{}, false
	}
	return l.stamp, true
}

// PendingResize reports the dimensions a caller (typically the orchestrator
// driving CostmapLoop) should resize the master grid to, once after a new
// static map arrives whose size or resolution the master grid has not yet
// adopted. ok is false once the resize has been consumed.
func (l *Layer) PendingResize() (sizeX, sizeY int, resolution, originX, originY float64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.resizePending {
		return 0, 0, 0, 0, 0, false
	}
	l.resizePending = false
	return l.sizeX, l.sizeY, l.resolution, l.originX, l.originY, true
}

// Name implements costmap.Layer.
func (l *Layer) Name() string { return "static" }

// Enabled implements costmap.Layer.
func (l *Layer) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Current implements costmap.Layer.
func (l *Layer) Current() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// MatchSize implements costmap.Layer. The static layer's own buffer is
// sized by whatever static map it last received, not by the master grid;
// LayeredCostmap is expected to adopt the static map's dimensions via
// Resize when a new map first arrives so the static layer's
// resolution/origin/dimensions take effect.
func (l *Layer) MatchSize(master *grid.Grid) {}

// UpdateBounds widens bounds to the entire static map extent on every tick
// once a map has been received; before that it contributes nothing (the
// static layer never needs de-bounding the way inflation does, since it
// only ever writes cells it already owns).
func (l *Layer) UpdateBounds(x, y, yaw float64, bounds *costmap.Bounds) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.haveMap {
		return
	}
	// Every tick reasserts the same cells until a new map arrives, so the
	// dirty window is always the full static-map extent.
	minX := l.originX
	minY := l.originY
	maxX := l.originX + float64(l.sizeX)*l.resolution
	maxY := l.originY + float64(l.sizeY)*l.resolution
	bounds.Widen(minX, minY, maxX, maxY)
}

// UpdateCosts reasserts every static-map cell that falls within
// [minI,maxI) x [minJ,maxJ) of the master grid, translating its own cell
// coordinates into master's via world coordinates so that a master grid
// with different resolution/origin than the static map still receives the
// right values.
func (l *Layer) UpdateCosts(master *grid.Grid, minI, minJ, maxI, maxJ int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || !l.haveMap {
		return
	}

	for j := minJ; j < maxJ; j++ {
		for i := minI; i < maxI; i++ {
			wx, wy := master.MapToWorld(i, j)
			sx := int((wx - l.originX) / l.resolution)
			sy := int((wy - l.originY) / l.resolution)
			if sx < 0 || sx >= l.sizeX || sy < 0 || sy >= l.sizeY {
				continue
			}
			master.SetCost(i, j, l.costs[sy*l.sizeX+sx])
		}
	}
}

// Activate implements costmap.Layer.
func (l *Layer) Activate() {}

// Deactivate implements costmap.Layer.
func (l *Layer) Deactivate() {}

// OnFootprintChanged implements costmap.Layer; the static layer does not
// depend on the robot footprint.
func (l *Layer) OnFootprintChanged(fp *footprint.Footprint) {}
