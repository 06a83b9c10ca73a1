// Package inflation implements the wavefront inflation layer: every lethal
// cell projects a decaying cost outward up to inflation_radius meters,
// computed with a multi-source shortest-path expansion over a precomputed
// distance/cost kernel. The priority queue uses stdlib container/heap.
package inflation

import (
	"container/heap"
	"math"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/costmap/costmap"
	"go.viam.com/costmap/costmaperrors"
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/grid"
	"go.viam.com/costmap/logging"
)

// maxKernelDim bounds the kernel table's side length. A misconfigured
// inflation_radius/resolution pair (e.g. radius in meters, resolution in
// centimeters by mistake) would otherwise try to allocate a kernel with
// billions of entries; cap it, log an AllocationFailure, and drop the kernel
// so the layer writes nothing until a later rebuild fits.
const maxKernelDim = 4096

// Layer is the wavefront inflation layer.
type Layer struct {
	logger logging.Logger

	mu      sync.Mutex
	enabled bool

	resolution        float64
	inflationRadius   float64
	costScalingFactor float64
	inscribedRadius   float64

	cellInflationRadius int
	cachedDistances     [][]float64
	cachedCosts         [][]byte

	seen []bool

	needReinflation bool
	prevBounds      costmap.Bounds

	queue priorityQueue
}

// New constructs an inflation layer with the given parameters. It starts
// with needReinflation set so the first tick always demands the full grid.
func New(inflationRadius, costScalingFactor float64, logger logging.Logger) *Layer {
	return &Layer{
		logger:            logger,
		enabled:           true,
		inflationRadius:   inflationRadius,
		costScalingFactor: costScalingFactor,
		needReinflation:   true,
		prevBounds:        costmap.EmptyBounds(),
	}
}

// Configure updates the inflation_radius and cost_scaling_factor parameters.
// Both are assigned directly to the layer's fields rather than through a
// local shadow variable — an earlier draft of this reconfigure path read
// the parameter into a same-named local and never copied it back into the
// field, so every tick after the first kept re-reading the constructor-time
// default regardless of what Configure was called with since.
func (l *Layer) Configure(inflationRadius, costScalingFactor float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflationRadius = inflationRadius
	l.costScalingFactor = costScalingFactor
	l.needReinflation = true
	if l.resolution > 0 {
		l.recomputeKernelLocked()
	}
}

// Name implements costmap.Layer.
func (l *Layer) Name() string { return "inflation" }

// Enabled implements costmap.Layer.
func (l *Layer) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Current implements costmap.Layer.
func (l *Layer) Current() bool { return true }

// MatchSize implements costmap.Layer: picks up the master grid's resolution
// and forces a kernel recompute, since cell_inflation_radius depends on it.
func (l *Layer) MatchSize(master *grid.Grid) {
	master.RLock()
	resolution := master.Resolution()
	master.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolution = resolution
	l.needReinflation = true
	l.recomputeKernelLocked()
}

// OnFootprintChanged implements costmap.Layer: the inscribed radius drives
// computeCost's first cost tier, so a footprint change forces a recompute.
func (l *Layer) OnFootprintChanged(fp *footprint.Footprint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inscribedRadius = fp.InscribedRadius
	l.needReinflation = true
	if l.resolution > 0 {
		l.recomputeKernelLocked()
	}
}

// recomputeKernelLocked rebuilds cachedDistances/cachedCosts for the
// current cellInflationRadius. Caller must hold l.mu.
func (l *Layer) recomputeKernelLocked() {
	r := int(math.Ceil(l.inflationRadius / l.resolution))
	if r < 0 {
		r = 0
	}
	size := r + 2
	if size > maxKernelDim {
		err := costmaperrors.NewAllocationFailure("inflation kernel",
			errors.Errorf("requested dimension %d exceeds max %d", size, maxKernelDim))
		l.logger.Errorw("inflation disabled until the kernel can be rebuilt", "error", err,
			"inflation_radius", l.inflationRadius, "resolution", l.resolution)
		l.cachedDistances = nil
		l.cachedCosts = nil
		return
	}

	dist := make([][]float64, size)
	costs := make([][]byte, size)
	for i := 0; i < size; i++ {
		dist[i] = make([]float64, size)
		costs[i] = make([]byte, size)
		for j := 0; j < size; j++ {
			d := math.Hypot(float64(i), float64(j))
			dist[i][j] = d
			costs[i][j] = l.computeCostLocked(d)
		}
	}

	l.cellInflationRadius = r
	l.cachedDistances = dist
	l.cachedCosts = costs
}

// computeCostLocked implements the cost function for a kernel-space
// distance d (in cells). Caller must hold l.mu.
func (l *Layer) computeCostLocked(d float64) byte {
	if d == 0 {
		return grid.Lethal
	}
	dm := d * l.resolution
	if dm <= l.inscribedRadius {
		return grid.InscribedInflated
	}
	cost := float64(grid.MaxGradedCost) * math.Exp(-l.costScalingFactor*(dm-l.inscribedRadius))
	if cost < 0 {
		cost = 0
	}
	if cost > float64(grid.MaxGradedCost) {
		cost = float64(grid.MaxGradedCost)
	}
	return byte(math.Floor(cost))
}

// UpdateBounds implements costmap.Layer's bounds negotiation: in both
// branches the bounds this layer received this tick are stashed as
// prevBounds for the *next* tick, before being overwritten.
func (l *Layer) UpdateBounds(x, y, yaw float64, bounds *costmap.Bounds) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}

	received := *bounds

	if l.needReinflation {
		l.prevBounds = received
		*bounds = costmap.FullBounds()
		l.needReinflation = false
		return
	}

	prev := l.prevBounds
	l.prevBounds = received

	merged := costmap.EmptyBounds()
	merged.Widen(prev.MinX, prev.MinY, prev.MaxX, prev.MaxY)
	merged.Widen(received.MinX, received.MinY, received.MaxX, received.MaxY)
	merged.WidenBy(l.inflationRadius)
	*bounds = merged
}

// UpdateCosts implements costmap.Layer's wavefront expansion. Caller must
// already hold master's write lock (LayeredCostmap holds it for the whole
// tick).
func (l *Layer) UpdateCosts(master *grid.Grid, minI, minJ, maxI, maxJ int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.cachedCosts == nil {
		return
	}

	sizeX := master.SizeX()
	sizeY := master.SizeY()
	r := l.cellInflationRadius

	wMinI, wMinJ, wMaxI, wMaxJ := master.ClampWindow(minI-r, minJ-r, maxI+r, maxJ+r)

	total := sizeX * sizeY
	if len(l.seen) != total {
		l.seen = make([]bool, total)
	} else {
		for i := range l.seen {
			l.seen[i] = false
		}
	}

	if l.queue.Len() > 0 {
		err := costmaperrors.NewInvariantViolation("inflation queue nonempty at tick start")
		l.logger.Errorw("invariant violation", "error", err, "queue_len", l.queue.Len())
	}
	l.queue = l.queue[:0]
	for j := wMinJ; j < wMaxJ; j++ {
		for i := wMinI; i < wMaxI; i++ {
			if master.GetCost(i, j) == grid.Lethal {
				idx := master.Index(i, j)
				heap.Push(&l.queue, queueEntry{distance: 0, index: idx, mx: i, my: j, srcX: i, srcY: j})
			}
		}
	}

	kernelMax := len(l.cachedDistances) - 1

	for l.queue.Len() > 0 {
		entry := heap.Pop(&l.queue).(queueEntry)
		if l.seen[entry.index] {
			continue
		}
		l.seen[entry.index] = true

		di := absInt(entry.mx - entry.srcX)
		dj := absInt(entry.my - entry.srcY)
		cost := l.cachedCosts[di][dj]

		cur := master.GetCost(entry.mx, entry.my)
		if cur == grid.NoInformation && cost >= grid.InscribedInflated {
			master.SetCost(entry.mx, entry.my, cost)
		} else if cost > cur {
			master.SetCost(entry.mx, entry.my, cost)
		}

		for _, n := range fourNeighbors(entry.mx, entry.my, sizeX, sizeY) {
			ndi := absInt(n.x - entry.srcX)
			ndj := absInt(n.y - entry.srcY)
			if ndi > kernelMax || ndj > kernelMax {
				continue
			}
			d := l.cachedDistances[ndi][ndj]
			if d > float64(r) {
				continue
			}
			nidx := master.Index(n.x, n.y)
			if l.seen[nidx] {
				continue
			}
			heap.Push(&l.queue, queueEntry{distance: d, index: nidx, mx: n.x, my: n.y, srcX: entry.srcX, srcY: entry.srcY})
		}
	}
}

// Activate implements costmap.Layer.
func (l *Layer) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = true
}

// Deactivate implements costmap.Layer.
func (l *Layer) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
}

type cellCoord struct{ x, y int }

func fourNeighbors(x, y, sizeX, sizeY int) []cellCoord {
	out := make([]cellCoord, 0, 4)
	if x > 0 {
		out = append(out, cellCoord{x - 1, y})
	}
	if x < sizeX-1 {
		out = append(out, cellCoord{x + 1, y})
	}
	if y > 0 {
		out = append(out, cellCoord{x, y - 1})
	}
	if y < sizeY-1 {
		out = append(out, cellCoord{x, y + 1})
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// queueEntry is one wavefront frontier record: the cell it would write
// into, and the lethal source cell it traces back to.
type queueEntry struct {
	distance   float64
	index      int
	mx, my     int
	srcX, srcY int
}

type priorityQueue []queueEntry

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].distance < pq[j].distance }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueEntry)) }

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
