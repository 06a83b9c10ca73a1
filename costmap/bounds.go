package costmap

import "math"

// Bounds is the dirty window in world coordinates that layers negotiate
// during UpdateBounds, before LayeredCostmap converts it to cell indices.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// EmptyBounds returns the (+inf,+inf,-inf,-inf) starting point every tick
// begins from: any real widen() call will shrink MinX/MinY and grow
// MaxX/MaxY away from these sentinels.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// FullBounds returns the ±∞ window a layer demands when it needs the whole
// grid reconsidered (e.g. the inflation layer after a kernel recompute).
func FullBounds() Bounds {
	return Bounds{
		MinX: math.Inf(-1),
		MinY: math.Inf(-1),
		MaxX: math.Inf(1),
		MaxY: math.Inf(1),
	}
}

// Widen grows the receiver to also cover (minX,minY,maxX,maxY).
func (b *Bounds) Widen(minX, minY, maxX, maxY float64) {
	b.MinX = math.Min(b.MinX, minX)
	b.MinY = math.Min(b.MinY, minY)
	b.MaxX = math.Max(b.MaxX, maxX)
	b.MaxY = math.Max(b.MaxY, maxY)
}

// WidenBy widens the receiver by margin on every side.
func (b *Bounds) WidenBy(margin float64) {
	b.MinX -= margin
	b.MinY -= margin
	b.MaxX += margin
	b.MaxY += margin
}

// IsEmpty reports whether the bounds never got widened away from
// EmptyBounds (i.e. no layer touched anything this tick).
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// CellBounds is a dirty window in cell indices: [MinI,MaxI) x [MinJ,MaxJ).
type CellBounds struct {
	MinI, MinJ int
	MaxI, MaxJ int
}
