// Package snapshot packs a costmap's master grid into a published
// occupancy-grid wire format and defines the sink a publisher writes it
// to: a value-object-plus-writer split, where Snapshot is produced by
// value and Sink is the only thing that knows how to ship it anywhere.
package snapshot

import (
	"time"

	"go.viam.com/costmap/costmap"
)

// Snapshot is the wire-format export of a costmap tick: metadata plus a
// width*height sequence of signed bytes mapped through costmap.Forward.
type Snapshot struct {
	Stamp      time.Time
	Resolution float64
	Width      int
	Height     int
	OriginX    float64
	OriginY    float64
	Data       []int8
}

// Sink is anything a packed Snapshot can be published to.
type Sink interface {
	Publish(Snapshot) error
}

// Pack takes a consistent read-lock snapshot of reader and translates its
// entire extent through the forward table. Always publishing the full
// extent rather than an incremental window is a deliberate simplification;
// Pack's signature leaves room for a future windowed variant without
// restructuring callers.
func Pack(reader costmap.Reader, stamp time.Time) Snapshot {
	reader.RLock()
	defer reader.RUnlock()

	w, h := reader.SizeX(), reader.SizeY()
	res := reader.Resolution()
	ox, oy := reader.MapToWorld(0, 0)
	// MapToWorld(0,0) returns the center of cell (0,0); back out half a
	// cell to recover the grid's corner origin the wire format expects.
	ox -= res / 2
	oy -= res / 2

	data := make([]int8, w*h)
	for j := 0; j < h; j++ {
		base := j * w
		for i := 0; i < w; i++ {
			data[base+i] = costmap.Forward(reader.Cost(i, j))
		}
	}

	return Snapshot{
		Stamp:      stamp,
		Resolution: res,
		Width:      w,
		Height:     h,
		OriginX:    ox,
		OriginY:    oy,
		Data:       data,
	}
}

// Recorder is an in-memory Sink test double that keeps the most recently
// published Snapshot and a full history, the way a fake publisher in the
// example pack's test files typically does.
type Recorder struct {
	Snapshots []Snapshot
}

// Publish implements Sink.
func (r *Recorder) Publish(s Snapshot) error {
	r.Snapshots = append(r.Snapshots, s)
	return nil
}

// Last returns the most recently published Snapshot, or the zero value
// and false if none has been published yet.
func (r *Recorder) Last() (Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}
