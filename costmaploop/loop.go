// Package costmaploop implements the periodic pose-driven update loop:
// query pose, tick the layered costmap, republish the world-frame
// footprint, pack and publish a snapshot. Structurally it follows
// services/slam/builtin's goroutine-plus-ticker service loop.
package costmaploop

import (
	"context"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	goutils "go.viam.com/utils"

	"go.viam.com/costmap/costmap"
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/logging"
	"go.viam.com/costmap/snapshot"
	"go.viam.com/costmap/transform"
)

// FootprintSink receives the robot's footprint (as installed with
// LayeredCostmap.SetFootprint) transformed into world frame on every tick.
type FootprintSink interface {
	Publish(points []r3.Vector) error
}

// Loop drives LayeredCostmap.UpdateMap at map_update_frequency Hz. Unlike a
// general worker pool, a Loop only ever runs its own run method on a single
// goroutine, so its lifecycle is a plain cancel-and-join rather than a
// reusable multi-worker abstraction.
type Loop struct {
	logger logging.Logger

	lc            *costmap.LayeredCostmap
	baseOdomTF    transform.PoseSource
	odomMapTF     transform.PoseSource
	snapshotSink  snapshot.Sink
	footprintSink FootprintSink
	period        time.Duration

	mu                  sync.Mutex
	consecutiveFailures int
	cancel              context.CancelFunc
	stopped             chan struct{}
}

// New constructs a Loop. footprintSink may be nil if the caller does not
// need world-frame footprint republication.
func New(
	lc *costmap.LayeredCostmap,
	baseOdomTF, odomMapTF transform.PoseSource,
	snapshotSink snapshot.Sink,
	footprintSink FootprintSink,
	updateFrequencyHz float64,
	logger logging.Logger,
) *Loop {
	period := time.Second
	if updateFrequencyHz > 0 {
		period = time.Duration(float64(time.Second) / updateFrequencyHz)
	}
	return &Loop{
		logger:        logger,
		lc:            lc,
		baseOdomTF:    baseOdomTF,
		odomMapTF:     odomMapTF,
		snapshotSink:  snapshotSink,
		footprintSink: footprintSink,
		period:        period,
	}
}

// Period returns the computed tick interval, derived from
// map_update_frequency.
func (l *Loop) Period() time.Duration { return l.period }

// Start begins the periodic update loop on a dedicated goroutine. It is
// safe to call once; calling it again after Stop starts a fresh goroutine.
// Panics inside run are captured rather than taking down the process, the
// way every long-running rdk service goroutine is started.
func (l *Loop) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	l.mu.Lock()
	l.cancel = cancel
	l.stopped = stopped
	l.mu.Unlock()

	goutils.PanicCapturingGo(func() {
		defer close(stopped)
		l.run(ctx)
	})
}

// Stop cancels the loop and waits for the in-flight tick, if any, to
// finish; no mid-tick abort happens.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, stopped := l.cancel, l.stopped
	l.cancel, l.stopped = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (l *Loop) run(ctx context.Context) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs exactly one update iteration. Any
// transform failure skips the remainder of the tick and leaves the master
// grid byte-for-byte as it was.
func (l *Loop) tick(ctx context.Context) {
	pose, err := transform.Resolve(ctx, l.baseOdomTF, l.odomMapTF)
	if err != nil {
		l.onTransformFailure(err)
		return
	}
	l.onTransformSuccess()

	l.lc.UpdateMap(pose.X, pose.Y, pose.Yaw)

	if l.footprintSink != nil {
		if fp := l.lc.Footprint(); fp != nil {
			world := footprint.Transform(pose.X, pose.Y, pose.Yaw, fp.Points)
			if err := l.footprintSink.Publish(world); err != nil {
				l.logger.Errorw("failed to publish footprint", "error", err)
			}
		}
	}

	snap := snapshot.Pack(l.lc, time.Now())
	if err := l.snapshotSink.Publish(snap); err != nil {
		l.logger.Errorw("failed to publish costmap snapshot", "error", err)
	}
}

// onTransformFailure counts the failure and logs at a frequency that decays
// relative to the loop's own tick cadence (every 1st, 2nd, 4th, 8th, ...
// consecutive miss), rather than on a wall-clock timer. The loop already
// ticks at map_update_frequency, so throttling by consecutive-failure count
// piggybacks on that cadence instead of running a second ticker goroutine
// just to decide when to log.
func (l *Loop) onTransformFailure(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consecutiveFailures++
	if isPowerOfTwo(l.consecutiveFailures) {
		l.logger.Warnw("pose transform unavailable, skipping tick",
			"error", err.Error(), "consecutive_failures", l.consecutiveFailures)
	}
}

func (l *Loop) onTransformSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consecutiveFailures = 0
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
