package inflation

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/costmap/costmap"
	"go.viam.com/costmap/footprint"
	"go.viam.com/costmap/grid"
	"go.viam.com/costmap/logging"
)

func TestZeroRadiusIsNoOp(t *testing.T) {
	master := grid.New(5, 5, 1.0, 0, 0, grid.Free)
	master.SetCost(2, 2, grid.Lethal)

	l := New(0, 10.0, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 0.1})
	l.UpdateCosts(master, 0, 0, 5, 5)

	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			if i == 2 && j == 2 {
				test.That(t, master.GetCost(i, j), test.ShouldEqual, grid.Lethal)
				continue
			}
			test.That(t, master.GetCost(i, j), test.ShouldEqual, grid.Free)
		}
	}
}

func TestSmallInflationHalo(t *testing.T) {
	master := grid.New(7, 7, 1.0, 0, 0, grid.Free)
	master.SetCost(3, 3, grid.Lethal)

	l := New(2.0, 1.0, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 0.5})
	l.UpdateCosts(master, 0, 0, 7, 7)

	test.That(t, master.GetCost(3, 3), test.ShouldEqual, grid.Lethal)

	for _, n := range [][2]int{{2, 3}, {4, 3}, {3, 2}, {3, 4}} {
		test.That(t, master.GetCost(n[0], n[1]), test.ShouldEqual, byte(152))
	}
	for _, n := range [][2]int{{2, 2}, {4, 4}, {2, 4}, {4, 2}} {
		test.That(t, master.GetCost(n[0], n[1]), test.ShouldEqual, byte(101))
	}

	test.That(t, master.GetCost(0, 0), test.ShouldEqual, grid.Free)
}

func TestKernelRecomputeForcesFullBoundsAndExtendsInflation(t *testing.T) {
	master := grid.New(7, 7, 1.0, 0, 0, grid.Free)
	master.SetCost(3, 3, grid.Lethal)

	l := New(0.55, 1.0, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 0.1})

	bounds := costmap.EmptyBounds()
	l.UpdateBounds(0, 0, 0, &bounds)
	test.That(t, math.IsInf(bounds.MinX, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(bounds.MaxX, 1), test.ShouldBeTrue)

	l.UpdateCosts(master, 0, 0, 7, 7)
	test.That(t, master.GetCost(1, 3), test.ShouldEqual, grid.Free)

	l.Configure(1.10, 1.0)

	bounds = costmap.EmptyBounds()
	bounds.Widen(2, 2, 4, 4)
	l.UpdateBounds(0, 0, 0, &bounds)
	test.That(t, math.IsInf(bounds.MinX, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(bounds.MaxX, 1), test.ShouldBeTrue)

	l.UpdateCosts(master, 0, 0, 7, 7)
	test.That(t, master.GetCost(1, 3), test.ShouldNotEqual, grid.Free)
}

func TestUpdateBoundsWidensReceivedAndPreviousByInflationRadius(t *testing.T) {
	master := grid.New(10, 10, 1.0, 0, 0, grid.Free)

	l := New(1.5, 1.0, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 0.1})

	// Consume the forced-full-bounds tick from MatchSize/OnFootprintChanged.
	first := costmap.EmptyBounds()
	l.UpdateBounds(0, 0, 0, &first)

	received := costmap.EmptyBounds()
	received.Widen(2, 2, 4, 4)
	l.UpdateBounds(0, 0, 0, &received)

	test.That(t, received.MinX, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, received.MinY, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, received.MaxX, test.ShouldAlmostEqual, 5.5, 1e-9)
	test.That(t, received.MaxY, test.ShouldAlmostEqual, 5.5, 1e-9)
}

func TestUnknownAdjacentCellIsOverriddenNotMaxed(t *testing.T) {
	master := grid.New(7, 7, 1.0, 0, 0, grid.NoInformation)
	master.SetCost(5, 4, grid.Lethal)

	l := New(1.0, 0.5, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 1.0})
	l.UpdateCosts(master, 0, 0, 7, 7)

	test.That(t, master.GetCost(5, 5), test.ShouldEqual, grid.InscribedInflated)
	test.That(t, master.GetCost(0, 0), test.ShouldEqual, grid.NoInformation)
}

func TestLethalAtCornerDoesNotReadOutOfBounds(t *testing.T) {
	master := grid.New(3, 3, 1.0, 0, 0, grid.Free)
	master.SetCost(0, 0, grid.Lethal)

	l := New(5.0, 1.0, logging.NewTestLogger(t))
	l.MatchSize(master)
	l.OnFootprintChanged(&footprint.Footprint{InscribedRadius: 0.1})

	l.UpdateCosts(master, 0, 0, 3, 3)
	test.That(t, master.GetCost(0, 0), test.ShouldEqual, grid.Lethal)
	test.That(t, master.GetCost(2, 2), test.ShouldNotEqual, grid.Free)
}
