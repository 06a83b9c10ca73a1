package footprint

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func square(half float64) []r3.Vector {
	return []r3.Vector{
		{X: half, Y: half},
		{X: half, Y: -half},
		{X: -half, Y: -half},
		{X: -half, Y: half},
	}
}

func TestRadiiOrdering(t *testing.T) {
	fp, err := New(square(0.16))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fp.InscribedRadius, test.ShouldBeLessThanOrEqualTo, fp.CircumscribedRadius)
	test.That(t, fp.InscribedRadius, test.ShouldAlmostEqual, 0.16, 1e-9)
	test.That(t, fp.CircumscribedRadius, test.ShouldAlmostEqual, 0.16*math.Sqrt2, 1e-9)
}

func TestNewRejectsFewerThanThreePoints(t *testing.T) {
	_, err := New([]r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPadLeavesZeroCoordinateAlone(t *testing.T) {
	pts := []r3.Vector{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: -1}}
	padded := Pad(pts, 0.5)
	test.That(t, padded[0].X, test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, padded[0].Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, padded[1].X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, padded[1].Y, test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, padded[2].X, test.ShouldAlmostEqual, -1.5, 1e-9)
	test.That(t, padded[2].Y, test.ShouldAlmostEqual, -1.5, 1e-9)
}

func TestTransformIdentity(t *testing.T) {
	pts := square(0.16)
	out := Transform(0, 0, 0, pts)
	for i := range pts {
		test.That(t, out[i].X, test.ShouldAlmostEqual, pts[i].X, 1e-9)
		test.That(t, out[i].Y, test.ShouldAlmostEqual, pts[i].Y, 1e-9)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	pts := square(0.16)
	x, y, yaw := 1.5, -2.25, math.Pi/3
	forward := Transform(x, y, yaw, pts)
	back := Transform(-x, -y, 0, forward)
	back = Transform(0, 0, -yaw, back)
	for i := range pts {
		test.That(t, back[i].X, test.ShouldAlmostEqual, pts[i].X, 1e-9)
		test.That(t, back[i].Y, test.ShouldAlmostEqual, pts[i].Y, 1e-9)
	}
}

func TestFromStringParsesDefaultFootprint(t *testing.T) {
	pts, err := FromString("[[0.16,0.16],[0.16,-0.16],[-0.16,-0.16],[-0.16,0.16]]")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pts), test.ShouldEqual, 4)
	test.That(t, pts[0].X, test.ShouldAlmostEqual, 0.16, 1e-9)
	test.That(t, pts[2].Y, test.ShouldAlmostEqual, -0.16, 1e-9)
}

func TestFromStringRejectsTooFewPoints(t *testing.T) {
	_, err := FromString("[[0,0],[1,1]]")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromStringRejectsMalformedSyntax(t *testing.T) {
	_, err := FromString("[[0,0],[1,1],not-a-point]")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromStringRejectsNonFinite(t *testing.T) {
	_, err := FromString("[[0,0],[1,NaN],[2,2]]")
	test.That(t, err, test.ShouldNotBeNil)
}
