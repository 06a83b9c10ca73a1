package transform

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/costmap/costmaperrors"
)

func TestComposeIdentity(t *testing.T) {
	p := Compose(Pose{}, Pose{})
	test.That(t, p, test.ShouldResemble, Pose{})
}

func TestComposeTranslatesThenRotates(t *testing.T) {
	base := Pose{X: 1, Y: 0, Yaw: math.Pi / 2}
	odom := Pose{X: 1, Y: 0, Yaw: 0}
	p := Compose(base, odom)
	test.That(t, p.X, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, p.Yaw, test.ShouldAlmostEqual, math.Pi/2, 1e-9)
}

func TestResolveSucceeds(t *testing.T) {
	baseOdom := func(ctx context.Context) (Pose, bool, error) { return Pose{X: 1}, true, nil }
	odomMap := func(ctx context.Context) (Pose, bool, error) { return Pose{Y: 2}, true, nil }

	p, err := Resolve(context.Background(), baseOdom, odomMap)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.X, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 2.0, 1e-9)
}

func TestResolveFailsOnFalseResult(t *testing.T) {
	baseOdom := func(ctx context.Context) (Pose, bool, error) { return Pose{}, false, nil }
	odomMap := func(ctx context.Context) (Pose, bool, error) { return Pose{}, true, nil }

	_, err := Resolve(context.Background(), baseOdom, odomMap)
	test.That(t, err, test.ShouldNotBeNil)
	var unavailable *costmaperrors.TransformUnavailable
	test.That(t, errors.As(err, &unavailable), test.ShouldBeTrue)
	test.That(t, unavailable.RPC, test.ShouldEqual, "BASE_ODOM_TF")
}

func TestResolveFailsOnOdomMapError(t *testing.T) {
	baseOdom := func(ctx context.Context) (Pose, bool, error) { return Pose{}, true, nil }
	boom := errors.New("transport closed")
	odomMap := func(ctx context.Context) (Pose, bool, error) { return Pose{}, false, boom }

	_, err := Resolve(context.Background(), baseOdom, odomMap)
	test.That(t, err, test.ShouldNotBeNil)
	var unavailable *costmaperrors.TransformUnavailable
	test.That(t, errors.As(err, &unavailable), test.ShouldBeTrue)
	test.That(t, unavailable.RPC, test.ShouldEqual, "ODOM_MAP_TF")
}
