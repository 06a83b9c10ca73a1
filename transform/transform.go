// Package transform wraps the two named pose RPCs CostmapLoop depends on
// and the rigid-transform composition it performs on their results,
// reduced to the ground-plane (x, y, yaw) case the costmap actually needs.
package transform

import (
	"context"
	"math"

	"go.viam.com/costmap/costmaperrors"
)

// Pose is a 2D rigid transform: translation (X, Y) plus a yaw rotation,
// matching the ground-plane pose CostmapLoop feeds into
// LayeredCostmap.UpdateMap and footprint.Transform.
type Pose struct {
	X, Y, Yaw float64
}

// PoseSource is an RPC-style callable matching the pose RPC contract:
// `{transform: rigid6dof, result: bool}`. A false ok or a non-nil err
// both mean the transform is unavailable for this tick.
type PoseSource func(ctx context.Context) (Pose, bool, error)

// Compose combines two RPC-sourced transforms into a single world pose,
// applying odom*map multiplication order rather than the more common
// map*odom_inverse planning convention — named arguments document which
// RPC result goes where so a caller that later verifies this against the
// transform collaborator's actual orientation only has to change the
// body, not every call site.
//
// baseOdomTF is the BASE_ODOM_TF RPC result (queried first);
// odomMapTF is the ODOM_MAP_TF RPC result (queried second). The composed
// pose applies odomMapTF's rotation/translation first, then baseOdomTF's,
// matching matrix notation baseOdomTF * odomMapTF.
func Compose(baseOdomTF, odomMapTF Pose) Pose {
	c, s := math.Cos(baseOdomTF.Yaw), math.Sin(baseOdomTF.Yaw)
	return Pose{
		X:   baseOdomTF.X + c*odomMapTF.X - s*odomMapTF.Y,
		Y:   baseOdomTF.Y + s*odomMapTF.X + c*odomMapTF.Y,
		Yaw: baseOdomTF.Yaw + odomMapTF.Yaw,
	}
}

// Resolve queries both RPCs in the documented order and composes the
// result. It returns costmaperrors.TransformUnavailable (never a bare RPC
// error) so CostmapLoop can treat every failure mode — transport error or
// a false result — identically: skip this tick and continue.
func Resolve(ctx context.Context, baseOdomTF, odomMapTF PoseSource) (Pose, error) {
	bo, ok, err := baseOdomTF(ctx)
	if err != nil {
		return Pose{}, costmaperrors.NewTransformUnavailable("BASE_ODOM_TF", err)
	}
	if !ok {
		return Pose{}, costmaperrors.NewTransformUnavailable("BASE_ODOM_TF", nil)
	}

	om, ok, err := odomMapTF(ctx)
	if err != nil {
		return Pose{}, costmaperrors.NewTransformUnavailable("ODOM_MAP_TF", err)
	}
	if !ok {
		return Pose{}, costmaperrors.NewTransformUnavailable("ODOM_MAP_TF", nil)
	}

	return Compose(bo, om), nil
}
