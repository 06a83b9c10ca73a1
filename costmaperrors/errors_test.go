package costmaperrors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"go.viam.com/test"
)

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("inflation_radius", "must be positive")
	test.That(t, err.Error(), test.ShouldContainSubstring, "inflation_radius")
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be positive")
}

func TestNewTransformUnavailable(t *testing.T) {
	cause := pkgerrors.New("rpc deadline exceeded")
	err := NewTransformUnavailable("BaseOdomTF", cause)
	test.That(t, err.Error(), test.ShouldContainSubstring, "BaseOdomTF")
	test.That(t, err.Error(), test.ShouldContainSubstring, "rpc deadline exceeded")
	test.That(t, pkgerrors.Unwrap(err), test.ShouldEqual, cause)

	noCause := NewTransformUnavailable("OdomMapTF", nil)
	test.That(t, noCause.Error(), test.ShouldContainSubstring, "OdomMapTF")
}

func TestNewSizeMismatch(t *testing.T) {
	err := NewSizeMismatch("static map data length does not match width*height")
	test.That(t, err.Error(), test.ShouldContainSubstring, "size mismatch")
	test.That(t, err.Error(), test.ShouldContainSubstring, "width*height")
}

func TestNewAllocationFailure(t *testing.T) {
	cause := pkgerrors.New("requested dimension 8192 exceeds max 4096")
	err := NewAllocationFailure("inflation kernel", cause)
	test.That(t, err.Error(), test.ShouldContainSubstring, "inflation kernel")
	test.That(t, err.Error(), test.ShouldContainSubstring, "exceeds max")
	test.That(t, pkgerrors.Unwrap(err), test.ShouldEqual, cause)

	noCause := NewAllocationFailure("seen buffer", nil)
	test.That(t, noCause.Error(), test.ShouldContainSubstring, "seen buffer")
}

func TestNewInvariantViolation(t *testing.T) {
	err := NewInvariantViolation("inflation queue nonempty at tick start")
	test.That(t, err.Error(), test.ShouldContainSubstring, "invariant violation")
	test.That(t, err.Error(), test.ShouldContainSubstring, "queue nonempty")
}

func TestWrap(t *testing.T) {
	cause := pkgerrors.New("malformed xml")
	err := Wrap(cause, "failed to load costmap.xml")
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to load costmap.xml")
	test.That(t, err.Error(), test.ShouldContainSubstring, "malformed xml")
	test.That(t, pkgerrors.Cause(err), test.ShouldEqual, cause)
}
