package paramstore

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestTypedGettersFallBackToDefault(t *testing.T) {
	am := AttributeMap{}
	test.That(t, am.GetString("missing", "dflt"), test.ShouldEqual, "dflt")
	test.That(t, am.GetInt("missing", 7), test.ShouldEqual, 7)
	test.That(t, am.GetFloat64("missing", 0.5), test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, am.GetBool("missing", true), test.ShouldBeTrue)
}

func TestTypedGettersReadPresentValues(t *testing.T) {
	am := AttributeMap{
		"name":  "static",
		"count": 3,
		"speed": 1.5,
		"on":    true,
	}
	test.That(t, am.GetString("name", ""), test.ShouldEqual, "static")
	test.That(t, am.GetInt("count", 0), test.ShouldEqual, 3)
	test.That(t, am.GetFloat64("speed", 0), test.ShouldAlmostEqual, 1.5, 1e-9)
	test.That(t, am.GetBool("on", false), test.ShouldBeTrue)
}

func TestGetIntAcceptsFloat64(t *testing.T) {
	am := AttributeMap{"n": 4.0}
	test.That(t, am.GetInt("n", 0), test.ShouldEqual, 4)
}

func TestGetBoolAcceptsNumericZeroOrOne(t *testing.T) {
	am := AttributeMap{"flag": 1}
	test.That(t, am.GetBool("flag", false), test.ShouldBeTrue)
	am["flag"] = 0
	test.That(t, am.GetBool("flag", true), test.ShouldBeFalse)
}

func TestGetStringPanicsOnTypeMismatch(t *testing.T) {
	am := AttributeMap{"n": 3}
	defer func() {
		r := recover()
		test.That(t, r, test.ShouldNotBeNil)
	}()
	am.GetString("n", "")
}

func TestCheckFiniteReportsNonFiniteKey(t *testing.T) {
	am := AttributeMap{"ok": 1.0}
	test.That(t, am.CheckFinite(), test.ShouldEqual, "")
	test.That(t, am.Finite(), test.ShouldBeTrue)

	am["bad"] = math.Inf(1)
	test.That(t, am.CheckFinite(), test.ShouldEqual, "bad")
	test.That(t, am.Finite(), test.ShouldBeFalse)
}
