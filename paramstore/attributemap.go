// Package paramstore is the typed key/value parameter lookup consumed by the
// costmap and inflation layer configuration. It is deliberately independent
// of any particular file format: AttributeMap is populated once (from XML,
// in this module's case — see xml.go) and then read through typed getters
// that fall back to caller-supplied defaults.
package paramstore

import (
	"fmt"
	"math"
)

// AttributeMap is a loosely-typed parameter bag, following
// go.viam.com/rdk/api's AttributeMap: a plain map with typed accessors that
// return a caller-supplied default when a key is absent, and panic when a
// key is present but holds a value of the wrong type.
type AttributeMap map[string]interface{}

// Has reports whether name has an entry at all.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// GetString returns the string stored at name, or def if absent.
func (am AttributeMap) GetString(name, def string) string {
	x, has := am[name]
	if !has {
		return def
	}
	s, ok := x.(string)
	if !ok {
		panic(fmt.Errorf("wanted a string for (%s) but got (%v) %T", name, x, x))
	}
	return s
}

// GetInt returns the int stored at name, or def if absent.
func (am AttributeMap) GetInt(name string, def int) int {
	x, has := am[name]
	if !has {
		return def
	}
	switch v := x.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		panic(fmt.Errorf("wanted an int for (%s) but got (%v) %T", name, x, x))
	}
}

// GetFloat64 returns the float64 stored at name, or def if absent.
func (am AttributeMap) GetFloat64(name string, def float64) float64 {
	x, has := am[name]
	if !has {
		return def
	}
	switch v := x.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		panic(fmt.Errorf("wanted a float64 for (%s) but got (%v) %T", name, x, x))
	}
}

// GetBool returns the bool stored at name, or def if absent. As in the
// source XML format, "1"/"0" are accepted in addition to native bools.
func (am AttributeMap) GetBool(name string, def bool) bool {
	x, has := am[name]
	if !has {
		return def
	}
	switch v := x.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		panic(fmt.Errorf("wanted a bool for (%s) but got (%v) %T", name, x, x))
	}
}

// Finite reports whether every value currently in the map that is a
// float64 is finite. CheckFinite is the form that names the offending key;
// LoadFile calls it after parsing so a malformed numeric parameter is
// caught at startup rather than propagating NaN/Inf into the costmap.
func (am AttributeMap) Finite() bool {
	for _, v := range am {
		if f, ok := v.(float64); ok && !finite(f) {
			return false
		}
	}
	return true
}

// CheckFinite returns the first key holding a non-finite float64 value,
// or "" if all numeric values are finite.
func (am AttributeMap) CheckFinite() string {
	for k, v := range am {
		if f, ok := v.(float64); ok && !finite(f) {
			return k
		}
	}
	return ""
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
