package costmap

import "go.viam.com/costmap/grid"

// ForwardTable is the process-wide constant cost->wire translation table,
// computed once and treated as immutable static data. Index by internal
// cost byte to get the signed wire byte.
var ForwardTable = buildForwardTable()

func buildForwardTable() [256]int8 {
	var t [256]int8
	t[grid.Free] = 0
	t[grid.InscribedInflated] = 99
	t[grid.Lethal] = 100
	t[grid.NoInformation] = -1
	for i := 1; i < 253; i++ {
		t[i] = int8(1 + (97*(i-1))/251)
	}
	return t
}

// Forward translates an internal cost byte into its published wire byte.
func Forward(cost byte) int8 {
	return ForwardTable[cost]
}

// Reverse translates an external static-map byte into an internal cost.
// trackUnknown decides whether an unknown input (-1) becomes NoInformation
// or Free.
//
// Forward's graded-cost branch only ever emits 1..98 (1 + 97*(i-1)/251 for
// i in 1..252 tops out at 98), so 99 is otherwise unreachable except as
// InscribedInflated's published form. 99 is special-cased here rather than
// folded into the linear range so that Forward composed with Reverse is the
// identity on all four reserved values — a real external occupancy source
// saturates at 100 long before 99, so this barely affects static-map
// ingestion in practice.
func Reverse(v int8, trackUnknown bool) byte {
	switch {
	case v == -1:
		if trackUnknown {
			return grid.NoInformation
		}
		return grid.Free
	case v == 0:
		return grid.Free
	case v == 100:
		return grid.Lethal
	case v == 99:
		return grid.InscribedInflated
	case v >= 1 && v <= 98:
		return byte(1 + (int(v)-1)*251/97)
	default:
		// Out-of-contract input; treat conservatively as free rather than
		// panic, since the static-map source contract is external.
		return grid.Free
	}
}
