package allocation

import "sort"

// Parallel picks exactly min(quantity, eligible) units, one ticket per unit,
// exhausting each period (ordered by owner) before moving to the next one.
func Parallel(units []Unit, quantity int, anchor *Window) []Unit {
	if quantity <= 0 {
		return nil
	}

	candidates := eligible(units, anchor)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return compareOwner(a.OwnerID, b.OwnerID) < 0
	})

	if len(candidates) > quantity {
		candidates = candidates[:quantity]
	}
	return candidates
}
