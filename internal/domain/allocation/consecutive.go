package allocation

import (
	"sort"

	"github.com/google/uuid"
)

// Consecutive returns quantity units of a single owner whose ranges chain
// end-to-start, or found=false. It never returns a partial chain.
func Consecutive(units []Unit, quantity int, anchor *Window) ([]Unit, bool) {
	if quantity <= 0 {
		return nil, false
	}

	byOwner := make(map[uuid.UUID][]Unit)
	owners := make([]uuid.UUID, 0)
	for _, u := range eligible(units, anchor) {
		if _, seen := byOwner[u.OwnerID]; !seen {
			owners = append(owners, u.OwnerID)
		}
		byOwner[u.OwnerID] = append(byOwner[u.OwnerID], u)
	}
	sort.SliceStable(owners, func(i, j int) bool {
		return compareOwner(owners[i], owners[j]) < 0
	})

	for _, owner := range owners {
		if chain := findChain(byOwner[owner], quantity); chain != nil {
			return chain, true
		}
	}
	return nil, false
}

func findChain(units []Unit, quantity int) []Unit {
	if len(units) < quantity {
		return nil
	}
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Start.Before(units[j].Start)
	})

	for i := range units {
		chain := []Unit{units[i]}
		if quantity == 1 {
			return chain
		}
		tail := units[i]
		for j := i + 1; j < len(units); j++ {
			next := units[j]
			if next.Start.Before(tail.End) {
				// overlapping or duplicate period for the same owner
				continue
			}
			if !next.Start.Equal(tail.End) {
				break
			}
			chain = append(chain, next)
			tail = next
			if len(chain) == quantity {
				return chain
			}
		}
	}
	return nil
}
