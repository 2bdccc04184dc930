package brackets

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// SeedingOrder returns the seed occupying each first-round slot of a bracket
// of the given size (a power of two). Slots 2m and 2m+1 form match m+1. The
// table is built by mirrored doubling, so seeds 1 and 2 land in opposite
// halves and every seed meets the weakest possible opponent in its
// sub-bracket: size 8 yields [1 8 4 5 2 7 3 6].
func SeedingOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		doubled := make([]int, 0, len(order)*2)
		mirror := len(order)*2 + 1
		for _, seed := range order {
			doubled = append(doubled, seed, mirror-seed)
		}
		order = doubled
	}
	return order
}

// SnakeGroups partitions seed-ordered entries into groupCount pools,
// reversing direction on every pass so total strength stays balanced.
func SnakeGroups(entries []Entry, groupCount int) [][]Entry {
	if groupCount < 1 {
		groupCount = 1
	}
	groups := make([][]Entry, groupCount)
	forward := true
	for i := 0; i < len(entries); i += groupCount {
		pass := entries[i:min(i+groupCount, len(entries))]
		if forward {
			for j, e := range pass {
				groups[j] = append(groups[j], e)
			}
		} else {
			for j, e := range pass {
				groups[groupCount-1-j] = append(groups[groupCount-1-j], e)
			}
		}
		forward = !forward
	}
	return groups
}
