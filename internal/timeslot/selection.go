package timeslot

import "sort"

func positions(all []string) map[string]int {
	idx := make(map[string]int, len(all))
	for i, s := range all {
		idx[s] = i
	}
	return idx
}

// OnGrid reports whether every slot appears in the full slot list.
func OnGrid(slots, all []string) bool {
	idx := positions(all)
	for _, s := range slots {
		if _, ok := idx[s]; !ok {
			return false
		}
	}
	return true
}

// SortByGrid returns a copy of selected ordered by position in all.  Slots
// missing from all sort last in input order.
func SortByGrid(selected, all []string) []string {
	idx := positions(all)
	out := append([]string(nil), selected...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, oki := idx[out[i]]
		pj, okj := idx[out[j]]
		switch {
		case oki && okj:
			return pi < pj
		case oki:
			return true
		default:
			return false
		}
	})
	return out
}

// IsContiguous reports whether selected occupies consecutive positions of
// the full slot list all, in any input order.  An empty selection and any
// single slot on the grid are contiguous.  Unknown or repeated slots never
// are.
//
// Adjacency must come from the full list.  The display buckets split the
// grid and lose the afternoon/evening neighbourhood.
func IsContiguous(selected, all []string) bool {
	if len(selected) == 0 {
		return true
	}
	idx := positions(all)
	pos := make([]int, 0, len(selected))
	seen := make(map[int]struct{}, len(selected))
	for _, s := range selected {
		p, ok := idx[s]
		if !ok {
			return false
		}
		if _, dup := seen[p]; dup {
			return false
		}
		seen[p] = struct{}{}
		pos = append(pos, p)
	}
	sort.Ints(pos)
	for i := 1; i < len(pos); i++ {
		if pos[i] != pos[i-1]+1 {
			return false
		}
	}
	return true
}

// ToggleSelection adds slot to selected, or removes it when already
// present, and returns the new selection ordered by grid position.  The
// toggle is rejected with ErrNotContiguous when the result would leave a
// gap, and with ErrInvalidSlot when slot is not on the grid.  On rejection
// the original selection is returned unchanged.
func ToggleSelection(selected []string, slot string, all []string) ([]string, error) {
	if !OnGrid([]string{slot}, all) {
		return selected, ErrInvalidSlot
	}
	next := make([]string, 0, len(selected)+1)
	removed := false
	for _, s := range selected {
		if s == slot {
			removed = true
			continue
		}
		next = append(next, s)
	}
	if !removed {
		next = append(next, slot)
	}
	if !IsContiguous(next, all) {
		return selected, ErrNotContiguous
	}
	return SortByGrid(next, all), nil
}
