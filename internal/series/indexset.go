package series

import "sort"

// IndexSet is a sorted, duplicate-free list of dataset positions.
type IndexSet []int

// NewIndexSet sorts and deduplicates idxs.
func NewIndexSet(idxs []int) IndexSet {
	out := make([]int, len(idxs))
	copy(out, idxs)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return IndexSet(out[:n])
}

// FullIndexSet is the index set {0, ..., size-1}.
func FullIndexSet(size int) IndexSet {
	out := make([]int, size)
	for i := range out {
		out[i] = i
	}
	return IndexSet(out)
}

// Len returns the number of indices.
func (is IndexSet) Len() int { return len(is) }

// Contains reports whether idx belongs to the set.
func (is IndexSet) Contains(idx int) bool {
	i := sort.SearchInts([]int(is), idx)
	return i < len(is) && is[i] == idx
}
