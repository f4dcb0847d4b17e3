package series

import (
	"math/rand"
	"sort"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
)

// ByClassMap partitions an IndexSet by class label. Classes are kept in a
// stable sorted order so that label -> branch index mappings are
// deterministic. A ByClassMap built from data never holds an empty class;
// the splitter may deliberately create one-class empty maps through FromMap
// to keep branch class sets well defined.
type ByClassMap struct {
	classes []core.Label
	members map[core.Label][]int
}

// NewByClassMap groups the indices of is by the labels they carry in ds.
// Every index must be labeled.
func NewByClassMap(ds Dataset, is IndexSet) (ByClassMap, error) {
	members := map[core.Label][]int{}
	for _, idx := range is {
		l, ok := ds.At(idx).Label()
		if !ok {
			return ByClassMap{}, errors.NewValidationError("series.NewByClassMap", "unlabeled series").
				WithContext("index", idx)
		}
		members[l] = append(members[l], idx)
	}
	classes := make([]core.Label, 0, len(members))
	for l := range members {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return ByClassMap{classes: classes, members: members}, nil
}

// FromMap builds a ByClassMap from an explicit label -> indices mapping with
// the given class order. Empty member lists are allowed here: branch maps use
// them to keep the class set of an empty branch well defined.
func FromMap(order []core.Label, members map[core.Label][]int) ByClassMap {
	classes := make([]core.Label, len(order))
	copy(classes, order)
	m := make(map[core.Label][]int, len(members))
	for l, v := range members {
		m[l] = v
	}
	return ByClassMap{classes: classes, members: m}
}

// Classes returns the class labels in stable order.
func (b ByClassMap) Classes() []core.Label { return b.classes }

// NbClasses returns the number of classes.
func (b ByClassMap) NbClasses() int { return len(b.classes) }

// Members returns the indices of a class.
func (b ByClassMap) Members(l core.Label) []int { return b.members[l] }

// Size returns the total number of indices across classes.
func (b ByClassMap) Size() int {
	n := 0
	for _, v := range b.members {
		n += len(v)
	}
	return n
}

// IndexSet flattens the map back into a sorted IndexSet.
func (b ByClassMap) IndexSet() IndexSet {
	all := make([]int, 0, b.Size())
	for _, v := range b.members {
		all = append(all, v...)
	}
	return NewIndexSet(all)
}

// LabelsToIndex maps each class label to its branch position [0, NbClasses).
func (b ByClassMap) LabelsToIndex() map[core.Label]int {
	out := make(map[core.Label]int, len(b.classes))
	for i, l := range b.classes {
		out[l] = i
	}
	return out
}

// PickOneByClass samples one index per class uniformly, in class order.
func (b ByClassMap) PickOneByClass(rng *rand.Rand) []int {
	out := make([]int, 0, len(b.classes))
	for _, l := range b.classes {
		out = append(out, core.PickOne(b.members[l], rng))
	}
	return out
}

// IsPure reports whether at most one class has members.
func (b ByClassMap) IsPure() bool {
	nb := 0
	for _, v := range b.members {
		if len(v) > 0 {
			nb++
		}
	}
	return nb <= 1
}

// MajorityClass returns the label with the most members, ties resolved by
// class order.
func (b ByClassMap) MajorityClass() core.Label {
	best, bestN := core.Label(""), -1
	for _, l := range b.classes {
		if n := len(b.members[l]); n > bestN {
			best, bestN = l, n
		}
	}
	return best
}
