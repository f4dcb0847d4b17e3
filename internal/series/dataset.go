package series

import (
	"sort"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
)

// Header summarizes an immutable dataset: sizes, dimensionality and the label
// universe with its dense encoding.
type Header struct {
	Size         int
	Dims         int
	LengthMin    int
	LengthMax    int
	Labels       []core.Label
	LabelToIndex map[core.Label]core.EL
}

// storage is the shared immutable payload behind one or more Dataset handles.
type storage struct {
	series []Series
}

// Dataset is a cheap-to-copy handle over an immutable collection of series of
// common dimensionality. Derived datasets (transforms) share indices with
// their parent: position i in the derivative dataset is the derivative of
// position i in the parent.
type Dataset struct {
	name      string
	transform string
	store     *storage
	header    *Header
}

// NewDataset builds a dataset over ss. All series must share one
// dimensionality. The transform name of a freshly loaded dataset is "raw".
func NewDataset(name string, ss []Series) (Dataset, error) {
	if len(ss) == 0 {
		return Dataset{}, errors.NewValidationError("series.NewDataset", "empty dataset")
	}
	dims := ss[0].Dims()
	for _, s := range ss {
		if s.Dims() != dims {
			return Dataset{}, errors.NewValidationError("series.NewDataset", "mismatched dimensionality").
				WithContext("want", dims).WithContext("got", s.Dims())
		}
	}
	h := buildHeader(ss, dims)
	return Dataset{name: name, transform: "raw", store: &storage{series: ss}, header: h}, nil
}

func buildHeader(ss []Series, dims int) *Header {
	lmin, lmax := ss[0].Length(), ss[0].Length()
	seen := map[core.Label]struct{}{}
	for _, s := range ss {
		if n := s.Length(); n < lmin {
			lmin = n
		} else if n > lmax {
			lmax = n
		}
		if l, ok := s.Label(); ok {
			seen[l] = struct{}{}
		}
	}
	labels := make([]core.Label, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	l2i := make(map[core.Label]core.EL, len(labels))
	for i, l := range labels {
		l2i[l] = i
	}
	return &Header{
		Size:         len(ss),
		Dims:         dims,
		LengthMin:    lmin,
		LengthMax:    lmax,
		Labels:       labels,
		LabelToIndex: l2i,
	}
}

// Name returns the dataset name ("train", "test", ...).
func (d Dataset) Name() string { return d.name }

// TransformName returns the name of the transform chain tip ("raw",
// "derivative1", "zscore", ...).
func (d Dataset) TransformName() string { return d.transform }

// Header returns the dataset header. Shared and read-only.
func (d Dataset) Header() *Header { return d.header }

// Size returns the number of series.
func (d Dataset) Size() int { return d.header.Size }

// At returns the series at position i.
func (d Dataset) At(i int) Series { return d.store.series[i] }

// LabelIndex returns the dense index of the label of series i.
func (d Dataset) LabelIndex(i int) (core.EL, bool) {
	l, ok := d.store.series[i].Label()
	if !ok {
		return 0, false
	}
	el, ok := d.header.LabelToIndex[l]
	return el, ok
}

// Map derives a dataset by applying fn to every series, preserving order,
// labels and size. The derived dataset shares indices with the parent; its
// header is recomputed (a transform may change lengths, e.g. derivative).
func (d Dataset) Map(transformName string, fn func(Series) Series) Dataset {
	out := make([]Series, len(d.store.series))
	for i, s := range d.store.series {
		out[i] = fn(s)
	}
	h := buildHeader(out, out[0].Dims())
	return Dataset{name: d.name, transform: transformName, store: &storage{series: out}, header: h}
}
