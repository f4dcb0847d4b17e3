package series

import "gonum.org/v1/gonum/stat"

// StdDev computes the population standard deviation over all values of the
// series selected by is. The splitter uses it to scale the ERP gap value and
// the LCSS tolerance to the data reaching a node.
func StdDev(ds Dataset, is IndexSet) float64 {
	n := 0
	for _, idx := range is {
		n += len(ds.At(idx).Values())
	}
	if n == 0 {
		return 0
	}
	flat := make([]float64, 0, n)
	for _, idx := range is {
		flat = append(flat, ds.At(idx).Values()...)
	}
	_, std := stat.PopMeanStdDev(flat, nil)
	return std
}

// ValueRange returns the min and max over all values of the series selected
// by is.
func ValueRange(ds Dataset, is IndexSet) (float64, float64) {
	first := true
	var mn, mx float64
	for _, idx := range is {
		for _, v := range ds.At(idx).Values() {
			if first {
				mn, mx = v, v
				first = false
				continue
			}
			if v < mn {
				mn = v
			}
			if v > mx {
				mx = v
			}
		}
	}
	return mn, mx
}
