package reducer

// Clamp bounds requested to a valid index for itemCount items. With no
// items the index is 0.
func Clamp(requested, itemCount int) int {
	return max(0, min(itemCount-1, requested))
}

// Next returns the index after index, stopping at the last item.
func Next(index, itemCount int) int {
	return Clamp(index+1, itemCount)
}

// Previous returns the index before index, stopping at the first item.
func Previous(index, itemCount int) int {
	return Clamp(index-1, itemCount)
}

// Offset returns the horizontal position of child i when the child at
// index is centered in a container of the given width. Children before
// index sit at negative offsets.
func Offset(i, index int, width float64) float64 {
	return float64(i-index) * width
}

// Offsets returns Offset for every child.
func Offsets(index, itemCount int, width float64) []float64 {
	out := make([]float64, itemCount)
	for i := range out {
		out[i] = Offset(i, index, width)
	}
	return out
}
