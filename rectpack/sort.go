package rectpack

import "cmp"

// SortFunc defines the prototype of a comparer function for sizes.
type SortFunc func(a, b Size) int

// SortArea sorts by area, descending.
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortPerimeter sorts by perimeter, descending.
func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortMaxSide sorts by the greater side, descending.
func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

// SortMinSide sorts by the lesser side, descending.
func SortMinSide(a, b Size) int {
	return cmp.Compare(b.MinSide(), a.MinSide())
}

// SortWidth sorts by width, descending.
func SortWidth(a, b Size) int {
	return cmp.Compare(b.Width, a.Width)
}

// SortHeight sorts by height, descending.
func SortHeight(a, b Size) int {
	return cmp.Compare(b.Height, a.Height)
}
