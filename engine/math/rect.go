package math

// Rect is an integer viewport rectangle with its origin at the bottom left.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

func NewRect(x, y, width, height int32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}
