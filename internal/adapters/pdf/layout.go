package pdf

import "certbot/internal/domain"

// Point is a draw position in PDF user space: origin at the bottom-left of
// the page, Y increasing upward.
type Point struct {
	X float64
	Y float64
}

// PlaceText computes where a string of the given measured width is drawn.
// Centered text is positioned from the page width; left-aligned text uses x
// verbatim. y is always used verbatim.
func PlaceText(align domain.TextAlignment, pageWidth, textWidth, x, y float64) Point {
	if align == domain.AlignCenter {
		return Point{X: pageWidth/2 - textWidth/2, Y: y}
	}
	return Point{X: x, Y: y}
}
