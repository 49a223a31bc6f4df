// Package render draws a particle field onto an abstract 2D surface.
package render

import "image/color"

// Surface is a 2D drawing target. Colors are passed opaque; alpha is applied
// by the surface when compositing.
type Surface interface {
	Clear()
	FillCircle(x, y, radius float64, c color.RGBA, alpha float64)
	DrawLine(x1, y1, x2, y2 float64, c color.RGBA, alpha, width float64)
}

// Presenter is implemented by surfaces that buffer a frame and must be
// flushed once the frame is complete.
type Presenter interface {
	Present()
}

// Resizer is implemented by surfaces whose backing store follows the
// viewport size.
type Resizer interface {
	ResizeSurface(width, height float64)
}
