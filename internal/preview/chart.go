// Package preview draws per-bone Euler angle strip charts for one action.
package preview

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mu-bmd-pose/internal/track"
)

// Options controls chart layout. Zero fields take defaults.
type Options struct {
	Width       int // final image width in pixels
	RowHeight   int // final height of one bone row
	Supersample int // render scale before downsampling
}

const labelWidth = 96

var (
	background = color.NRGBA{0x1c, 0x1f, 0x24, 0xff}
	gridColor  = color.NRGBA{0x3a, 0x3f, 0x47, 0xff}
	lockColor  = color.NRGBA{0x80, 0x80, 0x80, 0xff}
	textColor  = color.NRGBA{0xdd, 0xdd, 0xdd, 0xff}
	axisColors = [3]color.NRGBA{
		{0xe0, 0x4b, 0x4b, 0xff}, // X
		{0x5c, 0xc4, 0x5c, 0xff}, // Y
		{0x4f, 0x8f, 0xe8, 0xff}, // Z
	}
)

func (o Options) withDefaults() Options {
	if o.Width <= labelWidth {
		o.Width = 512
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 48
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	return o
}

// Render draws one row per summary. Each row plots the degree-valued Euler X,
// Y and Z of every key on a 0..360 scale. Gimbal-locked keys carry radians, so
// they are marked with a vertical bar instead of being plotted.
func Render(rows []track.Summary, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	ss := opts.Supersample
	nrows := len(rows)
	if nrows == 0 {
		nrows = 1
	}

	w, h := opts.Width*ss, opts.RowHeight*nrows*ss
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	plotX0 := labelWidth * ss
	plotW := w - plotX0 - ss
	rowH := opts.RowHeight * ss

	for ri, row := range rows {
		top := ri * rowH
		bottom := top + rowH - 1
		hline(canvas, plotX0, w-1, bottom, ss/2+1, gridColor)

		n := len(row.Euler)
		if n == 0 {
			continue
		}
		xAt := func(k int) int {
			if n == 1 {
				return plotX0 + plotW/2
			}
			return plotX0 + k*plotW/(n-1)
		}
		yAt := func(deg float32) int {
			v := float64(deg) / 360
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			pad := 2 * ss
			return bottom - pad - int(v*float64(rowH-2*pad))
		}

		for k, e := range row.Euler {
			if e.Radians {
				vline(canvas, xAt(k), top+ss, bottom-ss, ss, lockColor)
			}
		}
		for axis, c := range axisColors {
			prev := -1
			for k, e := range row.Euler {
				if e.Radians {
					prev = -1
					continue
				}
				v := component(e, axis)
				if prev >= 0 {
					line(canvas, xAt(prev), yAt(component(row.Euler[prev], axis)), xAt(k), yAt(v), ss, c)
				} else {
					dot(canvas, xAt(k), yAt(v), ss, c)
				}
				prev = k
			}
		}
	}

	out := Downsample(canvas, opts.Width, opts.RowHeight*nrows)
	for ri, row := range rows {
		label(out, 4, ri*opts.RowHeight+opts.RowHeight/2+4, row.Name)
	}
	return out
}

func component(e track.KeyEuler, axis int) float32 {
	switch axis {
	case 0:
		return e.Euler.X
	case 1:
		return e.Euler.Y
	default:
		return e.Euler.Z
	}
}

func label(img *image.NRGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	// Truncate to the label column.
	if n := (labelWidth - 8) / 7; len(s) > n {
		s = s[:n]
	}
	d.DrawString(s)
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func hline(img *image.NRGBA, x0, x1, y, th int, c color.NRGBA) {
	fill(img, image.Rect(x0, y-th/2, x1+1, y-th/2+th), c)
}

func vline(img *image.NRGBA, x, y0, y1, th int, c color.NRGBA) {
	fill(img, image.Rect(x-th/2, y0, x-th/2+th, y1+1), c)
}

func dot(img *image.NRGBA, x, y, th int, c color.NRGBA) {
	fill(img, image.Rect(x-th, y-th, x+th+1, y+th+1), c)
}

// line draws a th-pixel-thick segment with Bresenham stepping.
func line(img *image.NRGBA, x0, y0, x1, y1, th int, c color.NRGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fill(img, image.Rect(x0-th/2, y0-th/2, x0-th/2+th, y0-th/2+th), c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
