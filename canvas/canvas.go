// Package canvas captures freehand signature strokes onto a fixed-size
// raster surface. Pointer coordinates arrive in display space and are
// rescaled to the surface's logical resolution before being recorded, so
// the ink always lands under the pointer regardless of how the surface is
// scaled for display.
package canvas

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
)

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Canvas owns the raster surface and the ordered stroke list. A stroke is
// the sequence of points between one BeginStroke and the matching
// EndStroke (or PointerLeave).
type Canvas struct {
	width, height int

	displayW, displayH float64

	surface *image.RGBA
	strokes [][]Point
	current []Point
	drawing bool
	encoded string
}

const inkRadius = 1

// New creates a canvas with the given logical surface size.
func New(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
	}
	c.wipe()
	return c
}

// SetDisplaySize records the size the surface is currently displayed at.
// Zero or negative dimensions reset the mapping to 1:1.
func (c *Canvas) SetDisplaySize(w, h float64) {
	if w <= 0 || h <= 0 {
		c.displayW, c.displayH = 0, 0
		return
	}
	c.displayW, c.displayH = w, h
}

// scale converts a display-space point to surface space. The two axes are
// scaled independently since CSS scaling may change the aspect ratio.
func (c *Canvas) scale(p Point) Point {
	sx, sy := 1.0, 1.0
	if c.displayW > 0 {
		sx = float64(c.width) / c.displayW
	}
	if c.displayH > 0 {
		sy = float64(c.height) / c.displayH
	}
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// BeginStroke starts a new path at the given display-space point.
func (c *Canvas) BeginStroke(p Point) {
	sp := c.scale(p)
	c.current = []Point{sp}
	c.drawing = true
}

// ExtendStroke draws a segment from the last recorded point to the new
// (scaled) point. It is a no-op while no stroke is active.
func (c *Canvas) ExtendStroke(p Point) {
	if !c.drawing {
		return
	}
	sp := c.scale(p)
	last := c.current[len(c.current)-1]
	c.line(last, sp)
	c.current = append(c.current, sp)
}

// EndStroke finalizes the active stroke (if any), marks drawing inactive
// and re-encodes the whole surface. The encoded image is regenerated even
// when no ink exists, so callers must consult HasInk rather than image
// presence.
func (c *Canvas) EndStroke() string {
	if c.drawing {
		c.strokes = append(c.strokes, c.current)
		c.current = nil
		c.drawing = false
	}
	c.encoded = c.encode()
	return c.encoded
}

// PointerLeave behaves exactly like EndStroke while a stroke is active. A
// cursor leaving the surface must never leave drawing "active".
func (c *Canvas) PointerLeave() {
	if c.drawing {
		c.EndStroke()
	}
}

// Clear wipes the surface and resets the signature image. Idempotent.
func (c *Canvas) Clear() {
	c.wipe()
	c.strokes = nil
	c.current = nil
	c.drawing = false
	c.encoded = ""
}

// HasInk reports whether at least one stroke has been recorded since the
// last clear. A blank encoded image is still a non-empty string, so this
// is the only reliable ink check.
func (c *Canvas) HasInk() bool {
	return len(c.strokes) > 0
}

// Image returns the signature image produced by the last EndStroke, as a
// base64 PNG data URL. Empty until a stroke ends, and after Clear.
func (c *Canvas) Image() string {
	return c.encoded
}

// Drawing reports whether a stroke is currently active.
func (c *Canvas) Drawing() bool {
	return c.drawing
}

// Strokes returns a copy of the recorded strokes in surface space.
func (c *Canvas) Strokes() [][]Point {
	out := make([][]Point, len(c.strokes))
	for i, s := range c.strokes {
		out[i] = append([]Point(nil), s...)
	}
	return out
}

// Size returns the logical surface size.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

func (c *Canvas) wipe() {
	c.surface = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(c.surface, c.surface.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
}

// line rasterizes a segment between two surface-space points.
func (c *Canvas) line(a, b Point) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		c.dot(a)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.dot(Point{X: a.X + dx*t, Y: a.Y + dy*t})
	}
}

func (c *Canvas) dot(p Point) {
	cx := int(math.Round(p.X))
	cy := int(math.Round(p.Y))
	for y := cy - inkRadius; y <= cy+inkRadius; y++ {
		for x := cx - inkRadius; x <= cx+inkRadius; x++ {
			if x < 0 || y < 0 || x >= c.width || y >= c.height {
				continue
			}
			c.surface.Set(x, y, color.Black)
		}
	}
}

func (c *Canvas) encode() string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.surface); err != nil {
		// Encoding an in-memory RGBA image only fails on writer errors,
		// which bytes.Buffer never produces.
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
