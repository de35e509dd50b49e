// Package chartimg renders the dashboard's line chart as a PNG, for link
// previews and clients without JavaScript.
package chartimg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/lox/habitatshift/internal/dashboard"
)

const (
	Width  = 960
	Height = 480

	marginLeft   = 64
	marginRight  = 24
	marginTop    = 56
	marginBottom = 48

	lineWidth = 2.0
	yTicks    = 5
)

var (
	fontLabel font.Face
	fontTitle font.Face
	fontOnce  sync.Once
	fontErr   error
)

func loadFonts() {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse goregular: %w", err)
			return
		}
		fontLabel, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			fontErr = fmt.Errorf("create label face: %w", err)
			return
		}
		fontTitle, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 18, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			fontErr = fmt.Errorf("create title face: %w", err)
			return
		}
	})
}

var (
	background = color.RGBA{255, 255, 255, 255}
	gridColor  = color.RGBA{229, 236, 246, 255}
	axisColor  = color.RGBA{68, 68, 68, 255}
	markColor  = color.RGBA{120, 120, 120, 255}
)

// plot maps data coordinates into the drawing area.
type plot struct {
	x0, x1 float64 // data x range
	y0, y1 float64 // data y range
	area   image.Rectangle
}

func (p plot) px(x float64) float32 {
	return float32(float64(p.area.Min.X) + (x-p.x0)/(p.x1-p.x0)*float64(p.area.Dx()))
}

func (p plot) py(y float64) float32 {
	return float32(float64(p.area.Max.Y) - (y-p.y0)/(p.y1-p.y0)*float64(p.area.Dy()))
}

// Render draws every chart series against its year labels, with a vertical
// marker at the selected year when it lies inside the x range.
func Render(chart dashboard.ChartData) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	drawText(img, "Mean temperature vs sightings", marginLeft, 28, axisColor, fontTitle)

	if len(chart.Labels) == 0 {
		drawText(img, "no data", Width/2-24, Height/2, markColor, fontLabel)
		return encode(img)
	}

	p := newPlot(chart)
	drawGrid(img, p)

	if chart.SelectedYear >= int(p.x0) && chart.SelectedYear <= int(p.x1) {
		drawDashedVertical(img, p.px(float64(chart.SelectedYear)), p.area, markColor)
		label := strconv.Itoa(chart.SelectedYear)
		x := int(p.px(float64(chart.SelectedYear))) - measure(label, fontLabel)/2
		drawText(img, label, x, p.area.Min.Y-6, markColor, fontLabel)
	}

	legendX := Width - marginRight
	for i := len(chart.Series) - 1; i >= 0; i-- {
		s := chart.Series[i]
		col := parseHex(s.Color)
		drawPolyline(img, p, chart.Labels, s.Data, col)

		legendX -= measure(legendName(s.Name, i), fontLabel) + 28
		fillRect(img, image.Rect(legendX, 20, legendX+14, 24), col)
		drawText(img, legendName(s.Name, i), legendX+20, 28, axisColor, fontLabel)
	}

	return encode(img)
}

// The built-in Go font has no Hangul glyphs, so the legend uses fixed
// English names for the two known series.
func legendName(name string, i int) string {
	switch name {
	case "평균기온":
		return "mean temperature"
	case "발견횟수":
		return "sightings"
	}
	return fmt.Sprintf("series %d", i+1)
}

func newPlot(chart dashboard.ChartData) plot {
	p := plot{
		x0:   float64(chart.Labels[0]),
		x1:   float64(chart.Labels[0]),
		y0:   math.Inf(1),
		y1:   math.Inf(-1),
		area: image.Rect(marginLeft, marginTop, Width-marginRight, Height-marginBottom),
	}
	for _, l := range chart.Labels {
		p.x0 = math.Min(p.x0, float64(l))
		p.x1 = math.Max(p.x1, float64(l))
	}
	for _, s := range chart.Series {
		for _, v := range s.Data {
			p.y0 = math.Min(p.y0, v)
			p.y1 = math.Max(p.y1, v)
		}
	}
	if math.IsInf(p.y0, 0) {
		p.y0, p.y1 = 0, 1
	}
	if p.x1 == p.x0 {
		p.x0, p.x1 = p.x0-1, p.x1+1
	}
	pad := (p.y1 - p.y0) * 0.05
	if pad == 0 {
		pad = 1
	}
	p.y0 -= pad
	p.y1 += pad
	return p
}

func drawGrid(img *image.RGBA, p plot) {
	for i := 0; i <= yTicks; i++ {
		v := p.y0 + (p.y1-p.y0)*float64(i)/yTicks
		y := int(p.py(v))
		fillRect(img, image.Rect(p.area.Min.X, y, p.area.Max.X, y+1), gridColor)
		label := strconv.FormatFloat(v, 'f', 0, 64)
		drawText(img, label, p.area.Min.X-8-measure(label, fontLabel), y+4, axisColor, fontLabel)
	}
	for year := int(p.x0); year <= int(p.x1); year++ {
		if (year-int(p.x0))%4 != 0 {
			continue
		}
		x := int(p.px(float64(year)))
		fillRect(img, image.Rect(x, p.area.Min.Y, x+1, p.area.Max.Y), gridColor)
		label := strconv.Itoa(year)
		drawText(img, label, x-measure(label, fontLabel)/2, p.area.Max.Y+18, axisColor, fontLabel)
	}
	fillRect(img, image.Rect(p.area.Min.X, p.area.Max.Y, p.area.Max.X, p.area.Max.Y+1), axisColor)
	fillRect(img, image.Rect(p.area.Min.X, p.area.Min.Y, p.area.Min.X+1, p.area.Max.Y), axisColor)
}

// drawPolyline strokes the series by filling a thin quad per segment. All
// quads share a winding direction so overlaps at joints do not cancel.
func drawPolyline(img *image.RGBA, p plot, labels []int, data []float64, col color.Color) {
	n := min(len(labels), len(data))
	if n < 2 {
		return
	}
	z := vector.NewRasterizer(Width, Height)
	half := float32(lineWidth / 2)
	for i := 1; i < n; i++ {
		ax, ay := p.px(float64(labels[i-1])), p.py(data[i-1])
		bx, by := p.px(float64(labels[i])), p.py(data[i])
		dx, dy := bx-ax, by-ay
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		z.MoveTo(ax+nx, ay+ny)
		z.LineTo(bx+nx, by+ny)
		z.LineTo(bx-nx, by-ny)
		z.LineTo(ax-nx, ay-ny)
		z.ClosePath()
	}
	z.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
}

func drawDashedVertical(img *image.RGBA, x float32, area image.Rectangle, col color.Color) {
	xi := int(x)
	for y := area.Min.Y; y < area.Max.Y; y += 8 {
		fillRect(img, image.Rect(xi, y, xi+1, min(y+4, area.Max.Y)), col)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func measure(text string, face font.Face) int {
	return font.MeasureString(face, text).Ceil()
}

// parseHex parses "#rrggbb", falling back to black.
func parseHex(s string) color.RGBA {
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return c
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return c
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
