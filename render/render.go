// Package render draws a triangle and its quadrature nodes as a raster image.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	triquad "github.com/triquad/triquad/core"
)

// MaxSize is the largest accepted image side in pixels.
const MaxSize = 4096

// Options controls the look of the plot. Colours use the syntax of ParseColor.
type Options struct {
	NodeColor string
	EdgeColor string
	FillColor string
	ShowAxes  bool

	// Size is the side of the square image in pixels.
	Size       int
	NodeRadius float64
	LineWidth  float64
}

// DefaultOptions are used by the web API.
func DefaultOptions() Options {
	return Options{
		NodeColor:  "red",
		EdgeColor:  "black",
		FillColor:  "lightblue",
		ShowAxes:   true,
		Size:       480,
		NodeRadius: 4.5,
		LineWidth:  1.5,
	}
}

// OfflineOptions draw only the triangle and nodes, without axes.
func OfflineOptions() Options {
	return Options{
		NodeColor:  "red",
		EdgeColor:  "black",
		FillColor:  "whitesmoke",
		ShowAxes:   false,
		Size:       600,
		NodeRadius: 5,
		LineWidth:  1.5,
	}
}

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
)

// newFace returns a fresh face for tick labels. Faces are not safe for
// concurrent use, so each drawing gets its own and must close it.
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return opentype.NewFace(goFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type palette struct {
	node, edge, fill color.Color
}

func (o Options) palette() (palette, error) {
	var (
		p   palette
		err error
	)
	if p.node, err = ParseColor(o.NodeColor); err != nil {
		return p, err
	}
	if p.edge, err = ParseColor(o.EdgeColor); err != nil {
		return p, err
	}
	if p.fill, err = ParseColor(o.FillColor); err != nil {
		return p, err
	}
	return p, nil
}

// viewport is the square region of the plane shown in the plot.
type viewport struct {
	minX, minY, side float64
}

// fit returns the bounding box of pts padded by 10% of its larger side and
// grown to a square, so that both axes use the same scale.
func fit(pts []triquad.Point) viewport {
	r := triquad.Bounds(pts...)
	if r.Empty() {
		return viewport{minX: -1, minY: -1, side: 2}
	}
	span := math.Max(r.Dx(), r.Dy())
	if span == 0 {
		span = 1
	}
	side := span * 1.2
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	return viewport{minX: cx - side/2, minY: cy - side/2, side: side}
}

// Draw renders the triangle and, if any, the nodes mapped from reference
// coordinates into it.
func Draw(t triquad.Triangle, nodes []triquad.Node, opts Options) (image.Image, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Size > MaxSize {
		return nil, &triquad.Error{
			Op:   "render.draw",
			Kind: triquad.KindValidation,
			Msg:  fmt.Sprintf("image size %d exceeds %d", opts.Size, MaxSize),
		}
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = DefaultOptions().NodeRadius
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions().LineWidth
	}
	pal, err := opts.palette()
	if err != nil {
		return nil, err
	}

	mapped := triquad.MapNodes(t, nodes)
	pts := append(t[:], mapped...)
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.New("render: coordinates must be finite")
		}
	}
	vp := fit(pts)

	size := float64(opts.Size)
	margin := size * 0.03
	if opts.ShowAxes {
		margin = size * 0.1
	}
	p := &plot{
		dc:     gg.NewContext(opts.Size, opts.Size),
		vp:     vp,
		origin: margin,
		extent: size - 2*margin,
	}
	p.dc.SetColor(color.White)
	p.dc.Clear()

	if opts.ShowAxes {
		face, err := newFace(size / 40)
		if err != nil {
			return nil, fmt.Errorf("render: loading font: %w", err)
		}
		defer face.Close()
		p.dc.SetFontFace(face)
		p.drawGrid()
	}

	p.drawTriangle(t, pal, opts.LineWidth)
	if opts.ShowAxes {
		p.drawAxes()
	}
	p.drawNodes(mapped, pal.node, opts.NodeRadius)

	return p.dc.Image(), nil
}

// RenderPNG is Draw followed by PNG encoding.
func RenderPNG(t triquad.Triangle, nodes []triquad.Node, opts Options) ([]byte, error) {
	img, err := Draw(t, nodes, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

type plot struct {
	dc     *gg.Context
	vp     viewport
	origin float64 // pixel offset of the plot area
	extent float64 // pixel side of the plot area
}

// px converts plane coordinates to pixels. The y axis points up.
func (p *plot) px(pt triquad.Point) (float64, float64) {
	x := p.origin + (pt.X-p.vp.minX)/p.vp.side*p.extent
	y := p.origin + (1-(pt.Y-p.vp.minY)/p.vp.side)*p.extent
	return x, y
}

func (p *plot) drawTriangle(t triquad.Triangle, pal palette, width float64) {
	dc := p.dc
	for i, v := range t {
		x, y := p.px(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(pal.fill)
	dc.FillPreserve()
	dc.SetColor(pal.edge)
	dc.SetLineWidth(width)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.Stroke()
}

func (p *plot) drawNodes(pts []triquad.Point, c color.Color, r float64) {
	dc := p.dc
	dc.SetColor(c)
	for _, pt := range pts {
		x, y := p.px(pt)
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
}

// drawGrid draws dashed grid lines with tick labels and the plot frame.
func (p *plot) drawGrid() {
	dc := p.dc
	step := niceStep(p.vp.side / 5)
	lo, hi := p.origin, p.origin+p.extent

	dc.Push()
	dc.SetDash(4, 3)
	dc.SetLineWidth(0.8)
	dc.SetRGBA(0.6, 0.6, 0.6, 0.7)
	for _, v := range ticks(p.vp.minX, p.vp.side, step) {
		x, _ := p.px(triquad.Point{X: v})
		dc.DrawLine(x, lo, x, hi)
		dc.Stroke()
	}
	for _, v := range ticks(p.vp.minY, p.vp.side, step) {
		_, y := p.px(triquad.Point{Y: v})
		dc.DrawLine(lo, y, hi, y)
		dc.Stroke()
	}
	dc.Pop()

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(lo, lo, p.extent, p.extent)
	dc.Stroke()

	gap := p.origin * 0.15
	for _, v := range ticks(p.vp.minX, p.vp.side, step) {
		x, _ := p.px(triquad.Point{X: v})
		dc.DrawLine(x, hi, x, hi+gap)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(v, step), x, hi+gap*1.5, 0.5, 1)
	}
	for _, v := range ticks(p.vp.minY, p.vp.side, step) {
		_, y := p.px(triquad.Point{Y: v})
		dc.DrawLine(lo-gap, y, lo, y)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(v, step), lo-gap*1.5, y, 1, 0.35)
	}
}

// drawAxes draws the x=0 and y=0 lines when they are in view.
func (p *plot) drawAxes() {
	dc := p.dc
	dc.SetColor(color.Black)
	dc.SetLineWidth(0.8)
	lo, hi := p.origin, p.origin+p.extent
	if p.vp.minY <= 0 && 0 <= p.vp.minY+p.vp.side {
		_, y := p.px(triquad.Point{})
		dc.DrawLine(lo, y, hi, y)
		dc.Stroke()
	}
	if p.vp.minX <= 0 && 0 <= p.vp.minX+p.vp.side {
		x, _ := p.px(triquad.Point{})
		dc.DrawLine(x, lo, x, hi)
		dc.Stroke()
	}
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / mag; {
	case f <= 1:
		return mag
	case f <= 2:
		return 2 * mag
	case f <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// maxTicks bounds the ticks drawn per axis.
const maxTicks = 100

// ticks returns the multiples of step inside [lo, lo+span], at most maxTicks.
// Far from the origin lo/step may exceed 2^53, where consecutive multiples
// are no longer distinct floats, so the count is computed up front.
func ticks(lo, span, step float64) []float64 {
	first := math.Ceil(lo / step)
	last := math.Floor((lo + span) / step)
	if math.IsNaN(first) || math.IsNaN(last) || math.IsInf(first, 0) || math.IsInf(last, 0) || last < first {
		return nil
	}
	n := math.Min(last-first+1, maxTicks)
	out := make([]float64, 0, int(n))
	for k := 0; k < int(n); k++ {
		out = append(out, (first+float64(k))*step)
	}
	return out
}

func formatTick(v, step float64) string {
	v = math.Round(v/step) * step
	if math.Abs(v) < step*1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
