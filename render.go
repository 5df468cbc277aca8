package tagsphere

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	capsuleSegments = 8 // per semicircle
	tooltipFontSize = 11
	tooltipGap      = 6
)

var tooltipBackground = Color{R: 0, G: 0, B: 0, A: 0.8}

// DrawItem is the resolved presentation of one node for a single frame.
type DrawItem struct {
	Node *Node
	// X and Y are the screen-space center.
	X, Y  float64
	Scale float64
	Alpha float64
	// Color is the brightness-adjusted text color, blended toward white by
	// hover emphasis.
	Color    Color
	Hovered  bool
	Selected bool
}

// DrawList returns the draw items for the latest projection, back to front.
// It does not mutate the engine. buf is reused when large enough.
func (e *Engine) DrawList(buf []DrawItem) []DrawItem {
	buf = buf[:0]
	for _, n := range e.order {
		buf = append(buf, e.itemFor(n))
	}
	return buf
}

// itemFor resolves n's projected state and presentation factors.
func (e *Engine) itemFor(n *Node) DrawItem {
	cfg := &e.cfg
	center := e.viewport.Center()
	scale := e.camera.Scale * (1 + (cfg.HoverScale-1)*n.emphasis)
	scale *= 1 + (cfg.SelectScale-1)*n.blend
	alpha := n.Opacity * n.fade * n.entrance
	selected := n == e.sel.node
	if selected {
		alpha = lerp(alpha, 1, clamp01(n.blend))
	}
	c := n.Color.Scale(n.Brightness).Lerp(ColorWhite, clamp01(n.emphasis))
	return DrawItem{
		Node:     n,
		X:        lerp(n.Screen.X, center.X, n.blend),
		Y:        lerp(n.Screen.Y, center.Y, n.blend),
		Scale:    scale,
		Alpha:    clamp01(alpha),
		Color:    c,
		Hovered:  n == e.hover,
		Selected: selected,
	}
}

// Draw renders the cloud onto dst: capsule backgrounds and text back to
// front, then the glow ring and the hover tooltip.
func (e *Engine) Draw(dst *ebiten.Image) {
	if e.disposed {
		return
	}
	e.drawBuf = e.DrawList(e.drawBuf)
	fp, _ := e.font.(faceProvider)
	for i := range e.drawBuf {
		it := &e.drawBuf[i]
		if it.Alpha <= 0 {
			continue
		}
		n := it.Node
		w, h := n.Width*it.Scale, n.Height*it.Scale
		bg := n.Color
		bg.A = e.cfg.BackgroundAlpha * (1 + 1.5*n.emphasis) * it.Alpha
		e.fillCapsule(dst, it.X, it.Y, w, h, bg)
		if fp != nil {
			drawCenteredText(dst, fp.Face(n.FontSize*it.Scale), n.Label.Name, it.X, it.Y, it.Color, it.Alpha)
		}
	}
	e.drawGlow(dst)
	if e.hover != nil && fp != nil {
		e.drawTooltip(dst, fp, e.itemFor(e.hover))
	}
}

func (e *Engine) drawGlow(dst *ebiten.Image) {
	n := e.sel.node
	if n == nil || e.sel.glowAlpha <= 0 || e.sel.glow <= 0 {
		return
	}
	it := e.itemFor(n)
	c := n.Color
	c.A = e.sel.glowAlpha
	vector.StrokeCircle(dst, float32(it.X), float32(it.Y), float32(e.sel.glow), 2, c.toRGBA(), true)
}

func (e *Engine) drawTooltip(dst *ebiten.Image, fp faceProvider, it DrawItem) {
	label := it.Node.Label.String()
	w, h := e.font.Measure(label, tooltipFontSize)
	w += 2 * e.cfg.Padding
	h += e.cfg.Padding
	y := it.Y - it.Node.Height*it.Scale/2 - tooltipGap - h/2
	e.fillCapsule(dst, it.X, y, w, h, tooltipBackground)
	drawCenteredText(dst, fp.Face(tooltipFontSize), label, it.X, y, ColorWhite, 1)
}

func drawCenteredText(dst *ebiten.Image, face *text.GoTextFace, s string, x, y float64, c Color, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(color.RGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: 255,
	})
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, s, face, op)
}

// fillCapsule draws a pill of size w×h centered on (cx, cy) as a triangle fan
// over the white pixel.
func (e *Engine) fillCapsule(dst *ebiten.Image, cx, cy, w, h float64, c Color) {
	e.verts, e.inds = buildCapsuleFan(e.verts[:0], e.inds[:0], cx, cy, w, h, c)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(e.verts, e.inds, ensureWhitePixel(), op)
}

// capsulePoints returns the outline of a pill shape, right cap first.
func capsulePoints(cx, cy, w, h float64) []Vec2 {
	r := h / 2
	half := math.Max(w/2-r, 0)
	pts := make([]Vec2, 0, 2*(capsuleSegments+1))
	for i := 0; i <= capsuleSegments; i++ {
		a := -math.Pi/2 + math.Pi*float64(i)/capsuleSegments
		pts = append(pts, Vec2{X: cx + half + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	for i := 0; i <= capsuleSegments; i++ {
		a := math.Pi/2 + math.Pi*float64(i)/capsuleSegments
		pts = append(pts, Vec2{X: cx - half + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}

// buildCapsuleFan appends a fan triangulation of the capsule to verts and
// inds. Untextured vertices map to the center of the white pixel.
func buildCapsuleFan(verts []ebiten.Vertex, inds []uint16, cx, cy, w, h float64, c Color) ([]ebiten.Vertex, []uint16) {
	pts := capsulePoints(cx, cy, w, h)
	base := uint16(len(verts))
	for _, p := range pts {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: float32(c.R),
			ColorG: float32(c.G),
			ColorB: float32(c.B),
			ColorA: float32(c.A),
		})
	}
	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < len(pts)-2; i++ {
		inds = append(inds, base, base+uint16(i+1), base+uint16(i+2))
	}
	return verts, inds
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
