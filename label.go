package tagsphere

import (
	"fmt"
	"math"
)

// Label is one tag as supplied by a data source.
type Label struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	URL   string `json:"url" yaml:"url"`
}

// String returns the tooltip form "name (count)".
func (l Label) String() string {
	return fmt.Sprintf("%s (%d)", l.Name, l.Count)
}

// Node is the simulated state of one label. Pos is written only by layout and
// the solver; the projected fields only by projection; the presentation
// factors only by tweens.
type Node struct {
	Label    Label
	Index    int
	FontSize float64
	Width    float64 // measured text width plus padding
	Height   float64 // measured text height plus padding
	Color    Color

	Pos Vec3

	Screen     Vec2
	Depth      float64
	Opacity    float64
	Brightness float64

	emphasis float64 // hover, 0..1
	blend    float64 // selection, 0..1
	fade     float64 // alpha multiplier while another node is selected
	entrance float64 // fade-in, 0..1
}

// Diagonal returns the length of the node's bounding box diagonal.
func (n *Node) Diagonal() float64 {
	return math.Hypot(n.Width, n.Height)
}

// Bounds returns the projected bounding box centered on Screen.
func (n *Node) Bounds() Rect {
	return Rect{
		X:      n.Screen.X - n.Width/2,
		Y:      n.Screen.Y - n.Height/2,
		Width:  n.Width,
		Height: n.Height,
	}
}

// FontSize maps count into [minSize, maxSize] by its position within
// [minCount, maxCount]. Equal bounds map every count to minSize.
func FontSize(count, minCount, maxCount int, minSize, maxSize float64) float64 {
	norm := 0.0
	if maxCount > minCount {
		norm = float64(count-minCount) / float64(maxCount-minCount)
	}
	return clamp(minSize+norm*(maxSize-minSize), minSize, maxSize)
}

func countRange(labels []Label) (lo, hi int) {
	lo, hi = labels[0].Count, labels[0].Count
	for _, l := range labels[1:] {
		if l.Count < lo {
			lo = l.Count
		}
		if l.Count > hi {
			hi = l.Count
		}
	}
	return lo, hi
}

// newNodes measures every label. labels must be non-empty.
func newNodes(labels []Label, font Font, cfg *Config) []*Node {
	lo, hi := countRange(labels)
	nodes := make([]*Node, len(labels))
	for i, l := range labels {
		size := FontSize(l.Count, lo, hi, cfg.MinFontSize, cfg.MaxFontSize)
		w, h := font.Measure(l.Name, size)
		c := cfg.ThemeColor
		if cfg.UsePalette {
			c = cfg.Palette[i%len(cfg.Palette)]
		}
		nodes[i] = &Node{
			Label:      l,
			Index:      i,
			FontSize:   size,
			Width:      w + 2*cfg.Padding,
			Height:     h + 2*cfg.Padding,
			Color:      c,
			Opacity:    1,
			Brightness: 1,
			fade:       1,
			entrance:   1,
		}
	}
	return nodes
}
