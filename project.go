package tagsphere

// project recomputes screen position, depth, opacity and brightness for every
// node and rebuilds the depth order used for drawing and hit-testing.
func (e *Engine) project() {
	cam := e.camera
	center := e.viewport.Center()
	zExtent := e.axes.Max()
	for _, n := range e.nodes {
		projectNode(n, cam, center, zExtent, e.cfg.MinOpacity, e.cfg.MinBrightness)
	}
	sortByDepth(e.order)
	cam.dirty = false
	e.dirty = false
	e.projections++
}

// projectNode writes the projected fields of n. Position3D is read only.
func projectNode(n *Node, cam *Camera, center Vec2, zExtent, minOpacity, minBrightness float64) {
	r := cam.Apply(n.Pos)
	n.Screen = Vec2{
		X: center.X + r.X*cam.Scale,
		Y: center.Y - r.Y*cam.Scale,
	}
	n.Depth = r.Z
	t := 1.0
	if zExtent > 0 {
		t = clamp01((r.Z + zExtent) / (2 * zExtent))
	}
	n.Opacity = minOpacity + t*(1-minOpacity)
	n.Brightness = minBrightness + t*(1-minBrightness)
}

// sortByDepth orders nodes back to front (ascending depth), ties broken by
// index. Insertion sort: the order changes little between ticks so this is
// close to O(n) in practice.
func sortByDepth(order []*Node) {
	for i := 1; i < len(order); i++ {
		n := order[i]
		j := i - 1
		for j >= 0 && depthLess(n, order[j]) {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = n
	}
}

func depthLess(a, b *Node) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.Index < b.Index
}
