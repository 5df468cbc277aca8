package tagsphere

import "math"

// goldenAngle is π(3 − √5), the angular step of the Fibonacci lattice.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// GoldenSpiral returns n points on the unit sphere spread along a golden
// spiral. Heights decrease strictly with the index so every point is
// distinct. A single point sits at the top pole.
func GoldenSpiral(n int) []Vec3 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Vec3{{X: 0, Y: 1, Z: 0}}
	}
	pts := make([]Vec3, n)
	for i := range pts {
		theta := float64(i) * goldenAngle
		v := float64(i) / float64(n-1)
		phi := math.Acos(1 - 2*v)
		sinPhi, cosPhi := math.Sincos(phi)
		sinTheta, cosTheta := math.Sincos(theta)
		pts[i] = Vec3{
			X: sinPhi * cosTheta,
			Y: cosPhi,
			Z: sinPhi * sinTheta,
		}
	}
	return pts
}

// Layout places nodes on the ellipsoid with the given semi-axes.
func Layout(nodes []*Node, axes Axes) {
	pts := GoldenSpiral(len(nodes))
	for i, n := range nodes {
		p := pts[i]
		n.Pos = Vec3{X: p.X * axes.X, Y: p.Y * axes.Y, Z: p.Z * axes.Z}
	}
}
