package viz

import (
	"math"
	"sort"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// UnitVec3 maps a point of the unit cube onto the cube [-1, 1]^3 that the
// camera looks at.
func UnitVec3(u, v, w float64) Vec3 {
	return Vec3{2*u - 1, 2*v - 1, 2*w - 1}
}

// Camera orbits the origin at a fixed distance.
type Camera struct {
	Distance, Near   float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to sub-pixel coordinates of a sw x sh screen. It returns
// x, y, depth and whether the point lands on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

// Wireframe is a set of edges; an edge with equal ends is a point.
type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe           { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3)   { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p Vec3)     { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Extend(o *Wireframe) { w.Edges = append(w.Edges, o.Edges...) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// UnitCubeWireframe is the frame of the unit cube.
func UnitCubeWireframe() *Wireframe {
	w := NewWireframe()
	var v [8]Vec3
	for i := range v {
		v[i] = UnitVec3(float64(i&1), float64(i>>1&1), float64(i>>2&1))
	}
	for i := range v {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				w.AddEdge(v[i], v[i|bit])
			}
		}
	}
	return w
}

// CloudWireframe places coordinates i, j and k of every sample as points.
func CloudWireframe(samples [][]float64, i, j, k int) *Wireframe {
	w := &Wireframe{Edges: make([]Edge, 0, len(samples))}
	for _, u := range samples {
		if len(u) <= i || len(u) <= j || len(u) <= k {
			continue
		}
		w.AddPoint(UnitVec3(u[i], u[j], u[k]))
	}
	return w
}
