package canvas

import (
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

type segKind uint8

const (
	segMove segKind = iota
	segLine
	segQuad
	segCube
	segClose
)

type segment struct {
	kind segKind
	pts  [3]f64.Vec2
}

// Path is a sequence of subpaths in user space. Points are mapped through the
// surface transform when the path is filled or stroked.
type Path struct {
	segs []segment
}

func NewPath() *Path { return &Path{} }

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, segment{kind: segMove, pts: [3]f64.Vec2{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, segment{kind: segLine, pts: [3]f64.Vec2{{x, y}}})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.segs = append(p.segs, segment{kind: segQuad, pts: [3]f64.Vec2{{cx, cy}, {x, y}}})
}

func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.segs = append(p.segs, segment{kind: segCube, pts: [3]f64.Vec2{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

func (p *Path) ClosePath() {
	p.segs = append(p.segs, segment{kind: segClose})
}

// Rect adds a closed rectangle subpath.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.ClosePath()
}

func (p *Path) Empty() bool { return p == nil || len(p.segs) == 0 }

// rasterize adds the transformed outline of p to z.
func (p *Path) rasterize(z *vector.Rasterizer, m f64.Aff3) {
	pt := func(v f64.Vec2) (float32, float32) {
		x, y := Apply(m, v[0], v[1])
		return float32(x), float32(y)
	}
	open := false
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(s.pts[0]))
			open = true
		case segLine:
			z.LineTo(pt(s.pts[0]))
		case segQuad:
			cx, cy := pt(s.pts[0])
			x, y := pt(s.pts[1])
			z.QuadTo(cx, cy, x, y)
		case segCube:
			c1x, c1y := pt(s.pts[0])
			c2x, c2y := pt(s.pts[1])
			x, y := pt(s.pts[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case segClose:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}
}

const curveSteps = 8

// polylines flattens p into device-space polylines, one per subpath.
func (p *Path) polylines(m f64.Aff3) (lines [][]f64.Vec2, closed []bool) {
	var cur []f64.Vec2
	var last, start f64.Vec2
	flush := func(c bool) {
		if len(cur) > 1 {
			lines = append(lines, cur)
			closed = append(closed, c)
		}
		cur = nil
	}
	dev := func(v f64.Vec2) f64.Vec2 {
		x, y := Apply(m, v[0], v[1])
		return f64.Vec2{x, y}
	}
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			flush(false)
			start, last = s.pts[0], s.pts[0]
			cur = []f64.Vec2{dev(last)}
		case segLine:
			last = s.pts[0]
			cur = append(cur, dev(last))
		case segQuad:
			p0 := last
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				cur = append(cur, dev(f64.Vec2{
					u*u*p0[0] + 2*u*t*s.pts[0][0] + t*t*s.pts[1][0],
					u*u*p0[1] + 2*u*t*s.pts[0][1] + t*t*s.pts[1][1],
				}))
			}
			last = s.pts[1]
		case segCube:
			p0 := last
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
				cur = append(cur, dev(f64.Vec2{
					a*p0[0] + b*s.pts[0][0] + c*s.pts[1][0] + d*s.pts[2][0],
					a*p0[1] + b*s.pts[0][1] + c*s.pts[1][1] + d*s.pts[2][1],
				}))
			}
			last = s.pts[2]
		case segClose:
			if len(cur) > 0 {
				cur = append(cur, dev(start))
			}
			flush(true)
			last = start
			cur = []f64.Vec2{dev(start)}
		}
	}
	flush(false)
	return lines, closed
}

// strokeOutline adds one quad per polyline edge, all wound the same way so
// overlapping joints accumulate instead of cancelling.
func strokeOutline(z *vector.Rasterizer, lines [][]f64.Vec2, width float64) {
	hw := width / 2
	for _, line := range lines {
		for i := 1; i < len(line); i++ {
			a, b := line[i-1], line[i]
			dx, dy := b[0]-a[0], b[1]-a[1]
			n := math.Hypot(dx, dy)
			if n == 0 {
				continue
			}
			// square caps on every edge cover the joints
			ux, uy := dx/n*hw, dy/n*hw
			nx, ny := -uy, ux
			q := [4]f64.Vec2{
				{a[0] - ux + nx, a[1] - uy + ny},
				{b[0] + ux + nx, b[1] + uy + ny},
				{b[0] + ux - nx, b[1] + uy - ny},
				{a[0] - ux - nx, a[1] - uy - ny},
			}
			z.MoveTo(float32(q[0][0]), float32(q[0][1]))
			for _, v := range q[1:] {
				z.LineTo(float32(v[0]), float32(v[1]))
			}
			z.ClosePath()
		}
	}
}
