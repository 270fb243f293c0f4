package layout

// clipShape 把超出名片边界的装饰裁掉，整页拼版时不会压到相邻名片。
// 返回的图形可能为零个（完全在外）或多个（折线被切断）。
func clipShape(s Shape, b Box) []Shape {
	switch s.Kind {
	case ShapePolygon:
		pts := clipPolygon(s.Points, b)
		if len(pts) < 3 {
			return nil
		}
		s.Points = pts
		return []Shape{s}
	case ShapeLine:
		var out []Shape
		for _, run := range clipPolyline(s.Points, b) {
			c := s
			c.Points = run
			out = append(out, c)
		}
		return out
	case ShapeCircle:
		if s.X+s.Radius < b.X || s.X-s.Radius > b.Right() || s.Y+s.Radius < b.Y || s.Y-s.Radius > b.Bottom() {
			return nil
		}
		return []Shape{s}
	default:
		x0, y0 := max(s.X, b.X), max(s.Y, b.Y)
		x1, y1 := min(s.X+s.Width, b.Right()), min(s.Y+s.Height, b.Bottom())
		if x1 <= x0 || y1 <= y0 {
			return nil
		}
		s.X, s.Y, s.Width, s.Height = x0, y0, x1-x0, y1-y0
		return []Shape{s}
	}
}

// clipPolygon 使用 Sutherland–Hodgman 算法，依次按四条边裁剪。
func clipPolygon(pts []Point, b Box) []Point {
	edges := []struct {
		inside func(Point) bool
		cross  func(p, q Point) Point
	}{
		{func(p Point) bool { return p.X >= b.X }, func(p, q Point) Point { return atX(p, q, b.X) }},
		{func(p Point) bool { return p.X <= b.Right() }, func(p, q Point) Point { return atX(p, q, b.Right()) }},
		{func(p Point) bool { return p.Y >= b.Y }, func(p, q Point) Point { return atY(p, q, b.Y) }},
		{func(p Point) bool { return p.Y <= b.Bottom() }, func(p, q Point) Point { return atY(p, q, b.Bottom()) }},
	}
	out := pts
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = nil
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

// clipPolyline 逐段使用 Liang–Barsky 裁剪，连续的可见段合并成一条折线。
func clipPolyline(pts []Point, b Box) [][]Point {
	var runs [][]Point
	var cur []Point
	for i := 0; i+1 < len(pts); i++ {
		p, q, ok := clipSegment(pts[i], pts[i+1], b)
		if !ok {
			if len(cur) > 1 {
				runs = append(runs, cur)
			}
			cur = nil
			continue
		}
		if len(cur) == 0 || cur[len(cur)-1] != p {
			if len(cur) > 1 {
				runs = append(runs, cur)
			}
			cur = []Point{p}
		}
		cur = append(cur, q)
	}
	if len(cur) > 1 {
		runs = append(runs, cur)
	}
	return runs
}

func clipSegment(p, q Point, b Box) (Point, Point, bool) {
	dx, dy := q.X-p.X, q.Y-p.Y
	t0, t1 := 0.0, 1.0
	for _, c := range [][2]float64{
		{-dx, p.X - b.X}, {dx, b.Right() - p.X},
		{-dy, p.Y - b.Y}, {dy, b.Bottom() - p.Y},
	} {
		pk, qk := c[0], c[1]
		if pk == 0 {
			if qk < 0 {
				return Point{}, Point{}, false
			}
			continue
		}
		t := qk / pk
		if pk < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return Point{}, Point{}, false
		}
	}
	return Point{p.X + t0*dx, p.Y + t0*dy}, Point{p.X + t1*dx, p.Y + t1*dy}, true
}

func atX(p, q Point, x float64) Point {
	t := (x - p.X) / (q.X - p.X)
	return Point{X: x, Y: p.Y + t*(q.Y-p.Y)}
}

func atY(p, q Point, y float64) Point {
	t := (y - p.Y) / (q.Y - p.Y)
	return Point{X: p.X + t*(q.X-p.X), Y: y}
}
