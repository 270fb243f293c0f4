package layout

import (
	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/script"
)

// Frame 收集模板绘制的图形、图片与文本，并记录排版中出现的第一个错误。
type Frame struct {
	drawing Drawing
	ts      Typesetter
	err     error
}

func newFrame(ts Typesetter, background Color) *Frame {
	return &Frame{
		ts:      ts,
		drawing: Drawing{Width: card.Width, Height: card.Height, Background: background},
	}
}

// Bounds 返回整张名片的区域。
func (f *Frame) Bounds() Box { return Box{W: f.drawing.Width, H: f.drawing.Height} }

// Err 返回第一个排版错误。
func (f *Frame) Err() error { return f.err }

// Build 调用子块排版函数；出错时记录错误并返回空块。
func (f *Frame) Build(fn BlockFunc, width float64, col Color) Block {
	if f.err != nil || fn == nil {
		return Block{Width: width}
	}
	b, err := fn(width, col)
	if err != nil {
		f.err = err
		return Block{Width: width}
	}
	return b
}

// Place 把块放到 (x, y)。
func (f *Frame) Place(b Block, x, y float64) Box {
	f.drawing.Texts = append(f.drawing.Texts, b.At(x, y)...)
	return Box{X: x, Y: y, W: b.Width, H: b.Height}
}

// Column 在 box 内把若干块垂直居中排成一列，返回实际占用的区域。
func (f *Frame) Column(box Box, gap float64, blocks ...Block) Box {
	stack := Join(gap, blocks...)
	y := box.Y + (box.H-stack.Height)/2
	f.Place(stack, box.X, y)
	return Box{X: box.X, Y: y, W: box.W, H: stack.Height}
}

// Split 把 top 贴顶、bottom 贴底放置，返回两者及中间剩余的区域。
func (f *Frame) Split(box Box, gap float64, top, bottom Block) (Box, Box, Box) {
	topBox := f.Place(top, box.X, box.Y)
	topBox.W = box.W
	bottomBox := f.Place(bottom, box.X, box.Bottom()-bottom.Height)
	bottomBox.W = box.W

	midY := box.Y
	if !top.Empty() {
		midY = topBox.Bottom() + gap
	}
	midBottom := box.Bottom()
	if !bottom.Empty() {
		midBottom = bottomBox.Y - gap
	}
	return topBox, Box{X: box.X, Y: midY, W: box.W, H: midBottom - midY}, bottomBox
}

// Label 排版一段固定的拉丁文装饰文字（不属于任何字段）。
func (f *Frame) Label(text string, size float64, bold bool, col Color, box Box) {
	if f.err != nil {
		return
	}
	font := Font{Script: script.Latin, Bold: bold}
	w, err := f.ts.Measure(text, font, size)
	if err != nil {
		f.err = err
		return
	}
	f.drawing.Texts = append(f.drawing.Texts, TextBox{
		X:        box.X,
		Y:        box.Y + (box.H-size)/2,
		Width:    box.W,
		Height:   size,
		FontSize: size,
		Color:    col,
		Align:    card.AlignCenter,
		Lines: []TextLine{{
			Spans:  []Span{{Text: text, Font: font, Width: w}},
			Width:  w,
			Height: size,
		}},
	})
}

// Add 追加图形。
func (f *Frame) Add(shapes ...Shape) {
	f.drawing.Shapes = append(f.drawing.Shapes, shapes...)
}

// Image 在路径非空时放置照片；没有照片的槽位保持空白。
func (f *Frame) Image(path string, box Box, opts ...func(*ImageBox)) {
	if path == "" || box.W <= 0 || box.H <= 0 {
		return
	}
	img := ImageBox{Path: path, X: box.X, Y: box.Y, Width: box.W, Height: box.H, Opacity: 1}
	for _, opt := range opts {
		opt(&img)
	}
	f.drawing.Images = append(f.drawing.Images, img)
}

// 照片选项。
func faded(opacity float64) func(*ImageBox) { return func(i *ImageBox) { i.Opacity = opacity } }
func cover(i *ImageBox)                     { i.Cover = true }
func bottomAligned(i *ImageBox)             { i.Bottom = true }
func grayscale(i *ImageBox)                 { i.Grayscale = true }

func spacer(h float64) Block { return Block{Height: h} }

// border 画一条宽 w 的描边，完全落在 b 之内（与 CSS border 一致）。
func border(b Box, w float64, c Color) Shape {
	in := b.Inset(w/2, w/2)
	return Shape{Kind: ShapeRect, X: in.X, Y: in.Y, Width: in.W, Height: in.H, StrokeColor: c, StrokeWidth: w}
}

func fill(b Box, c Color) Shape {
	fc := c
	return Shape{Kind: ShapeRect, X: b.X, Y: b.Y, Width: b.W, Height: b.H, FillColor: &fc}
}

func line(c Color, w float64, pts ...Point) Shape {
	return Shape{Kind: ShapeLine, Points: pts, StrokeColor: c, StrokeWidth: w}
}

func hline(x1, x2, y float64, c Color, w float64) Shape {
	return line(c, w, Point{x1, y}, Point{x2, y})
}

func circle(cx, cy, r float64, c Color) Shape {
	fc := c
	return Shape{Kind: ShapeCircle, X: cx, Y: cy, Radius: r, FillColor: &fc}
}

func polygon(c Color, pts ...Point) Shape {
	fc := c
	return Shape{Kind: ShapePolygon, Points: pts, FillColor: &fc}
}

// quad 把二次贝塞尔曲线采样成折线点。
func quad(p0, p1, p2 Point) []Point {
	const steps = 12
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		pts = append(pts, Point{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	return pts
}

func (s Shape) rounded(r float64) Shape { s.Radius = r; return s }

func (s Shape) dashed(d ...float64) Shape { s.Dash = d; return s }

func (s Shape) alpha(o float64) Shape { s.Opacity = o; return s }

func (s Shape) filled(c Color) Shape { s.FillColor = &c; return s }

func (s Shape) stroked(c Color, w float64) Shape {
	s.StrokeColor = c
	s.StrokeWidth = w
	return s
}
