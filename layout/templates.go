package layout

import (
	"math"

	"github.com/ByLCY/namecard/card"
)

// Slots 是模板可用的共享子块与照片槽位。
// 子块按模板给出的宽度与颜色现场排版。
type Slots struct {
	Name    BlockFunc
	Subject BlockFunc
	Details BlockFunc
	School  BlockFunc
	// CompactDetails 以 12 个逻辑单位为 1em 排版 DetailsGroup，用于小号标注框。
	CompactDetails BlockFunc
	Image          string
	Theme          Theme
	Mono           bool
}

// Template 是一种名片版式。
type Template interface {
	ID() card.TemplateID
	Compose(f *Frame, s Slots)
}

var registry = map[card.TemplateID]Template{}

func register(t Template) { registry[t.ID()] = t }

func init() {
	register(minimal{})
	register(brush{})
	register(comic{})
	register(classic{})
	register(retro{})
	register(sketchy{})
	register(floral{})
	register(boldPanel{})
	register(pattern{})
	register(modern{})
}

// Lookup 返回模板；未知 ID 回退到 modern。
func Lookup(id card.TemplateID) Template {
	if t, ok := registry[id]; ok {
		return t
	}
	return registry[card.TemplateModern]
}

var (
	gray50      = MustColor("#f9f9f9")
	gray100     = MustColor("#f3f4f6")
	gray300     = MustColor("#d1d5db")
	gray600     = MustColor("#4b5563")
	gray700     = MustColor("#374151")
	gray800     = MustColor("#1f2937")
	edgeLight   = MustColor("#cccccc")
	edgeLighter = MustColor("#dddddd")
	edgeFaint   = MustColor("#eeeeee")
)

func pick(mono bool, bw, color Color) Color {
	if mono {
		return bw
	}
	return color
}

func shadow(b Box, offset, radius float64) Shape {
	return fill(Box{X: b.X + offset, Y: b.Y + offset, W: b.W, H: b.H}, Black).rounded(radius)
}

// ---- minimal ----

type minimal struct{}

func (minimal) ID() card.TemplateID { return card.TemplateMinimal }

func (minimal) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	accent := pick(s.Mono, Black, s.Theme.Text)
	f.Add(border(bounds, 1, edgeLight), border(bounds, 8, accent))

	pad := bounds.W * 0.04
	content := bounds.Inset(pad, pad)
	name := f.Build(s.Name, content.W, Black)
	school := f.Build(s.School, content.W, Gray)
	top, mid, bottom := f.Split(content, 4, Join(0, name, spacer(8)), Join(0, spacer(8), school))
	f.Add(
		hline(content.X, content.Right(), top.Bottom()-1, accent, 2),
		hline(content.X, content.Right(), bottom.Y+1, accent, 2),
	)

	subject := f.Build(s.Subject, mid.W, Black)
	details := f.Build(s.Details, mid.W, Black)
	f.Column(mid, 8, subject, details)

	f.Image(s.Image, Box{X: bounds.Right() - 58, Y: 8, W: 50, H: 50}, faded(0.2), grayscale)
}

// ---- brush ----

type brush struct{}

func (brush) ID() card.TemplateID { return card.TemplateBrush }

func (brush) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	ink := pick(s.Mono, Black, s.Theme.Text)
	f.Add(
		border(bounds, 1, edgeLighter),
		Shape{Kind: ShapeRect, X: 5, Y: 5, Width: bounds.W * 0.98, Height: bounds.H * 0.96, StrokeColor: ink, StrokeWidth: 5}.dashed(20, 10),
	)

	pad := bounds.W * 0.03
	content := bounds.Inset(pad, pad)
	nameW := content.W - 32
	name := f.Build(s.Name, nameW, Black)
	schoolW := content.W * 0.8
	school := f.Build(s.School, schoolW, Gray)

	topBlock := Join(0, spacer(4), name)
	bottomBlock := Join(0, spacer(1), school, spacer(4))
	nameBox := Box{X: content.X + 16, Y: content.Y, W: nameW, H: topBlock.Height}
	schoolBox := Box{X: content.X + (content.W-schoolW)/2, Y: content.Bottom() - bottomBlock.Height, W: schoolW, H: bottomBlock.Height}
	f.Add(fill(nameBox, White), fill(schoolBox, White), hline(schoolBox.X, schoolBox.Right(), schoolBox.Y, gray300, 1).dashed(4, 2))
	f.Place(topBlock, nameBox.X, nameBox.Y)
	f.Place(bottomBlock, schoolBox.X, schoolBox.Y)

	mid := Box{X: content.X, Y: nameBox.Bottom() + 8, W: content.W}
	mid.H = schoolBox.Y - 8 - mid.Y
	left := mid
	if s.Image != "" {
		var right Box
		left, right = mid.SplitX(mid.W * 0.7)
		h := math.Min(80, right.H)
		f.Image(s.Image, Box{X: right.X, Y: right.Y + (right.H-h)/2, W: right.W, H: h})
	}
	subject := f.Build(s.Subject, left.W, ink)
	details := f.Build(s.Details, left.W, Black)
	f.Column(left, 8, subject, details)
}

// ---- comic ----

type comic struct{}

func (comic) ID() card.TemplateID { return card.TemplateComic }

func (comic) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.Add(border(bounds, 2, Black))
	for y := 5.0; y < bounds.H; y += 10 {
		for x := 5.0; x < bounds.W; x += 10 {
			f.Add(circle(x, y, 1, Black).alpha(0.1))
		}
	}

	content := bounds.Inset(8, 8)
	name := f.Build(s.Name, content.W-20, Black)
	school := f.Build(s.School, content.W*0.6, Black)

	nameBox := Box{X: content.X, Y: content.Y, W: content.W, H: name.Height + 20}
	f.Add(shadow(nameBox, 3, 12), fill(nameBox, White).rounded(12).stroked(Black, 2))
	f.Place(name, nameBox.X+10, nameBox.Y+10)

	schoolBox := Box{X: content.X + content.W*0.2, Y: content.Bottom() - school.Height, W: content.W * 0.6, H: school.Height}
	if !school.Empty() {
		f.Add(fill(schoolBox.Inset(-8, 0), White))
		f.Place(school, schoolBox.X, schoolBox.Y)
	}

	// 科目气泡：胶囊形，上方挂 SUBJECT 标签，下方挂详情框。
	midTop := nameBox.Bottom() + 8
	midBottom := schoolBox.Y - 16
	h := math.Min(120, midBottom-midTop)
	bubble := Box{X: content.X, Y: midTop + (midBottom-midTop-h)/2, W: content.W, H: h}
	f.Add(shadow(bubble, 3, h/2), fill(bubble, MustColor("#fefce8")).rounded(h/2).stroked(Black, 2))

	tag := Box{X: bubble.X + bubble.W/2 - 32, Y: bubble.Y - 12, W: 64, H: 16}
	f.Add(fill(tag, White).stroked(Black, 1))
	f.Label("SUBJECT", 12, true, Black, tag)

	inner := bubble.Inset(16, 16)
	f.Column(inner, 0, f.Build(s.Subject, inner.W, Black))

	details := f.Build(s.CompactDetails, bubble.W*0.6-16, Black)
	if !details.Empty() {
		box := Box{X: bubble.X + bubble.W*0.2, W: bubble.W * 0.6, H: details.Height + 8}
		box.Y = bubble.Bottom() + 16 - box.H
		f.Add(shadow(box, 2, 4), fill(box, White).rounded(4).stroked(Black, 1))
		f.Place(details, box.X+8, box.Y+4)
	}

	if s.Image != "" {
		frame := Box{X: bounds.Right() - 88, Y: bounds.Bottom() - 88, W: 80, H: 80}
		f.Add(shadow(frame, 3, 8), fill(frame, White).rounded(8).stroked(Black, 2))
		f.Image(s.Image, frame.Inset(6, 6))
	}
}

// ---- classic ----

type classic struct{}

func (classic) ID() card.TemplateID { return card.TemplateClassic }

func (classic) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	inner := bounds.Inset(4, 4)
	f.Add(border(bounds, 1, edgeLight), border(inner, 2, Black))

	left, right := inner.SplitX(inner.W * 0.7)
	left = left.Inset(4, inner.H*0.01)
	name := f.Build(s.Name, left.W, Black)
	school := f.Build(s.School, left.W, Black)
	_, mid, _ := f.Split(left, 4, name, Join(0, school, spacer(2)))

	// 中间区域上下各外扩 8，让科目和详情更紧凑。
	mid = Box{X: mid.X + 8, Y: mid.Y - 8, W: mid.W - 16, H: mid.H + 16}
	subject := f.Build(s.Subject, mid.W, Black)
	details := f.Build(s.Details, mid.W, Black)
	f.Column(mid, 2, subject, details)

	photo := Box{X: right.X, W: right.W + 8, H: (right.H + 8) * 0.95}
	photo.Y = right.Bottom() + 8 - 4 - photo.H
	f.Image(s.Image, photo, bottomAligned)
}

// ---- retro ----

type retro struct{}

func (retro) ID() card.TemplateID { return card.TemplateRetro }

var (
	retroEdge  = MustColor("#5c4033")
	retroInk   = MustColor("#3e2723")
	retroMuted = MustColor("#5d4037")
	retroRule  = MustColor("#8d6e63")
)

func (retro) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.drawing.Background = MustColor("#fffbeb")
	f.Add(
		border(bounds, 1, edgeLight).rounded(2),
		border(bounds, 2, retroEdge),
		border(bounds.Inset(4, 4), 2, retroEdge),
	)
	// 四角的菱形装饰，超出名片的部分被裁掉。
	const d = 16 * math.Sqrt2
	for _, c := range []Point{{0, 0}, {bounds.W, 0}, {0, bounds.H}, {bounds.W, bounds.H}} {
		f.Add(polygon(White,
			Point{c.X, c.Y - d}, Point{c.X + d, c.Y}, Point{c.X, c.Y + d}, Point{c.X - d, c.Y},
		).stroked(retroEdge, 1))
	}

	content := bounds.Inset(8, 8)
	name := f.Build(s.Name, content.W-32, retroInk)
	school := f.Build(s.School, content.W-32, retroMuted)
	top := Join(0, spacer(4), name)
	bottom := Join(0, spacer(1), school, spacer(2))
	f.Place(top, content.X+16, content.Y)
	schoolY := content.Bottom() - bottom.Height
	f.Place(bottom, content.X+16, schoolY)
	f.Add(hline(content.X, content.Right(), schoolY, retroRule, 1).dashed(1, 2))

	band := Box{X: content.X, Y: content.Y + top.Height + 2, W: content.W}
	band.H = schoolY - 2 - band.Y
	f.Add(
		fill(band, White).alpha(0.5),
		hline(band.X, band.Right(), band.Y, retroRule, 1),
		hline(band.X, band.Right(), band.Bottom(), retroRule, 1),
	)
	inner := band.Inset(0, 4)
	subject := f.Build(s.Subject, inner.W, retroInk)
	details := f.Build(s.Details, inner.W, retroMuted)
	f.Column(inner, 6, subject, details)

	photo := Box{W: bounds.W * 0.25, H: bounds.H * 0.5}
	photo.X = bounds.Right() - 4 - photo.W
	photo.Y = bounds.Bottom() - 4 - photo.H
	f.Image(s.Image, photo, bottomAligned, faded(0.8))
}

// ---- sketchy ----

type sketchy struct{}

func (sketchy) ID() card.TemplateID { return card.TemplateSketchy }

func (sketchy) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.Add(border(bounds, 1, edgeLight), border(bounds.Inset(4, 4), 2, Black))
	// 左上与右下的手绘角标（右下为左上旋转 180°）。
	f.Add(
		line(Black, 4, quad(Point{-10, 10}, Point{20, 5}, Point{40, -10})...),
		polygon(Black, Point{0, 0}, Point{30, 0}, Point{0, 30}),
		line(Black, 4, quad(Point{bounds.W + 10, bounds.H - 10}, Point{bounds.W - 20, bounds.H - 5}, Point{bounds.W - 40, bounds.H + 10})...),
		polygon(Black, Point{bounds.W, bounds.H}, Point{bounds.W - 30, bounds.H}, Point{bounds.W, bounds.H - 30}),
	)

	inner := bounds.Inset(3, 3)
	content := Box{X: inner.X + bounds.W*0.04, Y: inner.Y + bounds.W*0.02, W: inner.W - bounds.W*0.08}
	content.H = inner.Bottom() - content.Y
	left, right := content.SplitX(content.W * 0.65)
	left = Box{X: left.X + 8, Y: left.Y, W: left.W - 8, H: left.H - 4}

	name := f.Build(s.Name, left.W, Black)
	subject := f.Build(s.Subject, left.W, Black)
	details := f.Build(s.Details, left.W, Black)
	school := f.Build(s.School, left.W, Black)
	f.Column(left, 4, name, Join(4, subject, details), school)

	photo := Box{X: right.X, W: right.W + 8, H: (right.H - 4) * 0.9}
	photo.Y = right.Bottom() - 4 - photo.H
	f.Image(s.Image, photo, bottomAligned)
}

// ---- floral ----

type floral struct{}

func (floral) ID() card.TemplateID { return card.TemplateFloral }

func (floral) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.Add(border(bounds, 1, edgeLight), border(bounds.Inset(6, 6), 1, MustColor("#555555")))
	// 四角的圆弧花边：外角半径 24，两条边长 64。
	const (
		m = 10.0 // 8 的外边距加半个线宽
		l = 62.0
		r = 24.0
	)
	corner := func(c, a, b Point) Shape {
		pts := append([]Point{a}, quad(Point{c.X + (a.X-c.X)*r/l, c.Y + (a.Y-c.Y)*r/l}, c, Point{c.X + (b.X-c.X)*r/l, c.Y + (b.Y-c.Y)*r/l})...)
		return line(gray600, 4, append(pts, b)...).alpha(0.2)
	}
	w, h := bounds.W, bounds.H
	f.Add(
		corner(Point{m, m}, Point{m, m + l}, Point{m + l, m}),
		corner(Point{w - m, m}, Point{w - m - l, m}, Point{w - m, m + l}),
		corner(Point{m, h - m}, Point{m, h - m - l}, Point{m + l, h - m}),
		corner(Point{w - m, h - m}, Point{w - m - l, h - m}, Point{w - m, h - m - l}),
	)

	pad := bounds.W * 0.03
	content := bounds.Inset(pad, pad)
	name := f.Build(s.Name, content.W, Black)
	school := f.Build(s.School, content.W, Black)
	top, mid, bottom := f.Split(content, 4, Join(0, name, spacer(4)), Join(0, spacer(4), school, spacer(2)))
	f.Add(
		hline(content.X, content.Right(), top.Bottom(), gray300, 1),
		hline(content.X, content.Right(), bottom.Y, gray300, 1),
	)

	f.Image(s.Image, mid, faded(0.1), grayscale)
	inner := mid.Inset(0, 4)
	subject := f.Build(s.Subject, inner.W, Black)
	details := f.Build(s.Details, inner.W, Black)
	f.Column(inner, 4, subject, details)
}

// ---- bold ----

type boldPanel struct{}

func (boldPanel) ID() card.TemplateID { return card.TemplateBold }

func (boldPanel) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	panel := pick(s.Mono, MustColor("#222222"), s.Theme.Background)
	edge := pick(s.Mono, Black, s.Theme.Border)
	f.Add(border(bounds, 1, edgeLighter), border(bounds, 4, edge).rounded(8))

	inner := bounds.Inset(4, 4)
	side, body := inner.SplitX(bounds.W * 0.3)
	f.Add(fill(side, panel), line(edge, 2, Point{side.Right() - 1, side.Y}, Point{side.Right() - 1, side.Bottom()}))
	if s.Image != "" {
		photo := side.Inset(12, 12)
		f.Image(s.Image, photo, cover)
	}

	content := body.Inset(12, 12)
	name := f.Build(s.Name, content.W, Black)
	school := f.Build(s.School, content.W, Gray)
	top, mid, _ := f.Split(content, 4, Join(0, name, spacer(4)), Join(0, spacer(4), school))
	f.Add(hline(content.X, content.Right(), top.Bottom()-1, gray100, 2))

	subject := f.Build(s.Subject, mid.W, pick(s.Mono, Black, s.Theme.Text))
	details := f.Build(s.Details, mid.W, Gray)
	f.Column(mid, 4, subject, details)
}

// ---- pattern ----

type pattern struct{}

func (pattern) ID() card.TemplateID { return card.TemplatePattern }

func (pattern) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.Add(border(bounds, 1, edgeLighter), border(bounds, 4, pick(s.Mono, Black, MustColor("#0ea5e9"))).rounded(12))

	pad := bounds.W * 0.04
	content := bounds.Inset(pad, pad)
	name := f.Build(s.Name, content.W, pick(s.Mono, Black, gray800))
	school := f.Build(s.School, content.W-8, gray600)

	bottom := Join(0, spacer(4), school, spacer(4))
	schoolBox := Box{X: content.X, W: content.W, H: bottom.Height}
	schoolBox.Y = content.Bottom() - 4 - schoolBox.H
	f.Add(fill(schoolBox, White).alpha(0.9).rounded(8).stroked(gray100, 1))
	f.Place(bottom, schoolBox.X+4, schoolBox.Y)

	top := f.Place(Join(0, name, spacer(4)), content.X, content.Y)
	f.Add(hline(content.X, content.Right(), top.Bottom()-1, MustColor("#dbeafe"), 2))

	mid := Box{X: content.X, Y: top.Bottom(), W: content.W, H: schoolBox.Y - top.Bottom()}
	left := Box{X: mid.X, Y: mid.Y, W: mid.W * 0.6, H: mid.H}
	right := Box{X: mid.Right() - mid.W*0.35, Y: mid.Y, W: mid.W * 0.35, H: mid.H}
	subject := f.Build(s.Subject, left.W, pick(s.Mono, Black, MustColor("#0284c7")))
	details := f.Build(s.Details, left.W-8, Gray)
	f.Column(left, 4, subject, indent(details, 8))
	f.Image(s.Image, right)
}

// indent 把块整体右移 dx。
func indent(b Block, dx float64) Block {
	boxes := b.At(dx, 0)
	return Block{Width: b.Width + dx, Height: b.Height, Boxes: boxes}
}

// ---- modern ----

type modern struct{}

func (modern) ID() card.TemplateID { return card.TemplateModern }

func (modern) Compose(f *Frame, s Slots) {
	bounds := f.Bounds()
	f.Add(border(bounds, 1, edgeFaint))
	f.Add(fill(Box{W: 12, H: bounds.H}, pick(s.Mono, MustColor("#333333"), s.Theme.Border)))

	row := Box{X: 12, W: bounds.W - 12, H: bounds.H}
	body, aside := row.SplitX(row.W - 100)
	f.Add(fill(aside, pick(s.Mono, gray50, s.Theme.Background)))
	f.Image(s.Image, aside.Inset(4, 4))

	pad := bounds.W * 0.03
	content := body.Inset(pad, pad)
	name := f.Build(s.Name, content.W, pick(s.Mono, Black, gray800))
	school := f.Build(s.School, content.W, Gray)
	var bottom Block
	if !school.Empty() {
		bottom = Join(0, spacer(4), school, spacer(4))
	}
	_, mid, schoolBox := f.Split(content, 4, name, bottom)
	if !bottom.Empty() {
		f.Add(hline(content.X, content.Right(), schoolBox.Y, gray100, 1))
	}

	mid = mid.Inset(0, 4)
	subject := f.Build(s.Subject, mid.W, pick(s.Mono, Black, s.Theme.Text))
	details := f.Build(s.Details, mid.W-4, gray700)
	f.Column(mid, 4, subject, indent(details, 4))
}
