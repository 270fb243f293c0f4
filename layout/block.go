package layout

import (
	"strings"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/sizing"
)

// 行高系数。
const (
	leadingNone   = 1.0
	leadingTight  = 1.25
	leadingNormal = 1.2
)

const (
	blockPadX        = 4.0  // 子块左右内边距
	blankSubjectLine = 24.0 // 空白（手写）名片的科目占位高度
)

// Block 是一组纵向排列的文本框，坐标相对于块左上角。
type Block struct {
	Width  float64
	Height float64
	Boxes  []TextBox
}

// Empty 报告块是否不占空间。
func (b Block) Empty() bool { return b.Height <= 0 }

// At 返回平移到 (x, y) 的文本框。
func (b Block) At(x, y float64) []TextBox {
	out := make([]TextBox, len(b.Boxes))
	for i, tb := range b.Boxes {
		tb.X += x
		tb.Y += y
		out[i] = tb
	}
	return out
}

// InkWidth 返回块内最宽一行的宽度。
func (b Block) InkWidth() float64 {
	w := 0.0
	for _, tb := range b.Boxes {
		for _, ln := range tb.Lines {
			if ln.Width > w {
				w = ln.Width
			}
		}
	}
	return w
}

// Join 将若干块纵向拼接，块之间留 gap；空块被跳过。
func Join(gap float64, blocks ...Block) Block {
	var out Block
	for _, b := range blocks {
		if b.Empty() {
			continue
		}
		if b.Width > out.Width {
			out.Width = b.Width
		}
		y := out.Height
		if len(out.Boxes) > 0 || out.Height > 0 {
			y += gap
		}
		out.Boxes = append(out.Boxes, b.At(0, y)...)
		out.Height = y + b.Height
	}
	return out
}

// BlockFunc 按给定宽度与颜色排版一个共享子块。
type BlockFunc func(width float64, color Color) (Block, error)

// composer 持有一张名片的 Spec 与排版后端，产出四个共享子块。
type composer struct {
	spec card.Spec
	ts   Typesetter
	base float64 // 1em 对应的逻辑单位
}

// field 排版单个字段：分段、定字号、按宽度折行。
func (c *composer) field(f card.Field, text string, sizeEm float64, width float64, col Color, align card.Align, leading float64, bold bool) (TextBox, error) {
	style := c.spec.Style(f)
	if style.Color != "" {
		if override, err := ParseColor(style.Color); err == nil {
			col = override
		}
	}
	base := c.base
	if base <= 0 {
		base = sizing.BaseUnit
	}
	size := sizeEm * base
	m := &measurer{
		ts:     c.ts,
		lang:   c.spec.Language(f),
		smart:  c.spec.SmartLatin,
		bold:   style.Bold || bold,
		italic: style.Italic,
		size:   size,
	}
	tb := TextBox{Field: f, Width: width, FontSize: size, Color: col, Align: align}
	lineHeight := size * leading
	for _, line := range wrapLines(text, width, m) {
		spans, w := m.spans(line)
		tb.Lines = append(tb.Lines, TextLine{Spans: spans, Width: w, Height: lineHeight})
		tb.Height += lineHeight
	}
	if m.err != nil {
		return TextBox{}, m.err
	}
	return tb, nil
}

func (c *composer) single(f card.Field, width float64, col Color, align card.Align, leading float64, bold bool) (Block, error) {
	text := c.spec.Text(f)
	if strings.TrimSpace(text) == "" {
		return Block{Width: width}, nil
	}
	inner := width - 2*blockPadX
	tb, err := c.field(f, text, sizing.ForSpec(c.spec, f), inner, col, align, leading, bold)
	if err != nil {
		return Block{}, err
	}
	tb.X = blockPadX
	return Block{Width: width, Height: tb.Height, Boxes: []TextBox{tb}}, nil
}

// NameBlock 把姓氏（可选）叠放在学生姓名之上。
func (c *composer) NameBlock(width float64, col Color) (Block, error) {
	family, err := c.single(card.FieldFamily, width, col, c.spec.Align(card.FieldFamily), leadingNone, false)
	if err != nil {
		return Block{}, err
	}
	if !family.Empty() {
		family = Join(0, Block{Width: width, Height: 2}, family, Block{Width: width, Height: 2})
	}
	// 学生姓名始终加粗。
	name, err := c.single(card.FieldName, width, col, c.spec.Align(card.FieldName), leadingTight, true)
	if err != nil {
		return Block{}, err
	}
	return Join(0, family, name), nil
}

// SubjectLine 排版科目；空科目保留一行空白供手写。
func (c *composer) SubjectLine(width float64, col Color) (Block, error) {
	if strings.TrimSpace(c.spec.Subject) == "" {
		return Block{Width: width, Height: blankSubjectLine}, nil
	}
	return c.single(card.FieldSubject, width, col, c.spec.Align(card.FieldSubject), leadingNone, false)
}

// DetailsGroup 把年级叠放在电话之上，两者加粗并共用年级的对齐方式。
func (c *composer) DetailsGroup(width float64, col Color) (Block, error) {
	align := c.spec.Align(card.FieldGrade)
	grade, err := c.single(card.FieldGrade, width, col, align, leadingTight, true)
	if err != nil {
		return Block{}, err
	}
	phone, err := c.single(card.FieldPhone, width, col, align, leadingTight, true)
	if err != nil {
		return Block{}, err
	}
	return Join(4, grade, phone), nil
}

// SchoolLine 排版学校名称；为空时返回空块。
func (c *composer) SchoolLine(width float64, col Color) (Block, error) {
	return c.single(card.FieldSchool, width, col, c.spec.Align(card.FieldSchool), leadingNormal, false)
}
