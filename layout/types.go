package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/script"
)

// 该文件定义排版结果，供模板排版、整页拼版、渲染与调试 JSON 共用。
// 所有坐标以逻辑单位表示，原点在左上角。

// Drawing 是一张排好版的名片或整页。
// 绘制顺序：Shapes → Images → Texts。
type Drawing struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Background Color      `json:"background"`
	Shapes     []Shape    `json:"shapes,omitempty"`
	Images     []ImageBox `json:"images,omitempty"`
	Texts      []TextBox  `json:"texts,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// 常用颜色。
var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
	Gray  = Color{128, 128, 128}
)

// ParseColor 解析 #rgb / #rrggbb / #rrggbbaa（忽略透明度）。
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		value = strings.Repeat(value[0:1], 2) + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2)
	case 6, 8:
		value = value[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

// MustColor 供包内常量调色板使用。
func MustColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Font 选择字体族与字形变体。
type Font struct {
	Script script.Script `json:"script"`
	Bold   bool          `json:"bold,omitempty"`
	Italic bool          `json:"italic,omitempty"`
}

// Span 是一行中使用同一字体的一段文本。
type Span struct {
	Text  string  `json:"text"`
	Font  Font    `json:"font"`
	Width float64 `json:"width"`
}

// TextLine 表示排版后的一行文本及其宽高。
type TextLine struct {
	Spans     []Span  `json:"spans"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Content 拼接一行中全部片段的文本。
func (l TextLine) Content() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// TextBox 是一个已经排好坐标的字段文本块。
type TextBox struct {
	Field    card.Field `json:"field"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	FontSize float64    `json:"fontSize"`
	Color    Color      `json:"color"`
	Align    card.Align `json:"align"`
	Lines    []TextLine `json:"lines"`
}

// Content 以换行连接各行文本。
func (tb TextBox) Content() string {
	parts := make([]string, len(tb.Lines))
	for i, ln := range tb.Lines {
		parts[i] = ln.Content()
	}
	return strings.Join(parts, "\n")
}

// ImageBox 用于描述照片位置与尺寸；默认按 contain 方式缩放并居中，Cover 时裁剪填满。
type ImageBox struct {
	Path      string  `json:"path"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Cover     bool    `json:"cover,omitempty"`
	Bottom    bool    `json:"bottom,omitempty"` // contain 时贴底对齐
	Opacity   float64 `json:"opacity"`
	Grayscale bool    `json:"grayscale,omitempty"`
}

// ShapeKind 区分基本图形。
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeLine    ShapeKind = "line"
	ShapeCircle  ShapeKind = "circle"
	ShapePolygon ShapeKind = "polygon"
)

// Point 是一个坐标点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape 是按顺序绘制的基本图形。
// rect 使用 X/Y/Width/Height/Radius；line 把 Points 连成折线；
// circle 使用 X/Y 作为圆心、Radius；polygon 使用 Points。
type Shape struct {
	Kind        ShapeKind `json:"kind"`
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Points      []Point   `json:"points,omitempty"`
	StrokeColor Color     `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"` // <=0 表示不描边
	Dash        []float64 `json:"dash,omitempty"`
	FillColor   *Color    `json:"fillColor,omitempty"` // 为空表示不填充
	Opacity     float64   `json:"opacity,omitempty"`   // 0 视为不透明
}

// Box 是一个矩形区域。
type Box struct {
	X, Y, W, H float64
}

// Inset 四边各收缩 dx/dy。
func (b Box) Inset(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W - 2*dx, H: b.H - 2*dy}
}

// Right 返回右边界。
func (b Box) Right() float64 { return b.X + b.W }

// Bottom 返回下边界。
func (b Box) Bottom() float64 { return b.Y + b.H }

// SplitX 在距左边 w 处切分为左右两块。
func (b Box) SplitX(w float64) (Box, Box) {
	return Box{X: b.X, Y: b.Y, W: w, H: b.H}, Box{X: b.X + w, Y: b.Y, W: b.W - w, H: b.H}
}
