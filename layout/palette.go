package layout

import (
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme 是一组 {边框, 背景, 文字} 主题色。
type Theme struct {
	Border     Color `json:"border"`
	Background Color `json:"background"`
	Text       Color `json:"text"`
}

// palette 依次为红、蓝、绿、琥珀、紫。
var palette = [...]Theme{
	{Border: MustColor("#ef4444"), Background: MustColor("#fef2f2"), Text: MustColor("#991b1b")},
	{Border: MustColor("#3b82f6"), Background: MustColor("#eff6ff"), Text: MustColor("#1e40af")},
	{Border: MustColor("#10b981"), Background: MustColor("#ecfdf5"), Text: MustColor("#065f46")},
	{Border: MustColor("#f59e0b"), Background: MustColor("#fffbeb"), Text: MustColor("#92400e")},
	{Border: MustColor("#8b5cf6"), Background: MustColor("#f5f3ff"), Text: MustColor("#5b21b6")},
}

// PaletteIndex 只取决于科目文字的长度（按字符计）。
func PaletteIndex(subject string) int {
	return utf8.RuneCountInString(subject) % len(palette)
}

// ThemeFor 返回科目对应的主题色。
func ThemeFor(subject string) Theme { return palette[PaletteIndex(subject)] }

// Neutral 把颜色换成亮度相同的中性灰。
func Neutral(c Color) Color {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	_, _, l := cf.Hcl()
	r, g, b := colorful.Hcl(0, 0, l).Clamped().RGB255()
	return Color{R: int(r), G: int(g), B: int(b)}
}

// Monochrome 对整张图去色：几何不变，只替换颜色并把照片标记为灰度。
func Monochrome(d *Drawing) {
	d.Background = Neutral(d.Background)
	for i := range d.Shapes {
		s := &d.Shapes[i]
		s.StrokeColor = Neutral(s.StrokeColor)
		if s.FillColor != nil {
			c := Neutral(*s.FillColor)
			s.FillColor = &c
		}
	}
	for i := range d.Images {
		d.Images[i].Grayscale = true
	}
	for i := range d.Texts {
		d.Texts[i].Color = Neutral(d.Texts[i].Color)
	}
}
