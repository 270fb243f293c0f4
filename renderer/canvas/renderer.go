package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/namecard/fonts"
	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/renderer"
	"github.com/ByLCY/namecard/script"
)

// Renderer draws layout drawings via github.com/tdewolff/canvas.
// It is at the same time the Typesetter used by layout, so measured widths
// and drawn glyphs come from the same font faces.
type Renderer struct {
	baseDir string
	confine bool
	latin   fonts.Set
	local   fonts.Set

	fontMu   sync.Mutex
	families map[script.Script]*canvas.FontFamily

	imageMu  sync.Mutex
	decoded  map[string]decodedImage
	prepared map[imageKey]preparedImage

	commitMu  sync.Mutex
	committed map[string]*canvas.Canvas
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ renderer.Rasterizer = (*Renderer)(nil)
	_ renderer.Committer  = (*Renderer)(nil)
	_ layout.Typesetter   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string    // photo paths are resolved against it
	Confine bool      // only relative paths inside BaseDir; for untrusted input
	Latin   fonts.Set // defaults to fonts.Latin()
	Local   fonts.Set // defaults to fonts.Sans()
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving photos.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with the given font sets.
func NewRendererWithOptions(opts Options) *Renderer {
	if len(opts.Latin.Regular) == 0 {
		opts.Latin = fonts.Latin()
	}
	if len(opts.Local.Regular) == 0 {
		opts.Local = fonts.Sans()
	}
	return &Renderer{
		baseDir:   opts.BaseDir,
		confine:   opts.Confine,
		latin:     opts.Latin,
		local:     opts.Local,
		families:  map[script.Script]*canvas.FontFamily{},
		decoded:   map[string]decodedImage{},
		prepared:  map[imageKey]preparedImage{},
		committed: map[string]*canvas.Canvas{},
	}
}

// Measure 实现 layout.Typesetter：返回文本在 size 字号下的宽度（逻辑单位）。
func (r *Renderer) Measure(text string, font layout.Font, size float64) (float64, error) {
	face, err := r.fontFace(font, size, layout.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render 把一张排版结果输出为单页矢量 PDF，页面尺寸按 96 dpi 换算成毫米。
func (r *Renderer) Render(d *layout.Drawing) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	k := layout.UnitsToMM(1)
	var buf bytes.Buffer
	writer := pdf.New(&buf, d.Width*k, d.Height*k, nil)
	writer.SetInfo("Name card", "", "", "", "namecard")
	c, err := r.paint(d, k)
	if err != nil {
		return nil, err
	}
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// fontFace 返回 size（逻辑单位下的 1em）对应的字体面。
// canvas 的长度单位视为逻辑单位，字号需要换算为 pt。
func (r *Renderer) fontFace(font layout.Font, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font.Script)
	if err != nil {
		return nil, err
	}
	return family.Face(size*layout.MmToPt, colorFromLayout(col, 1), fontStyle(font), canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(sc script.Script) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[sc]; ok {
		return family, nil
	}
	set := r.local
	if sc == script.Latin {
		set = r.latin
	}
	family := canvas.NewFontFamily(set.Name)
	// 四种字形都注册一次，缺失的字形由 Pick 回退，保证 Face 总能找到字体。
	for _, v := range []struct {
		bold, italic bool
		style        canvas.FontStyle
	}{
		{false, false, canvas.FontRegular},
		{true, false, canvas.FontBold},
		{false, true, canvas.FontItalic},
		{true, true, canvas.FontBold | canvas.FontItalic},
	} {
		if err := family.LoadFont(set.Pick(v.bold, v.italic), 0, v.style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", set.Name, err)
		}
	}
	r.families[sc] = family
	return family, nil
}

func fontStyle(font layout.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if font.Bold {
		style = canvas.FontBold
	}
	if font.Italic {
		style |= canvas.FontItalic
	}
	return style
}

func colorFromLayout(c layout.Color, opacity float64) color.Color {
	if opacity <= 0 {
		opacity = 1
	}
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, opacity)
}
