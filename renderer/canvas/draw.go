package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/layout"
)

// paint 按 Shapes → Images → Texts 的顺序把排版结果画到新画布上。
// k 是逻辑单位到画布单位的比例：光栅化时为 1，矢量 PDF 时为毫米换算系数。
func (r *Renderer) paint(d *layout.Drawing, k float64) (*canvas.Canvas, error) {
	c := canvas.New(d.Width*k, d.Height*k)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	ctx.SetFillColor(colorFromLayout(d.Background, 1))
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(d.Width*k, d.Height*k))

	for _, s := range d.Shapes {
		drawShape(ctx, s, k)
	}
	for _, img := range d.Images {
		if err := r.drawImage(ctx, img, k); err != nil {
			return nil, err
		}
	}
	for _, tb := range d.Texts {
		if err := r.drawTextBox(ctx, tb, k); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var transparent = color.RGBA{0, 0, 0, 0}

func drawShape(ctx *canvas.Context, s layout.Shape, k float64) {
	if s.FillColor != nil {
		ctx.SetFillColor(colorFromLayout(*s.FillColor, s.Opacity))
	} else {
		ctx.SetFillColor(transparent)
	}
	if s.StrokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(s.StrokeColor, s.Opacity))
		ctx.SetStrokeWidth(s.StrokeWidth * k)
	} else {
		ctx.SetStrokeColor(transparent)
	}
	dashes := make([]float64, len(s.Dash))
	for i, d := range s.Dash {
		dashes[i] = d * k
	}
	ctx.SetDashes(0, dashes...)

	switch s.Kind {
	case layout.ShapeRect:
		p := canvas.Rectangle(s.Width*k, s.Height*k)
		if s.Radius > 0 {
			p = canvas.RoundedRectangle(s.Width*k, s.Height*k, s.Radius*k)
		}
		ctx.DrawPath(s.X*k, s.Y*k, p)
	case layout.ShapeCircle:
		ctx.DrawPath(s.X*k, s.Y*k, canvas.Circle(s.Radius*k))
	case layout.ShapeLine, layout.ShapePolygon:
		if len(s.Points) < 2 {
			return
		}
		p := &canvas.Path{}
		p.MoveTo(s.Points[0].X*k, s.Points[0].Y*k)
		for _, pt := range s.Points[1:] {
			p.LineTo(pt.X*k, pt.Y*k)
		}
		if s.Kind == layout.ShapePolygon {
			p.Close()
		}
		ctx.DrawPath(0, 0, p)
	}
	ctx.SetDashes(0)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, k float64) error {
	cursorY := tb.Y
	for _, line := range tb.Lines {
		cursorY += line.GapBefore

		var x float64
		switch tb.Align {
		case card.AlignLeft:
			x = tb.X
		case card.AlignRight:
			x = tb.X + tb.Width - line.Width
		default:
			x = tb.X + (tb.Width-line.Width)/2
		}

		faces := make([]*canvas.FontFace, len(line.Spans))
		ascent, descent := 0.0, 0.0
		for i, span := range line.Spans {
			face, err := r.fontFace(span.Font, tb.FontSize*k, tb.Color)
			if err != nil {
				return err
			}
			faces[i] = face
			m := face.Metrics()
			ascent = math.Max(ascent, m.Ascent)
			descent = math.Max(descent, math.Abs(m.Descent))
		}
		// 基线：行框内垂直居中后，再加上上升部。
		baseline := cursorY*k + (line.Height*k-ascent-descent)/2 + ascent

		for i, span := range line.Spans {
			ctx.DrawText(x*k, baseline, canvas.NewTextLine(faces[i], span.Text, canvas.Left))
			x += span.Width
		}
		cursorY += line.Height
	}
	return nil
}
