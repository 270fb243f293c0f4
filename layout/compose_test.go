package layout

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/script"
)

// stubTypesetter 是一个最小实现：每个字符宽度为字号的一半，避免测试依赖真实字体。
type stubTypesetter struct {
	err error
}

func (s *stubTypesetter) Measure(text string, font Font, size float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return float64(utf8.RuneCountInString(text)) * size * 0.5, nil
}

func sampleSpec() card.Spec {
	return card.NewSpec().
		WithText(card.FieldFamily, "Perera").
		WithText(card.FieldName, "Kasun").
		WithText(card.FieldSubject, "Math").
		WithText(card.FieldGrade, "Grade 6").
		WithText(card.FieldPhone, "0771234567").
		WithText(card.FieldSchool, "Royal College")
}

func compose(t *testing.T, s card.Spec) Drawing {
	t.Helper()
	d, err := ComposeCard(s, &stubTypesetter{})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return d
}

func textFor(d Drawing, f card.Field) (TextBox, bool) {
	for _, tb := range d.Texts {
		if tb.Field == f {
			return tb, true
		}
	}
	return TextBox{}, false
}

func TestEveryTemplateComposesAllFields(t *testing.T) {
	for _, id := range card.Templates {
		s := sampleSpec()
		s.Template = id
		d := compose(t, s)
		if d.Width != card.Width || d.Height != card.Height {
			t.Fatalf("%s: 尺寸应固定为 %gx%g，实际 %gx%g", id, card.Width, card.Height, d.Width, d.Height)
		}
		for _, f := range card.Fields {
			tb, ok := textFor(d, f)
			if !ok {
				t.Fatalf("%s: 缺少字段 %s", id, f)
			}
			if tb.Content() != s.Text(f) {
				t.Fatalf("%s: 字段 %s 内容 %q，期望 %q", id, f, tb.Content(), s.Text(f))
			}
		}
		if len(d.Shapes) == 0 {
			t.Fatalf("%s: 应包含装饰图形", id)
		}
	}
}

func TestUnknownTemplateFallsBackToModern(t *testing.T) {
	if got := Lookup("nope").ID(); got != card.TemplateModern {
		t.Fatalf("未知模板应回退到 modern，实际 %s", got)
	}
	if len(registry) != len(card.Templates) {
		t.Fatalf("注册的模板数 %d，期望 %d", len(registry), len(card.Templates))
	}
}

func TestNameSizeFollowsResolver(t *testing.T) {
	d := compose(t, sampleSpec())
	tb, _ := textFor(d, card.FieldName)
	if math.Abs(tb.FontSize-1.8*16) > 1e-9 {
		t.Fatalf("姓名字号应为 1.8em，实际 %g", tb.FontSize)
	}
	if !tb.Lines[0].Spans[0].Font.Bold {
		t.Fatalf("学生姓名默认加粗")
	}
	grade, _ := textFor(d, card.FieldGrade)
	if math.Abs(grade.FontSize-1.2*1.1*16) > 1e-9 {
		t.Fatalf("年级字号应为 1.32em，实际 %g", grade.FontSize)
	}
}

func TestLongNameWrapsInsideSlot(t *testing.T) {
	s := sampleSpec().WithText(card.FieldName, "Kasun Chathuranga Wickramasinghe Perera Jayasuriya")
	d := compose(t, s)
	tb, _ := textFor(d, card.FieldName)
	if len(tb.Lines) < 2 {
		t.Fatalf("长姓名应折行，实际 %d 行", len(tb.Lines))
	}
	for _, ln := range tb.Lines {
		if ln.Width > tb.Width+1e-9 {
			t.Fatalf("行宽 %g 超出槽位 %g: %q", ln.Width, tb.Width, ln.Content())
		}
	}
}

func TestMixedSubjectUsesLatinRuns(t *testing.T) {
	s := sampleSpec().
		WithText(card.FieldSubject, "ගණිතය Grade 5").
		WithLanguage(card.FieldSubject, card.LanguageMixed)
	d := compose(t, s)
	tb, _ := textFor(d, card.FieldSubject)
	spans := tb.Lines[0].Spans
	if len(spans) != 2 || spans[0].Font.Script != script.Local || spans[1].Font.Script != script.Latin {
		t.Fatalf("混排科目应分为本地+拉丁两段，实际 %+v", spans)
	}
}

func TestBlankSubjectKeepsLayout(t *testing.T) {
	for _, id := range card.Templates {
		s := sampleSpec().WithText(card.FieldSubject, "")
		s.Template = id
		d := compose(t, s)
		if _, ok := textFor(d, card.FieldSubject); ok {
			t.Fatalf("%s: 空科目不应产生文本", id)
		}
		if _, ok := textFor(d, card.FieldName); !ok {
			t.Fatalf("%s: 空科目名片仍需姓名", id)
		}
	}
}

func TestImageSlotEmptyWithoutPath(t *testing.T) {
	for _, id := range card.Templates {
		s := sampleSpec()
		s.Template = id
		if d := compose(t, s); len(d.Images) != 0 {
			t.Fatalf("%s: 没有照片时不应放置图片，实际 %d", id, len(d.Images))
		}
		s.ImagePath = "photo.png"
		if d := compose(t, s); len(d.Images) != 1 {
			t.Fatalf("%s: 有照片时应放置一张图片，实际 %d", id, len(d.Images))
		}
	}
}

func TestMonochromeKeepsGeometry(t *testing.T) {
	for _, id := range card.Templates {
		s := sampleSpec()
		s.Template = id
		s.ImagePath = "photo.png"
		colored := compose(t, s)
		s.ColorMode = card.ColorModeMono
		mono := compose(t, s)

		if len(colored.Shapes) != len(mono.Shapes) || len(colored.Texts) != len(mono.Texts) {
			t.Fatalf("%s: 黑白模式改变了元素数量", id)
		}
		for i := range colored.Shapes {
			a, b := colored.Shapes[i], mono.Shapes[i]
			if a.X != b.X || a.Y != b.Y || a.Width != b.Width || a.Height != b.Height || len(a.Points) != len(b.Points) {
				t.Fatalf("%s: 第 %d 个图形几何不同", id, i)
			}
			assertNeutral(t, b.StrokeColor)
			if b.FillColor != nil {
				assertNeutral(t, *b.FillColor)
			}
		}
		for i := range colored.Texts {
			if colored.Texts[i].X != mono.Texts[i].X || colored.Texts[i].Y != mono.Texts[i].Y {
				t.Fatalf("%s: 第 %d 个文本位置不同", id, i)
			}
			assertNeutral(t, mono.Texts[i].Color)
		}
		for _, img := range mono.Images {
			if !img.Grayscale {
				t.Fatalf("%s: 黑白模式的照片应为灰度", id)
			}
		}
	}
}

func assertNeutral(t *testing.T, c Color) {
	t.Helper()
	lo := min(c.R, c.G, c.B)
	hi := max(c.R, c.G, c.B)
	if hi-lo > 1 {
		t.Fatalf("颜色 %s 不是中性灰", c.Hex())
	}
}

func TestStyleColorOverridesTemplateColor(t *testing.T) {
	s := sampleSpec().WithStyle(card.FieldSchool, card.Style{Color: "#123456"})
	d := compose(t, s)
	tb, _ := textFor(d, card.FieldSchool)
	if tb.Color.Hex() != "#123456" {
		t.Fatalf("样式颜色应覆盖模板颜色，实际 %s", tb.Color.Hex())
	}
}

func TestTypesetterErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	_, err := ComposeCard(sampleSpec(), &stubTypesetter{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("排版错误应向上传递，实际 %v", err)
	}
}
