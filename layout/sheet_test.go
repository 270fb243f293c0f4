package layout

import (
	"testing"

	"github.com/ByLCY/namecard/card"
)

func TestSheetGridFitsA4(t *testing.T) {
	w, h := SheetSize()
	for i := 0; i < SheetCapacity; i++ {
		b := SheetSlot(i)
		if b.X < 0 || b.Y < 0 || b.Right() > w || b.Bottom() > h {
			t.Fatalf("第 %d 个槽位超出 A4: %+v", i, b)
		}
	}
	if SheetSlot(1).Y != SheetSlot(0).Y || SheetSlot(2).X != SheetSlot(0).X {
		t.Fatalf("槽位应按行优先排列")
	}
	if SheetSlot(2).Y <= SheetSlot(0).Bottom() {
		t.Fatalf("相邻行之间应留有间距")
	}
}

func TestComposeSheet(t *testing.T) {
	s := sampleSpec()
	s.Template = card.TemplateRetro
	c := compose(t, s)
	cards := []Drawing{c, c, c}
	sheet, err := ComposeSheet(cards)
	if err != nil {
		t.Fatalf("拼版失败: %v", err)
	}
	if len(sheet.Texts) != 3*len(c.Texts) {
		t.Fatalf("文本数量应为 %d，实际 %d", 3*len(c.Texts), len(sheet.Texts))
	}
	// 第二张名片的姓名应位于第二个槽位内。
	second := sheet.Texts[len(c.Texts)]
	slot := SheetSlot(1)
	if second.X < slot.X || second.X > slot.Right() {
		t.Fatalf("第二张名片的文本不在第二个槽位: x=%g slot=%+v", second.X, slot)
	}
	// 角部装饰被裁到名片范围内。
	for _, sh := range sheet.Shapes {
		for _, p := range sh.Points {
			in := false
			for i := range cards {
				b := SheetSlot(i)
				if p.X >= b.X-1e-9 && p.X <= b.Right()+1e-9 && p.Y >= b.Y-1e-9 && p.Y <= b.Bottom()+1e-9 {
					in = true
				}
			}
			if !in {
				t.Fatalf("图形点 %+v 超出名片范围", p)
			}
		}
	}

	if _, err := ComposeSheet(make([]Drawing, SheetCapacity+1)); err == nil {
		t.Fatalf("超过 8 张应报错")
	}
}

func TestClipPolygonToBox(t *testing.T) {
	b := Box{W: 10, H: 10}
	pts := clipPolygon([]Point{{-5, 5}, {5, -5}, {15, 5}, {5, 15}}, b)
	if len(pts) < 3 {
		t.Fatalf("裁剪后的菱形应保留，实际 %+v", pts)
	}
	for _, p := range pts {
		if p.X < 0 || p.X > 10 || p.Y < 0 || p.Y > 10 {
			t.Fatalf("点 %+v 超出边界", p)
		}
	}
	if got := clipShape(polygon(Black, Point{20, 20}, Point{30, 20}, Point{25, 30}), b); len(got) != 0 {
		t.Fatalf("完全在外的多边形应被丢弃")
	}
}
