package layout

import (
	"fmt"

	"github.com/ByLCY/namecard/card"
)

// ComposeCard 按 Spec 选择的模板排版一张名片。
// 纯函数：相同的 Spec 与排版后端总是得到相同的结果。
func ComposeCard(s card.Spec, ts Typesetter) (Drawing, error) {
	if ts == nil {
		return Drawing{}, fmt.Errorf("未提供 Typesetter")
	}
	c := &composer{spec: s, ts: ts}
	compact := &composer{spec: s, ts: ts, base: 12}
	slots := Slots{
		Name:           c.NameBlock,
		Subject:        c.SubjectLine,
		Details:        c.DetailsGroup,
		School:         c.SchoolLine,
		CompactDetails: compact.DetailsGroup,
		Image:          s.ImagePath,
		Theme:          ThemeFor(s.Subject),
		Mono:           s.Mono(),
	}

	tpl := Lookup(s.TemplateID())
	f := newFrame(ts, White)
	tpl.Compose(f, slots)
	if err := f.Err(); err != nil {
		return Drawing{}, fmt.Errorf("排版模板 %s 失败: %w", tpl.ID(), err)
	}
	d := f.drawing
	if slots.Mono {
		Monochrome(&d)
	}
	return d, nil
}
