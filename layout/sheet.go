package layout

import (
	"fmt"

	"github.com/ByLCY/namecard/card"
)

// 一页 A4 上的名片网格。
const (
	SheetColumns  = 2
	SheetRows     = 4
	SheetCapacity = SheetColumns * SheetRows
	sheetGap      = 8.0
)

// SheetSize 返回 A4 纸在逻辑单位下的宽高。
func SheetSize() (float64, float64) {
	return MMToUnits(A4WidthMM), MMToUnits(A4HeightMM)
}

// SheetSlot 返回第 i 张名片在整页上的区域（按行优先填充）。
func SheetSlot(i int) Box {
	w, h := SheetSize()
	gridW := SheetColumns*card.Width + (SheetColumns-1)*sheetGap
	gridH := SheetRows*card.Height + (SheetRows-1)*sheetGap
	col, row := i%SheetColumns, i/SheetColumns
	return Box{
		X: (w-gridW)/2 + float64(col)*(card.Width+sheetGap),
		Y: (h-gridH)/2 + float64(row)*(card.Height+sheetGap),
		W: card.Width,
		H: card.Height,
	}
}

// ComposeSheet 把至多 8 张排好版的名片拼到一页白色 A4 上，顺序保持不变。
func ComposeSheet(cards []Drawing) (Drawing, error) {
	if len(cards) > SheetCapacity {
		return Drawing{}, fmt.Errorf("一页最多 %d 张名片，实际 %d 张", SheetCapacity, len(cards))
	}
	w, h := SheetSize()
	sheet := Drawing{Width: w, Height: h, Background: White}
	for i, c := range cards {
		slot := SheetSlot(i)
		// 每张名片的背景先画成底色矩形，其余元素裁到名片范围内再整体平移。
		sheet.Shapes = append(sheet.Shapes, fill(slot, c.Background))
		bounds := Box{W: c.Width, H: c.Height}
		for _, shape := range c.Shapes {
			for _, s := range clipShape(shape, bounds) {
				sheet.Shapes = append(sheet.Shapes, translate(s, slot.X, slot.Y))
			}
		}
		for _, img := range c.Images {
			img.X += slot.X
			img.Y += slot.Y
			sheet.Images = append(sheet.Images, img)
		}
		for _, tb := range c.Texts {
			tb.X += slot.X
			tb.Y += slot.Y
			sheet.Texts = append(sheet.Texts, tb)
		}
	}
	return sheet, nil
}

func translate(s Shape, dx, dy float64) Shape {
	s.X += dx
	s.Y += dy
	if len(s.Points) > 0 {
		pts := make([]Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = Point{X: p.X + dx, Y: p.Y + dy}
		}
		s.Points = pts
	}
	return s
}
