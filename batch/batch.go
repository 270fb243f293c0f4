// Package batch 把批量条目展开成具体名片，并按打印页分组。
package batch

import (
	"fmt"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/layout"
)

// 每页 2 列 × 4 行。
const (
	Columns      = layout.SheetColumns
	Rows         = layout.SheetRows
	PageCapacity = layout.SheetCapacity
)

// Instance 是一张具体的名片。
type Instance struct {
	ID     string    `json:"id"` // "{itemId}-{index}"
	ItemID string    `json:"itemId"`
	Index  int       `json:"index"` // 条目内序号，从 0 开始
	Spec   card.Spec `json:"spec"`
}

// Expand 依次展开每个条目：条目 i 产生 count_i 张连续的名片，科目取条目名称。
// 空名称的条目（空白手写卡）同样展开。
func Expand(items []card.BatchItem) []Instance {
	total := 0
	for _, it := range items {
		total += max(it.Count, 0)
	}
	out := make([]Instance, 0, total)
	for _, it := range items {
		for i := 0; i < it.Count; i++ {
			spec := it.Snapshot.Clone()
			spec.Subject = it.Name
			out = append(out, Instance{
				ID:     fmt.Sprintf("%s-%d", it.ID, i),
				ItemID: it.ID,
				Index:  i,
				Spec:   spec,
			})
		}
	}
	return out
}

// Page 是一页上按顺序排列的名片。
type Page struct {
	Number    int        `json:"number"` // 从 1 开始
	Instances []Instance `json:"instances"`
}

// Paginate 按 capacity 分页并保持顺序；最后一页可能不满，零张名片返回零页。
func Paginate(instances []Instance, capacity int) []Page {
	if capacity <= 0 {
		capacity = PageCapacity
	}
	pages := make([]Page, 0, PageCount(len(instances), capacity))
	for start := 0; start < len(instances); start += capacity {
		end := min(start+capacity, len(instances))
		pages = append(pages, Page{Number: len(pages) + 1, Instances: instances[start:end]})
	}
	return pages
}

// PageCount 返回 ceil(n/capacity)。
func PageCount(n, capacity int) int {
	if n <= 0 {
		return 0
	}
	if capacity <= 0 {
		capacity = PageCapacity
	}
	return (n + capacity - 1) / capacity
}

// Flatten 依次拼接各页的名片。
func Flatten(pages []Page) []Instance {
	var out []Instance
	for _, p := range pages {
		out = append(out, p.Instances...)
	}
	return out
}
