package card

import (
	"slices"

	"github.com/google/uuid"
)

// BatchItem 是用户添加的一条科目及数量，携带创建时的 Spec 快照。
type BatchItem struct {
	ID       string `yaml:"id" json:"id" validate:"required"`
	Name     string `yaml:"name" json:"name"`
	Count    int    `yaml:"count" json:"count" validate:"gte=1"`
	Snapshot Spec   `yaml:"-" json:"-"`
}

// NewBatchItem 以 spec 的深拷贝作为快照创建条目；count 小于 1 时按 1 处理。
func NewBatchItem(name string, count int, spec Spec) BatchItem {
	if count < 1 {
		count = 1
	}
	return BatchItem{
		ID:       uuid.NewString(),
		Name:     name,
		Count:    count,
		Snapshot: spec.Clone(),
	}
}

// LanguageRules 描述切换全局语言时对个别字段的强制语言。
type LanguageRules map[Language]map[Field]Language

// DefaultLanguageRules：全局切到本地文字时，姓氏改用拉丁字体。
var DefaultLanguageRules = LanguageRules{
	LanguageLocal: {FieldFamily: LanguageLatin},
}

// Config 是编辑表单的完整快照：当前 Spec 加上已添加的科目列表。
//
// 所有修改方法都返回新的 Config。
type Config struct {
	Spec     Spec
	Subjects []BatchItem
	Language Language
	Rules    LanguageRules
}

// NewConfig 返回默认配置。
func NewConfig() Config {
	return Config{Spec: NewSpec(), Language: LanguageMixed}
}

func (c Config) clone() Config {
	out := c
	out.Spec = c.Spec.Clone()
	out.Subjects = slices.Clone(c.Subjects)
	return out
}

// WithSpec 替换当前 Spec；已有条目的快照不受影响。
func (c Config) WithSpec(s Spec) Config {
	out := c.clone()
	out.Spec = s.Clone()
	return out
}

// Update 对当前 Spec 应用 fn 并返回新 Config。
func (c Config) Update(fn func(Spec) Spec) Config {
	return c.WithSpec(fn(c.Spec.Clone()))
}

// WithGlobalLanguage 设置全局语言，并按规则表覆盖个别字段的语言。
// 未设置 Rules 时使用 DefaultLanguageRules。
func (c Config) WithGlobalLanguage(l Language) Config {
	out := c.clone()
	out.Language = l
	rules := c.Rules
	if rules == nil {
		rules = DefaultLanguageRules
	}
	for f, forced := range rules[l] {
		out.Spec = out.Spec.WithLanguage(f, forced)
	}
	return out
}

// AddSubject 以当前 Spec 的快照追加一个条目。
func (c Config) AddSubject(name string, count int) Config {
	out := c.clone()
	out.Subjects = append(out.Subjects, NewBatchItem(name, count, c.Spec))
	return out
}

// AddBlank 追加空白（手写）名片条目。
func (c Config) AddBlank(count int) Config {
	return c.AddSubject("", count)
}

// RemoveSubject 删除指定 id 的条目。
func (c Config) RemoveSubject(id string) Config {
	out := c.clone()
	out.Subjects = slices.DeleteFunc(out.Subjects, func(it BatchItem) bool { return it.ID == id })
	return out
}

// ReplaceSubjects 整体重写条目列表。
func (c Config) ReplaceSubjects(items []BatchItem) Config {
	out := c.clone()
	out.Subjects = make([]BatchItem, len(items))
	for i, it := range items {
		it.Snapshot = it.Snapshot.Clone()
		out.Subjects[i] = it
	}
	return out
}
