package card

import (
	"fmt"
	"strings"
)

// 该文件定义名片的字段、语言、对齐、样式与模板等枚举，供布局、导出与配置共用。

// Field 标识名片上的一个文本字段。
type Field string

const (
	FieldFamily  Field = "family"
	FieldName    Field = "name"
	FieldSubject Field = "subject"
	FieldGrade   Field = "grade"
	FieldPhone   Field = "phone"
	FieldSchool  Field = "school"
)

// Fields 按固定顺序列出全部字段。
var Fields = []Field{FieldFamily, FieldName, FieldSubject, FieldGrade, FieldPhone, FieldSchool}

// ParseField 解析字段名，支持 student/family-name 等别名。
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "family", "family-name", "familyname":
		return FieldFamily, nil
	case "name", "student", "student-name", "studentname":
		return FieldName, nil
	case "subject":
		return FieldSubject, nil
	case "grade":
		return FieldGrade, nil
	case "phone":
		return FieldPhone, nil
	case "school":
		return FieldSchool, nil
	}
	return "", fmt.Errorf("未知字段：%q", s)
}

// Language 决定字段文本使用哪套字体。
type Language string

const (
	LanguageLocal Language = "local"
	LanguageLatin Language = "latin"
	LanguageMixed Language = "mixed"
)

// ParseLanguage 解析语言标记；english/sinhala/both 为界面上的旧称。
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "sinhala":
		return LanguageLocal, nil
	case "latin", "english":
		return LanguageLatin, nil
	case "mixed", "both", "auto":
		return LanguageMixed, nil
	}
	return "", fmt.Errorf("未知语言：%q", s)
}

// Align 是字段的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign 解析对齐方式，start/end 映射为 left/right。
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft, nil
	case "center", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	}
	return "", fmt.Errorf("未知对齐方式：%q", s)
}

// Style 描述字段的字重、斜体与可选颜色（#rrggbb，空表示沿用模板颜色）。
type Style struct {
	Bold   bool   `yaml:"bold" json:"bold"`
	Italic bool   `yaml:"italic" json:"italic"`
	Color  string `yaml:"color,omitempty" json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TemplateID 是封闭的模板枚举。
type TemplateID string

const (
	TemplateMinimal TemplateID = "minimal"
	TemplateBrush   TemplateID = "brush"
	TemplateComic   TemplateID = "comic"
	TemplateClassic TemplateID = "classic"
	TemplateRetro   TemplateID = "retro"
	TemplateSketchy TemplateID = "sketchy"
	TemplateFloral  TemplateID = "floral"
	TemplateBold    TemplateID = "bold"
	TemplatePattern TemplateID = "pattern"
	TemplateModern  TemplateID = "modern"
)

// Templates 列出全部模板。
var Templates = []TemplateID{
	TemplateMinimal, TemplateBrush, TemplateComic, TemplateClassic, TemplateRetro,
	TemplateSketchy, TemplateFloral, TemplateBold, TemplatePattern, TemplateModern,
}

// ParseTemplate 解析模板名；default 等同 modern。
func ParseTemplate(s string) (TemplateID, error) {
	v := TemplateID(strings.ToLower(strings.TrimSpace(s)))
	if v == "" || v == "default" {
		return TemplateModern, nil
	}
	for _, t := range Templates {
		if t == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("未知模板：%q", s)
}

// UnmarshalText 让 YAML 与 JSON 输入接受与 ParseTemplate 相同的写法（如 default）。
func (t *TemplateID) UnmarshalText(b []byte) error {
	v, err := ParseTemplate(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ColorMode 区分彩色与黑白输出。
type ColorMode string

const (
	ColorModeColor ColorMode = "color"
	ColorModeMono  ColorMode = "mono"
)

// ParseColorMode 解析颜色模式，bw/monochrome 视为 mono。
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "color", "colour":
		return ColorModeColor, nil
	case "mono", "monochrome", "bw", "b&w":
		return ColorModeMono, nil
	}
	return "", fmt.Errorf("未知颜色模式：%q", s)
}

// UnmarshalText 让 YAML 与 JSON 输入接受 bw、monochrome 等别名。
func (m *ColorMode) UnmarshalText(b []byte) error {
	v, err := ParseColorMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
