package card

import "maps"

// 名片的逻辑尺寸（与内容无关）。
const (
	Width  = 370.0
	Height = 240.0
)

// Spec 是一张名片的完整配置快照。
//
// Spec 按值传递；需要修改时通过 With* 方法得到新值，原值保持不变。
type Spec struct {
	Family  string `yaml:"family" json:"family"`
	Student string `yaml:"student" json:"student"`
	Grade   string `yaml:"grade" json:"grade"`
	School  string `yaml:"school" json:"school"`
	Phone   string `yaml:"phone" json:"phone"`
	Subject string `yaml:"subject" json:"subject"`

	Languages map[Field]Language `yaml:"languages,omitempty" json:"languages,omitempty" validate:"dive,keys,oneof=family name subject grade phone school,endkeys,oneof=local latin mixed"`
	Styles    map[Field]Style    `yaml:"styles,omitempty" json:"styles,omitempty" validate:"dive,keys,oneof=family name subject grade phone school,endkeys"`
	Aligns    map[Field]Align    `yaml:"aligns,omitempty" json:"aligns,omitempty" validate:"dive,keys,oneof=family name subject grade phone school,endkeys,oneof=left center right"`
	Sizes     map[Field]float64  `yaml:"sizes,omitempty" json:"sizes,omitempty" validate:"dive,keys,oneof=family name subject grade phone school,endkeys,gt=0"`

	Template   TemplateID `yaml:"template" json:"template" validate:"omitempty,oneof=minimal brush comic classic retro sketchy floral bold pattern modern"`
	ColorMode  ColorMode  `yaml:"colorMode" json:"colorMode" validate:"omitempty,oneof=color mono"`
	AutoScale  bool       `yaml:"autoScale" json:"autoScale"`
	SmartLatin bool       `yaml:"smartLatin" json:"smartLatin"`
	ImagePath  string     `yaml:"image,omitempty" json:"image,omitempty"`
}

// NewSpec 返回带默认值的 Spec：自动缩放与拉丁字体优化均开启，模板为 modern。
func NewSpec() Spec {
	return Spec{
		Template:   TemplateModern,
		ColorMode:  ColorModeColor,
		AutoScale:  true,
		SmartLatin: true,
	}
}

// Text 返回字段对应的文本。
func (s Spec) Text(f Field) string {
	switch f {
	case FieldFamily:
		return s.Family
	case FieldName:
		return s.Student
	case FieldSubject:
		return s.Subject
	case FieldGrade:
		return s.Grade
	case FieldPhone:
		return s.Phone
	case FieldSchool:
		return s.School
	}
	return ""
}

// Language 返回字段语言，缺省为本地文字。
func (s Spec) Language(f Field) Language {
	if l, ok := s.Languages[f]; ok && l != "" {
		return l
	}
	return LanguageLocal
}

// Align 返回字段对齐方式，缺省居中。
func (s Spec) Align(f Field) Align {
	if a, ok := s.Aligns[f]; ok && a != "" {
		return a
	}
	return AlignCenter
}

// Style 返回字段样式，缺省为常规字重、非斜体。
func (s Spec) Style(f Field) Style {
	return s.Styles[f]
}

// TemplateID 返回模板，空值视为 modern。
func (s Spec) TemplateID() TemplateID {
	if s.Template == "" {
		return TemplateModern
	}
	return s.Template
}

// Mono 报告是否为黑白模式。
func (s Spec) Mono() bool { return s.ColorMode == ColorModeMono }

// Clone 深拷贝 Spec，使快照与后续编辑互不影响。
func (s Spec) Clone() Spec {
	out := s
	out.Languages = maps.Clone(s.Languages)
	out.Styles = maps.Clone(s.Styles)
	out.Aligns = maps.Clone(s.Aligns)
	out.Sizes = maps.Clone(s.Sizes)
	return out
}

// WithText 返回替换了字段文本的新 Spec。
func (s Spec) WithText(f Field, text string) Spec {
	out := s.Clone()
	switch f {
	case FieldFamily:
		out.Family = text
	case FieldName:
		out.Student = text
	case FieldSubject:
		out.Subject = text
	case FieldGrade:
		out.Grade = text
	case FieldPhone:
		out.Phone = text
	case FieldSchool:
		out.School = text
	}
	return out
}

// WithLanguage 返回设置了字段语言的新 Spec。
func (s Spec) WithLanguage(f Field, l Language) Spec {
	out := s.Clone()
	if out.Languages == nil {
		out.Languages = map[Field]Language{}
	}
	out.Languages[f] = l
	return out
}

// WithAlign 返回设置了字段对齐的新 Spec。
func (s Spec) WithAlign(f Field, a Align) Spec {
	out := s.Clone()
	if out.Aligns == nil {
		out.Aligns = map[Field]Align{}
	}
	out.Aligns[f] = a
	return out
}

// WithStyle 返回设置了字段样式的新 Spec。
func (s Spec) WithStyle(f Field, st Style) Spec {
	out := s.Clone()
	if out.Styles == nil {
		out.Styles = map[Field]Style{}
	}
	out.Styles[f] = st
	return out
}

// WithSize 返回设置了手动字号（em）的新 Spec。
func (s Spec) WithSize(f Field, em float64) Spec {
	out := s.Clone()
	if out.Sizes == nil {
		out.Sizes = map[Field]float64{}
	}
	out.Sizes[f] = em
	return out
}
