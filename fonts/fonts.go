// Package fonts 提供内置字体数据：拉丁文使用 Latin Modern Roman，
// 本地文字默认回退到 Go 字体，也可以从文件加载。
package fonts

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Set 是一个字体族的四种字形。缺失的字形在 Pick 时回退。
type Set struct {
	Name       string
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// Pick 返回最接近的字形数据：粗斜体 → 粗体/斜体 → 常规。
func (s Set) Pick(bold, italic bool) []byte {
	switch {
	case bold && italic && len(s.BoldItalic) > 0:
		return s.BoldItalic
	case bold && len(s.Bold) > 0:
		return s.Bold
	case italic && len(s.Italic) > 0:
		return s.Italic
	}
	return s.Regular
}

// Latin 返回内置的衬线拉丁字体。
func Latin() Set {
	return Set{
		Name:       "latin-modern",
		Regular:    lmroman10regular.TTF,
		Bold:       lmroman10bold.TTF,
		Italic:     lmroman10italic.TTF,
		BoldItalic: lmroman10bolditalic.TTF,
	}
}

// Sans 返回内置的 Go 无衬线字体，在未配置本地文字字体时使用。
func Sans() Set {
	return Set{
		Name:       "go",
		Regular:    goregular.TTF,
		Bold:       gobold.TTF,
		Italic:     goitalic.TTF,
		BoldItalic: gobolditalic.TTF,
	}
}

var builtin = map[string]func() Set{
	"latin-modern": Latin,
	"go":           Sans,
}

// Load 返回内置字体的字节数据，name 形如 "embed:latin-modern/bold" 或 "go/regular"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	family, variant, _ := strings.Cut(name, "/")
	ctor, ok := builtin[family]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体族", name)
	}
	set := ctor()
	switch variant {
	case "", "regular":
		return set.Regular, nil
	case "bold":
		return set.Bold, nil
	case "italic":
		return set.Italic, nil
	case "bolditalic":
		return set.BoldItalic, nil
	}
	return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字形 %s", name, variant)
}

// Resolve 按来源读取字体：空串返回 nil，"embed:" 前缀读取内置字体，其余视为文件路径。
func Resolve(src string) ([]byte, error) {
	switch {
	case src == "":
		return nil, nil
	case strings.HasPrefix(src, "embed:"):
		return Load(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
	}
	return data, nil
}

// Local 组装本地文字字体。regular 为空时回退到 Sans；只提供常规字形时粗体也使用它。
func Local(regular, bold string) (Set, error) {
	if regular == "" {
		return Sans(), nil
	}
	reg, err := Resolve(regular)
	if err != nil {
		return Set{}, err
	}
	set := Set{Name: "local", Regular: reg}
	if bold != "" {
		if set.Bold, err = Resolve(bold); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}
