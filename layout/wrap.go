package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/script"
)

// measurer 按脚本分段测量文本宽度，并记录第一个错误，便于贪心折行中连续调用。
type measurer struct {
	ts     Typesetter
	lang   card.Language
	smart  bool
	bold   bool
	italic bool
	size   float64
	err    error
}

func (m *measurer) font(sc script.Script) Font {
	return Font{Script: sc, Bold: m.bold, Italic: m.italic}
}

func (m *measurer) width(s string) float64 {
	if m.err != nil || s == "" {
		return 0
	}
	total := 0.0
	for _, run := range script.Segment(s, m.lang, m.smart) {
		w, err := m.ts.Measure(run.Text, m.font(run.Script), m.size)
		if err != nil {
			m.err = err
			return 0
		}
		total += w
	}
	return total
}

// spans 将一行文本拆成带字体与宽度的片段。
func (m *measurer) spans(line string) ([]Span, float64) {
	var out []Span
	total := 0.0
	for _, run := range script.Segment(line, m.lang, m.smart) {
		w := m.width(run.Text)
		out = append(out, Span{Text: run.Text, Font: m.font(run.Script), Width: w})
		total += w
	}
	return out, total
}

// wrapLines 使用贪心换行：优先在空白处分割，单词超过限制时在词内拆分。
// 行首行尾的空白会被去掉。
func wrapLines(content string, limit float64, m *measurer) []string {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var lines []string
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		line := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		currentWidth = 0
		if line == "" && !force {
			return
		}
		lines = append(lines, line)
	}
	appendToken := func(token string, w float64) {
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			return
		}
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		tokenWidth := m.width(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, m) {
			chunkWidth := m.width(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}
	if builder.Len() > 0 {
		emit(false)
	}
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 在字素簇边界拆分超宽的词，避免拆开僧伽罗文的组合符号。
func splitTokenByWidth(token string, limit float64, m *measurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	current := ""
	gr := uniseg.NewGraphemes(token)
	for gr.Next() {
		cluster := gr.Str()
		if current != "" && m.width(current+cluster) > limit {
			parts = append(parts, current)
			current = ""
		}
		current += cluster
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
