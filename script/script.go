// Package script splits card text into runs that share one font family.
package script

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/namecard/card"
)

// Script identifies the font family a run is drawn with.
type Script int

const (
	Local Script = iota
	Latin
)

func (s Script) String() string {
	if s == Latin {
		return "latin"
	}
	return "local"
}

// Run is a maximal piece of text drawn with one script's font.
type Run struct {
	Text   string
	Script Script
}

// IsLatinLike reports whether r belongs to the Latin-like class:
// ASCII letters and digits, '.', '-', '_', '(', ')' and whitespace.
func IsLatinLike(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_', r == '(', r == ')':
		return true
	}
	return unicode.IsSpace(r)
}

// Segment splits text for rendering.
//
// A latin or local override yields the whole text as one run. Mixed text is
// split into Latin-like and local runs; when smart is false mixed text is a
// single local run. Empty runs are never returned and Join(Segment(...))
// always equals text.
func Segment(text string, lang card.Language, smart bool) []Run {
	if text == "" {
		return nil
	}
	switch lang {
	case card.LanguageLatin:
		return []Run{{Text: text, Script: Latin}}
	case card.LanguageMixed:
		if smart {
			return splitMixed(text)
		}
	}
	return []Run{{Text: text, Script: Local}}
}

// splitMixed groups characters by class, then keeps the Latin font only for
// runs that carry a letter or digit; runs of bare spaces or punctuation fall
// back to the local font. Adjacent runs with the same script are merged.
func splitMixed(text string) []Run {
	var runs []Run
	var b strings.Builder
	latin := false
	alnum := false
	flush := func() {
		if b.Len() == 0 {
			return
		}
		sc := Local
		if latin && alnum {
			sc = Latin
		}
		s := b.String()
		b.Reset()
		if n := len(runs); n > 0 && runs[n-1].Script == sc {
			runs[n-1].Text += s
			return
		}
		runs = append(runs, Run{Text: s, Script: sc})
	}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		cls := IsLatinLike(r)
		if i > 0 && cls != latin {
			flush()
			alnum = false
		}
		latin = cls
		if cls && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			alnum = true
		}
		// 按原始字节写入，非法 UTF-8 也能原样还原
		b.WriteString(text[i : i+size])
		i += size
	}
	flush()
	return runs
}

// Join concatenates run texts in order.
func Join(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
