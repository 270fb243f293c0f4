package layout

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/namecard/card"
)

func testMeasurer(lang card.Language) *measurer {
	return &measurer{ts: &stubTypesetter{}, lang: lang, smart: true, size: 10}
}

func TestWrapLinesGreedy(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit float64
		want  []string
	}{
		{"fits", "aaaa bbbb", 100, []string{"aaaa bbbb"}},
		{"break at space", "aaaa bbbb", 30, []string{"aaaa", "bbbb"}},
		{"split long word", "abcdefgh", 15, []string{"abc", "def", "gh"}},
		{"hard newline", "a\nb", 100, []string{"a", "b"}},
		{"leading space dropped", "  ab", 100, []string{"ab"}},
		{"empty", "", 100, nil},
	}
	for _, tc := range cases {
		got := wrapLines(tc.in, tc.limit, testMeasurer(card.LanguageLatin))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: 期望 %q，实际 %q", tc.name, tc.want, got)
		}
	}
}

// TestSplitKeepsCombiningMarks 断言：超宽的僧伽罗词只在字素簇边界拆分。
func TestSplitKeepsCombiningMarks(t *testing.T) {
	parts := splitTokenByWidth("ගණිතය", 10, testMeasurer(card.LanguageLocal))
	if strings.Join(parts, "") != "ගණිතය" {
		t.Fatalf("拆分应无损，实际 %q", parts)
	}
	for _, p := range parts {
		if strings.HasPrefix(p, "ි") {
			t.Fatalf("元音符号不应出现在片段开头: %q", parts)
		}
	}
	if len(parts) != 3 {
		t.Fatalf("期望拆成 3 段，实际 %q", parts)
	}
}

func TestSpansFollowSegmentation(t *testing.T) {
	m := testMeasurer(card.LanguageMixed)
	spans, w := m.spans("ගණිතය 5")
	if len(spans) != 2 {
		t.Fatalf("期望两段，实际 %+v", spans)
	}
	if w != 35 {
		t.Fatalf("总宽应为 7 个字符 × 5，实际 %g", w)
	}
}
