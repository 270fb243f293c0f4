package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"student": "Kasun",
		"blank":   "  ",
		"school":  map[string]any{"name": "Royal"},
	}
	cases := []struct {
		in, want string
	}{
		{"${student}_Name_Cards.pdf", "Kasun_Name_Cards.pdf"},
		{"${missing|School}_Name_Cards.pdf", "School_Name_Cards.pdf"},
		{"${blank|School}", "School"},
		{"${student|School}", "Kasun"},
		{"${school.name}", "Royal"},
		{"${school.name.first}", "${school.name.first}"},
		{"${missing}", "${missing}"},
		{"${}", "${}"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", tc.in, got, tc.want)
		}
	}
	if got := Interpolate("${student|School}", nil); got != "School" {
		t.Fatalf("data 为空时应使用 fallback，实际 %q", got)
	}
	if got := Interpolate("${x}", map[string]string{"x": "y"}); got != "y" {
		t.Fatalf("应支持 map[string]string，实际 %q", got)
	}
}
