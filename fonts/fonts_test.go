package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	cases := map[string][]byte{
		"embed:latin-modern/bold": Latin().Bold,
		"latin-modern":            Latin().Regular,
		"go/italic":               Sans().Italic,
	}
	for name, want := range cases {
		got, err := Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(got) == 0 || !bytes.Equal(got, want) {
			t.Fatalf("%s: 字体数据不匹配", name)
		}
	}
	if _, err := Load("nope/regular"); err == nil {
		t.Fatalf("未知字体族应报错")
	}
	if _, err := Load("go/heavy"); err == nil {
		t.Fatalf("未知字形应报错")
	}
}

func TestPickFallsBack(t *testing.T) {
	s := Set{Regular: []byte("r"), Bold: []byte("b")}
	if string(s.Pick(true, true)) != "b" {
		t.Fatalf("缺少粗斜体时应回退到粗体")
	}
	if string(s.Pick(false, true)) != "r" {
		t.Fatalf("缺少斜体时应回退到常规")
	}
}

func TestLocalFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.ttf")
	if err := os.WriteFile(path, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Local(path, "")
	if err != nil {
		t.Fatalf("加载本地字体失败: %v", err)
	}
	if string(set.Pick(true, false)) != "ttf" {
		t.Fatalf("只有常规字形时粗体应回退到常规")
	}
	if set, _ := Local("", ""); set.Name != "go" {
		t.Fatalf("未配置时应回退到 Go 字体")
	}
	if _, err := Local(filepath.Join(dir, "missing.ttf"), ""); err == nil {
		t.Fatalf("文件不存在应报错")
	}
}
