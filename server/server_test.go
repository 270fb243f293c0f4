package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/export"
	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/renderer"
)

type stubTypesetter struct{}

func (stubTypesetter) Measure(text string, font layout.Font, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * size * 0.5, nil
}

// stubRasterizer 输出 1/10 尺寸的 PNG；gate 非空时阻塞到被关闭。
type stubRasterizer struct {
	entered chan struct{}
	gate    chan struct{}
	err     error
}

func (s *stubRasterizer) Rasterize(ctx context.Context, el renderer.Element, opts renderer.Options) (renderer.Bitmap, error) {
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}
	if s.err != nil {
		return renderer.Bitmap{}, s.err
	}
	w, h := int(el.Drawing.Width/10), int(el.Drawing.Height/10)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		return renderer.Bitmap{}, err
	}
	return renderer.Bitmap{Format: renderer.PNG, Width: w, Height: h, Data: buf.Bytes()}, nil
}

func newTestApp(r *stubRasterizer) (*export.Runner, *export.Pipeline, func(method, path, body string) (int, []byte, string)) {
	p := &export.Pipeline{Rasterizer: r, Typesetter: stubTypesetter{}}
	runner := export.NewRunner(p)
	app := New(runner, p, Options{})
	do := func(method, path, body string) (int, []byte, string) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			panic(err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, data, resp.Header.Get("Content-Disposition")
	}
	return runner, p, do
}

const exportBody = `{
  "spec": {"family": "Perera", "student": "Kasun", "grade": "Grade 6", "school": "Royal College"},
  "subjects": [{"name": "Math", "count": 2}, {"name": "", "count": 1}]
}`

func TestExportZIP(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	code, data, disposition := do("POST", "/export/zip", exportBody)
	if code != 200 {
		t.Fatalf("期望 200，实际 %d: %s", code, data)
	}
	if !strings.Contains(disposition, "Kasun_Cards_Images.zip") {
		t.Fatalf("文件名不符: %s", disposition)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("响应应为 zip")
	}
}

func TestExportErrors(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	cases := []struct {
		path, body string
		code       int
	}{
		{"/export/gif", exportBody, 400},
		{"/export/pdf", `{"subjects": []}`, 422},
		{"/export/pdf", `{"subjects": [{"name": "Math", "count": 0}]}`, 400},
		{"/export/pdf", `{"spec": {"template": "neon"}, "subjects": [{"name": "Math", "count": 1}]}`, 400},
		{"/export/pdf", `{`, 400},
	}
	for _, c := range cases {
		code, data, _ := do("POST", c.path, c.body)
		if code != c.code {
			t.Fatalf("%s %s: 期望 %d，实际 %d: %s", c.path, c.body, c.code, code, data)
		}
	}
}

func TestExportBusy(t *testing.T) {
	r := &stubRasterizer{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	runner, _, do := newTestApp(r)

	cfg := card.NewConfig().AddSubject("Math", 1)
	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), cfg, export.FormatZIP)
		done <- err
	}()
	<-r.entered

	code, data, _ := do("GET", "/status", "")
	var status struct{ Busy bool }
	if err := json.Unmarshal(data, &status); err != nil || code != 200 || !status.Busy {
		t.Fatalf("状态应为 busy: %d %s", code, data)
	}
	if code, data, _ := do("POST", "/export/zip", exportBody); code != 409 {
		t.Fatalf("期望 409，实际 %d: %s", code, data)
	}
	close(r.gate)
	if err := <-done; err != nil {
		t.Fatalf("后台任务失败: %v", err)
	}
}

func TestPreview(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	code, data, _ := do("POST", "/preview", `{"spec": {"student": "Kasun", "subject": "Math", "template": "retro"}}`)
	if code != 200 {
		t.Fatalf("期望 200，实际 %d: %s", code, data)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil || img.Bounds().Dx() != 37 {
		t.Fatalf("预览应为 PNG: %v", err)
	}
}

func TestTemplates(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	code, data, _ := do("GET", "/templates", "")
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil || code != 200 || len(ids) != len(card.Templates) {
		t.Fatalf("模板列表不符: %d %s", code, data)
	}
}

func TestImagePathOutsideImageDir(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	for _, path := range []string{"/etc/passwd", "../../../etc/passwd", "photos/../../x.png"} {
		body := fmt.Sprintf(`{"spec": {"student": "Kasun", "image": %q}, "subjects": [{"name": "Math", "count": 1}]}`, path)
		for _, route := range []string{"/preview", "/export/zip"} {
			code, data, _ := do("POST", route, body)
			if code != 400 {
				t.Fatalf("%s %s: 期望 400，实际 %d", route, path, code)
			}
			if strings.Contains(string(data), "passwd") || strings.Contains(string(data), "x.png") {
				t.Fatalf("%s: 错误信息不应包含路径: %s", route, data)
			}
		}
	}
}

func TestImageErrorsAreGeneric(t *testing.T) {
	r := &stubRasterizer{err: fmt.Errorf("%w: 读取 /srv/photos/secret.png 失败: no such file", renderer.ErrImage)}
	_, _, do := newTestApp(r)
	body := `{"spec": {"student": "Kasun", "image": "secret.png"}, "subjects": [{"name": "Math", "count": 1}]}`
	for _, route := range []string{"/preview", "/export/pdf"} {
		code, data, _ := do("POST", route, body)
		if code != 400 || strings.Contains(string(data), "secret") {
			t.Fatalf("%s: 期望不含细节的 400，实际 %d %s", route, code, data)
		}
	}
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{err: errors.New("open /var/lib/fonts/x.ttf: permission denied")})
	code, data, _ := do("POST", "/export/zip", exportBody)
	if code != 500 || strings.Contains(string(data), "/var/lib") {
		t.Fatalf("期望不含细节的 500，实际 %d %s", code, data)
	}
}

func TestExportAcceptsAliases(t *testing.T) {
	_, _, do := newTestApp(&stubRasterizer{})
	body := `{"spec": {"student": "Kasun", "template": "default", "colorMode": "bw"}, "subjects": [{"name": "Math", "count": 1}]}`
	if code, data, _ := do("POST", "/export/zip", body); code != 200 {
		t.Fatalf("期望 200，实际 %d: %s", code, data)
	}
}
