package renderer

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	calls     []string
	commitErr error
}

func (r *recorder) Commit(ctx context.Context, el Element) error {
	r.calls = append(r.calls, "commit:"+el.ID)
	return r.commitErr
}

func (r *recorder) Rasterize(ctx context.Context, el Element, opts Options) (Bitmap, error) {
	r.calls = append(r.calls, "raster:"+el.ID)
	return Bitmap{Format: opts.Format}, nil
}

func TestCaptureCommitsBeforeRasterizing(t *testing.T) {
	r := &recorder{}
	if _, err := Capture(context.Background(), r, Element{ID: "a"}, ArchiveCapture); err != nil {
		t.Fatalf("截图失败: %v", err)
	}
	if len(r.calls) != 2 || r.calls[0] != "commit:a" || r.calls[1] != "raster:a" {
		t.Fatalf("应先提交再截图，实际 %v", r.calls)
	}
}

func TestCaptureStopsOnCommitError(t *testing.T) {
	boom := errors.New("boom")
	r := &recorder{commitErr: boom}
	if _, err := Capture(context.Background(), r, Element{ID: "a"}, PDFCapture); !errors.Is(err, boom) {
		t.Fatalf("期望提交错误，实际 %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("提交失败后不应截图: %v", r.calls)
	}
}

func TestPresets(t *testing.T) {
	if ArchiveCapture.Scale != 3 || ArchiveCapture.Format != PNG {
		t.Fatalf("压缩包预设应为 3× PNG")
	}
	if PDFCapture.Scale != 3 || PDFCapture.Format != JPEG || PDFCapture.Quality != 85 {
		t.Fatalf("PDF 预设应为 3× JPEG 85")
	}
	if DocumentCapture.Scale != 2 || DocumentCapture.Format != JPEG {
		t.Fatalf("文档预设应为 2× JPEG")
	}
}
