// Package renderer 定义排版结果与像素/文件输出之间的边界。
package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ByLCY/namecard/layout"
)

// Renderer 将排版结果输出为矢量文件，例如单张名片的 PDF 预览。
type Renderer interface {
	Render(d *layout.Drawing) ([]byte, error)
}

// Format 是位图编码格式。
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// Ext 返回带点的扩展名。
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// Options 描述一次截图：放大倍数、编码、质量与底色。
type Options struct {
	Scale      float64
	Format     Format
	Quality    int // 仅 JPEG，1-100
	Background layout.Color
}

// 三种截图预设：图片压缩包 3× PNG；PDF 3× JPEG；文档 2× JPEG。
var (
	ArchiveCapture  = Options{Scale: 3, Format: PNG, Background: layout.White}
	PDFCapture      = Options{Scale: 3, Format: JPEG, Quality: 85, Background: layout.White}
	DocumentCapture = Options{Scale: 2, Format: JPEG, Quality: 85, Background: layout.White}
)

// Element 是交给光栅化器的已排版元素（单张名片或整页）。
type Element struct {
	ID      string
	Drawing layout.Drawing
}

// Bitmap 是编码后的像素数据。
type Bitmap struct {
	Format Format
	Width  int
	Height int
	Data   []byte
}

// Rasterizer 把元素按选项转换为像素。
type Rasterizer interface {
	Rasterize(ctx context.Context, el Element, opts Options) (Bitmap, error)
}

// Committer 是可选的提交屏障：Commit 返回后元素已完整绘制，可以截图。
type Committer interface {
	Commit(ctx context.Context, el Element) error
}

var (
	// ErrNotCommitted 表示在提交完成前请求截图。
	ErrNotCommitted = errors.New("元素尚未提交绘制")
	// ErrImage 表示照片无法使用：路径不允许、文件不存在或无法解码。
	ErrImage = errors.New("照片不可用")
)

// Capture 先提交（若光栅化器支持）再截图。
func Capture(ctx context.Context, r Rasterizer, el Element, opts Options) (Bitmap, error) {
	if c, ok := r.(Committer); ok {
		if err := c.Commit(ctx, el); err != nil {
			return Bitmap{}, fmt.Errorf("提交 %s 失败: %w", el.ID, err)
		}
	}
	bm, err := r.Rasterize(ctx, el, opts)
	if err != nil {
		return Bitmap{}, fmt.Errorf("光栅化 %s 失败: %w", el.ID, err)
	}
	return bm, nil
}
