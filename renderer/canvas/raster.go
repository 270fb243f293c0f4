package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/namecard/renderer"
)

// Commit 实现提交屏障：加载字体与照片并把元素画到画布上。
// 只有已提交的元素才能被 Rasterize 截图。
func (r *Renderer) Commit(ctx context.Context, el renderer.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := r.paint(&el.Drawing, 1)
	if err != nil {
		return err
	}
	r.commitMu.Lock()
	r.committed[el.ID] = c
	r.commitMu.Unlock()
	return nil
}

// Rasterize 截取已提交的元素并编码。无论成功与否，调用后对应画布都会被释放。
func (r *Renderer) Rasterize(ctx context.Context, el renderer.Element, opts renderer.Options) (renderer.Bitmap, error) {
	r.commitMu.Lock()
	c, ok := r.committed[el.ID]
	delete(r.committed, el.ID)
	r.commitMu.Unlock()
	if err := ctx.Err(); err != nil {
		return renderer.Bitmap{}, err
	}
	if !ok {
		return renderer.Bitmap{}, fmt.Errorf("%s: %w", el.ID, renderer.ErrNotCommitted)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	pixels := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)

	// 铺上纯色底再叠加，JPEG 没有透明通道。
	out := image.NewRGBA(pixels.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(colorFromLayout(opts.Background, 1)), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), pixels, pixels.Bounds().Min, draw.Over)

	data, err := encode(out, opts)
	if err != nil {
		return renderer.Bitmap{}, err
	}
	return renderer.Bitmap{
		Format: formatOf(opts),
		Width:  out.Bounds().Dx(),
		Height: out.Bounds().Dy(),
		Data:   data,
	}, nil
}

func formatOf(opts renderer.Options) renderer.Format {
	if opts.Format == renderer.JPEG {
		return renderer.JPEG
	}
	return renderer.PNG
}

func encode(img image.Image, opts renderer.Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch formatOf(opts) {
	case renderer.JPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = 85
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q))
	default:
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("编码位图失败: %w", err)
	}
	return buf.Bytes(), nil
}

// pending 返回已提交但尚未截图的元素数。
func (r *Renderer) pending() int {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()
	return len(r.committed)
}
