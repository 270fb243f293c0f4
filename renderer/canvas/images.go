package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/renderer"
)

// prepScale 是照片预处理时的像素密度（每逻辑单位的像素数），与最大截图倍数一致。
const prepScale = 3.0

type decodedImage struct {
	img image.Image
}

type imageKey struct {
	path      string
	w, h      float64
	cover     bool
	grayscale bool
	opacity   float64
}

// preparedImage 是缩放、去色、调整透明度后的照片及其显示尺寸（逻辑单位）。
type preparedImage struct {
	img  image.Image
	w, h float64
}

func (r *Renderer) drawImage(ctx *canvas.Context, box layout.ImageBox, k float64) error {
	if box.Path == "" || box.Width <= 0 || box.Height <= 0 {
		return nil
	}
	prep, err := r.prepare(box)
	if err != nil {
		return err
	}
	x := box.X + (box.Width-prep.w)/2
	y := box.Y + (box.Height-prep.h)/2
	if box.Bottom {
		y = box.Y + box.Height - prep.h
	}
	dpmm := float64(prep.img.Bounds().Dx()) / (prep.w * k)
	if dpmm <= 0 || math.IsInf(dpmm, 0) {
		return nil
	}
	ctx.DrawImage(x*k, y*k, prep.img, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) prepare(box layout.ImageBox) (preparedImage, error) {
	key := imageKey{path: box.Path, w: box.Width, h: box.Height, cover: box.Cover, grayscale: box.Grayscale, opacity: box.Opacity}
	r.imageMu.Lock()
	if prep, ok := r.prepared[key]; ok {
		r.imageMu.Unlock()
		return prep, nil
	}
	r.imageMu.Unlock()

	src, err := r.load(box.Path)
	if err != nil {
		return preparedImage{}, err
	}
	pw := max(1, int(math.Ceil(box.Width*prepScale)))
	ph := max(1, int(math.Ceil(box.Height*prepScale)))

	var prep preparedImage
	if box.Cover {
		prep = preparedImage{img: imaging.Fill(src, pw, ph, imaging.Center, imaging.Lanczos), w: box.Width, h: box.Height}
	} else {
		b := src.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return preparedImage{}, fmt.Errorf("%w: %s 尺寸为空", renderer.ErrImage, box.Path)
		}
		scale := math.Min(box.Width/float64(b.Dx()), box.Height/float64(b.Dy()))
		prep = preparedImage{img: imaging.Fit(src, pw, ph, imaging.Lanczos), w: float64(b.Dx()) * scale, h: float64(b.Dy()) * scale}
	}
	if box.Grayscale {
		prep.img = imaging.Grayscale(prep.img)
	}
	if op := box.Opacity; op > 0 && op < 1 {
		prep.img = imaging.AdjustFunc(prep.img, func(c color.NRGBA) color.NRGBA {
			c.A = uint8(float64(c.A)*op + 0.5)
			return c
		})
	}

	r.imageMu.Lock()
	r.prepared[key] = prep
	r.imageMu.Unlock()
	return prep, nil
}

// load 读取并解码照片（png/jpeg/gif/webp），同一路径只解码一次。
func (r *Renderer) load(orig string) (image.Image, error) {
	r.imageMu.Lock()
	if d, ok := r.decoded[orig]; ok {
		r.imageMu.Unlock()
		return d.img, nil
	}
	r.imageMu.Unlock()

	path, err := r.resolve(orig)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取 %s 失败: %v", renderer.ErrImage, orig, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: 解码 %s 失败: %v", renderer.ErrImage, orig, err)
	}

	r.imageMu.Lock()
	r.decoded[orig] = decodedImage{img: img}
	r.imageMu.Unlock()
	return img, nil
}

// resolve 把照片路径解析到 baseDir 下。Confine 时只接受 baseDir 内的相对路径。
func (r *Renderer) resolve(orig string) (string, error) {
	if r.confine {
		if r.baseDir == "" || !filepath.IsLocal(orig) {
			return "", fmt.Errorf("%w: 不允许的路径 %q", renderer.ErrImage, orig)
		}
		return filepath.Join(r.baseDir, orig), nil
	}
	if !filepath.IsAbs(orig) && r.baseDir != "" {
		return filepath.Join(r.baseDir, orig), nil
	}
	return orig, nil
}
