package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/namecard/batch"
	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/logger"
	"github.com/ByLCY/namecard/renderer"
)

// Artifact 是一次导出的结果。
type Artifact struct {
	Format Format
	Name   string
	Data   []byte
	Pages  int // PDF/DOCX 的页数；压缩包为 0
	Cards  int
}

// Pipeline 把配置快照展开、排版、光栅化并组装成产物。
type Pipeline struct {
	Rasterizer renderer.Rasterizer
	Typesetter layout.Typesetter
	// Parallelism 大于 1 时并发截图；输出顺序始终与展开顺序一致。
	Parallelism int
	Log         *logger.Logger
}

func (p *Pipeline) log() *logger.Logger {
	if p.Log == nil {
		return logger.Discard()
	}
	return p.Log
}

// Export 对同一个快照执行完整导出。空批次在截图前返回 ErrEmptyBatch。
func (p *Pipeline) Export(ctx context.Context, cfg card.Config, format Format) (Artifact, error) {
	pl, err := planFor(format)
	if err != nil {
		return Artifact{}, err
	}
	if err := card.ValidateConfig(cfg); err != nil {
		return Artifact{}, fmt.Errorf("配置无效: %w", err)
	}
	instances := batch.Expand(cfg.Subjects)
	if len(instances) == 0 {
		return Artifact{}, ErrEmptyBatch
	}
	if p.Rasterizer == nil || p.Typesetter == nil {
		return Artifact{}, fmt.Errorf("导出管线缺少渲染器")
	}

	start := time.Now()
	elements, names, err := p.elements(instances, pl.perCard)
	if err != nil {
		return Artifact{}, err
	}
	p.log().Info("开始导出 %s：%d 张名片，%d 个截图单元", format, len(instances), len(elements))

	bitmaps, err := p.capture(ctx, elements, pl.capture)
	if err != nil {
		return Artifact{}, err
	}
	parts := make([]Part, len(bitmaps))
	for i, bm := range bitmaps {
		parts[i] = Part{Name: names[i], Bitmap: bm}
	}
	data, err := pl.assemble(parts)
	if err != nil {
		return Artifact{}, fmt.Errorf("组装 %s 失败: %w", format, err)
	}

	art := Artifact{
		Format: format,
		Name:   ArtifactName(format, cfg.Spec.Student),
		Data:   data,
		Cards:  len(instances),
	}
	if !pl.perCard {
		art.Pages = len(elements)
	}
	p.log().Info("导出完成 %s（%d 字节，耗时 %s）", art.Name, len(data), time.Since(start).Round(time.Millisecond))
	return art, nil
}

// elements 为每页（或每张名片）生成截图单元以及压缩包中的条目名。
func (p *Pipeline) elements(instances []batch.Instance, perCard bool) ([]renderer.Element, []string, error) {
	if perCard {
		namer := newEntryNamer()
		els := make([]renderer.Element, len(instances))
		names := make([]string, len(instances))
		for i, inst := range instances {
			d, err := layout.ComposeCard(inst.Spec, p.Typesetter)
			if err != nil {
				return nil, nil, fmt.Errorf("排版名片 %s 失败: %w", inst.ID, err)
			}
			els[i] = renderer.Element{ID: inst.ID, Drawing: d}
			names[i] = namer.next(inst.Spec.Subject, renderer.ArchiveCapture.Format.Ext())
		}
		return els, names, nil
	}

	pages := batch.Paginate(instances, batch.PageCapacity)
	els := make([]renderer.Element, len(pages))
	names := make([]string, len(pages))
	for i, page := range pages {
		cards := make([]layout.Drawing, len(page.Instances))
		for j, inst := range page.Instances {
			d, err := layout.ComposeCard(inst.Spec, p.Typesetter)
			if err != nil {
				return nil, nil, fmt.Errorf("排版名片 %s 失败: %w", inst.ID, err)
			}
			cards[j] = d
		}
		sheet, err := layout.ComposeSheet(cards)
		if err != nil {
			return nil, nil, fmt.Errorf("排版第 %d 页失败: %w", page.Number, err)
		}
		els[i] = renderer.Element{ID: fmt.Sprintf("page-%d", page.Number), Drawing: sheet}
		names[i] = fmt.Sprintf("page%d", page.Number)
	}
	return els, names, nil
}

func (p *Pipeline) capture(ctx context.Context, els []renderer.Element, opts renderer.Options) ([]renderer.Bitmap, error) {
	out := make([]renderer.Bitmap, len(els))
	if p.Parallelism <= 1 {
		for i, el := range els {
			bm, err := p.captureOne(ctx, el, opts)
			if err != nil {
				return nil, err
			}
			out[i] = bm
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Parallelism)
	for i, el := range els {
		i, el := i, el
		g.Go(func() error {
			bm, err := p.captureOne(gctx, el, opts)
			if err != nil {
				return err
			}
			out[i] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) captureOne(ctx context.Context, el renderer.Element, opts renderer.Options) (renderer.Bitmap, error) {
	bm, err := renderer.Capture(ctx, p.Rasterizer, el, opts)
	if err != nil {
		return renderer.Bitmap{}, fmt.Errorf("截图 %s 失败: %w", el.ID, err)
	}
	p.log().Debug("截图 %s：%dx%d", el.ID, bm.Width, bm.Height)
	return bm, nil
}

// Preview 排版并截取单张名片（3× PNG），不经过批量展开。
func (p *Pipeline) Preview(ctx context.Context, spec card.Spec) (renderer.Bitmap, error) {
	if err := card.Validate(spec); err != nil {
		return renderer.Bitmap{}, err
	}
	d, err := layout.ComposeCard(spec, p.Typesetter)
	if err != nil {
		return renderer.Bitmap{}, fmt.Errorf("排版预览失败: %w", err)
	}
	return p.captureOne(ctx, renderer.Element{ID: "preview-" + uuid.NewString(), Drawing: d}, renderer.ArchiveCapture)
}
