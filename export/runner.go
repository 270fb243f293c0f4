package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ByLCY/namecard/card"
)

// Runner 保证同一时间只有一个导出任务。
type Runner struct {
	pipeline *Pipeline
	active   atomic.Bool
}

func NewRunner(p *Pipeline) *Runner { return &Runner{pipeline: p} }

// Busy 报告是否有任务正在运行。
func (r *Runner) Busy() bool { return r.active.Load() }

// Run 在已有任务时立即返回 ErrBusy，不会排队。
func (r *Runner) Run(ctx context.Context, cfg card.Config, format Format) (Artifact, error) {
	if !r.active.CompareAndSwap(false, true) {
		return Artifact{}, ErrBusy
	}
	defer r.active.Store(false)
	return r.pipeline.Export(ctx, cfg, format)
}

// WriteArtifact 先写临时文件再重命名，返回最终路径。
func WriteArtifact(dir string, a Artifact) (string, error) {
	if a.Name == "" {
		return "", fmt.Errorf("产物缺少文件名")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".namecard-*")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("写入 %s 失败: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", a.Name, err)
	}
	dest := filepath.Join(dir, a.Name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("保存 %s 失败: %w", a.Name, err)
	}
	return dest, nil
}
