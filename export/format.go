// Package export 把批量名片光栅化并组装成 PDF、DOCX 或图片压缩包。
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/namecard/binding"
	"github.com/ByLCY/namecard/renderer"
)

// Format 是导出产物的类型。
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatZIP  Format = "zip"
)

var (
	// ErrEmptyBatch 表示展开后没有任何名片；此时不会调用光栅化。
	ErrEmptyBatch = errors.New("没有可导出的名片")
	// ErrBusy 表示已有导出任务在运行。
	ErrBusy = errors.New("已有导出任务正在进行")
)

// ParseFormat 解析 pdf/docx/zip（兼容 doc、word、images 等别名）。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "docx", "doc", "word":
		return FormatDOCX, nil
	case "zip", "images", "png":
		return FormatZIP, nil
	}
	return "", fmt.Errorf("未知导出格式 %q", s)
}

// plan 描述一种格式的截图方式：整页还是逐张，以及截图参数。
type plan struct {
	perCard  bool
	capture  renderer.Options
	assemble func(parts []Part) ([]byte, error)
	name     string
}

var plans = map[Format]plan{
	FormatPDF:  {capture: renderer.PDFCapture, assemble: AssemblePDF, name: "${student|School}_Name_Cards.pdf"},
	FormatDOCX: {capture: renderer.DocumentCapture, assemble: AssembleDOCX, name: "${student|School}_Name_Cards.docx"},
	FormatZIP:  {perCard: true, capture: renderer.ArchiveCapture, assemble: AssembleZIP, name: "${student|School}_Cards_Images.zip"},
}

func planFor(f Format) (plan, error) {
	p, ok := plans[f]
	if !ok {
		return plan{}, fmt.Errorf("未知导出格式 %q", f)
	}
	return p, nil
}

// ArtifactName 返回产物文件名；学生姓名为空时使用 "School"。
func ArtifactName(f Format, student string) string {
	p, err := planFor(f)
	if err != nil {
		return ""
	}
	return binding.Interpolate(p.name, map[string]any{"student": sanitize(student)})
}
