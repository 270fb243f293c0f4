package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"text/template"

	"github.com/klauspost/compress/zip"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/draw"

	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/renderer"
)

// Part 是一个已光栅化的页面或名片。
type Part struct {
	Name   string // 仅压缩包使用
	Bitmap renderer.Bitmap
}

// AssemblePDF 每个位图占一页 A4，并拉伸到恰好铺满页面。
func AssemblePDF(parts []Part) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyBatch
	}
	w, h := layout.A4WidthMM, layout.A4HeightMM
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo("Name Cards", "", "", "", "namecard")
	for i, part := range parts {
		img, _, err := image.Decode(bytes.NewReader(part.Bitmap.Data))
		if err != nil {
			return nil, fmt.Errorf("解码第 %d 页失败: %w", i+1, err)
		}
		page := fitToPage(img, w/h)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.DrawImage(0, 0, page, canvas.DPMM(float64(page.Bounds().Dx())/w))
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// fitToPage 保持像素宽度，把高度重采样到页面比例。
func fitToPage(img image.Image, aspect float64) image.Image {
	b := img.Bounds()
	height := int(math.Round(float64(b.Dx()) / aspect))
	if height == b.Dy() || height <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// AssembleZIP 把每张名片存为一个 PNG 条目，条目名已在管线中去重。
func AssembleZIP(parts []Part) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyBatch
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		// PNG 已经压缩过，直接存储。
		if err := writeEntry(zw, part.Name, zip.Store, part.Bitmap.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("写入压缩包失败: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("创建条目 %s 失败: %w", name, err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("写入条目 %s 失败: %w", name, err)
	}
	return nil
}

// WordprocessingML 使用的 A4 尺寸：1 英寸 = 1440 twip = 914400 EMU。
const (
	a4WidthTwip  = 11906
	a4HeightTwip = 16838
	marginTwip   = 720
	emuPerTwip   = 635
)

type docxImage struct {
	Index  int
	RelID  string
	File   string
	Width  int64 // EMU
	Height int64 // EMU
}

var docxTemplates = template.Must(template.New("docx").Parse(`
{{define "content_types"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="jpg" ContentType="image/jpeg"/>
<Default Extension="png" ContentType="image/png"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>{{end}}
{{define "rels"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>{{end}}
{{define "document_rels"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
{{range .}}<Relationship Id="{{.RelID}}" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/{{.File}}"/>
{{end}}</Relationships>{{end}}
{{define "document"}}<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
<w:body>
{{range .Images}}<w:p><w:pPr>{{if gt .Index 1}}<w:pageBreakBefore/>{{end}}<w:jc w:val="center"/><w:spacing w:before="0" w:after="0"/></w:pPr><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="{{.Width}}" cy="{{.Height}}"/><wp:docPr id="{{.Index}}" name="Page {{.Index}}"/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic><pic:nvPicPr><pic:cNvPr id="{{.Index}}" name="{{.File}}"/><pic:cNvPicPr/></pic:nvPicPr><pic:blipFill><a:blip r:embed="{{.RelID}}"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill><pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="{{.Width}}" cy="{{.Height}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>
{{end}}<w:sectPr><w:pgSz w:w="{{.PageWidth}}" w:h="{{.PageHeight}}"/><w:pgMar w:top="{{.Margin}}" w:right="{{.Margin}}" w:bottom="{{.Margin}}" w:left="{{.Margin}}" w:header="0" w:footer="0" w:gutter="0"/></w:sectPr>
</w:body>
</w:document>{{end}}
`))

// AssembleDOCX 把每个页面位图作为一个居中的内嵌图片段落，全部放在同一节（A4）中。
func AssembleDOCX(parts []Part) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyBatch
	}
	maxW := float64(a4WidthTwip-2*marginTwip) * emuPerTwip
	maxH := float64(a4HeightTwip-2*marginTwip) * emuPerTwip

	images := make([]docxImage, len(parts))
	for i, part := range parts {
		bw, bh := float64(part.Bitmap.Width), float64(part.Bitmap.Height)
		if bw <= 0 || bh <= 0 {
			return nil, fmt.Errorf("第 %d 页位图尺寸为空", i+1)
		}
		scale := math.Min(maxW/bw, maxH/bh)
		images[i] = docxImage{
			Index:  i + 1,
			RelID:  fmt.Sprintf("rIdImg%d", i+1),
			File:   fmt.Sprintf("page%d%s", i+1, part.Bitmap.Format.Ext()),
			Width:  int64(bw * scale),
			Height: int64(bh * scale),
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	render := func(name, tpl string, data any) error {
		var out bytes.Buffer
		if err := docxTemplates.ExecuteTemplate(&out, tpl, data); err != nil {
			return fmt.Errorf("生成 %s 失败: %w", name, err)
		}
		return writeEntry(zw, name, zip.Deflate, out.Bytes())
	}
	doc := struct {
		Images     []docxImage
		PageWidth  int
		PageHeight int
		Margin     int
	}{images, a4WidthTwip, a4HeightTwip, marginTwip}

	if err := render("[Content_Types].xml", "content_types", nil); err != nil {
		return nil, err
	}
	if err := render("_rels/.rels", "rels", nil); err != nil {
		return nil, err
	}
	if err := render("word/_rels/document.xml.rels", "document_rels", images); err != nil {
		return nil, err
	}
	if err := render("word/document.xml", "document", doc); err != nil {
		return nil, err
	}
	for i, img := range images {
		if err := writeEntry(zw, "word/media/"+img.File, zip.Store, parts[i].Bitmap.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("写入 DOCX 失败: %w", err)
	}
	return buf.Bytes(), nil
}
