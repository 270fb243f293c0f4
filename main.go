package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/pflag"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/config"
	"github.com/ByLCY/namecard/export"
	"github.com/ByLCY/namecard/fonts"
	"github.com/ByLCY/namecard/layout"
	"github.com/ByLCY/namecard/logger"
	canvasrenderer "github.com/ByLCY/namecard/renderer/canvas"
	"github.com/ByLCY/namecard/server"
)

const usage = `用法: namecard <命令> [参数]

命令:
  export   <任务文件>   按 YAML 或 .cards 任务导出 PDF / DOCX / 图片压缩包
  preview  <任务文件>   渲染单张名片为 PNG（或矢量 PDF）
  inspect  <PDF 文件>   查看导出 PDF 的页数与页面尺寸
  serve                 启动 HTTP 导出服务
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "export":
		err = exportCmd(args)
	case "preview":
		err = previewCmd(args)
	case "inspect":
		err = inspectCmd(args)
	case "serve":
		err = serveCmd(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "未知命令 %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// common 是各命令共用的环境参数。
type common struct {
	envFile  string
	logLevel string
	imageDir string
}

func (c *common) bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.envFile, "env", ".env", ".env 文件路径")
	flags.StringVar(&c.logLevel, "log-level", "", "日志级别 error|info|debug|trace（默认取环境变量）")
	flags.StringVar(&c.imageDir, "image-dir", "", "照片相对路径的根目录（默认为任务文件所在目录；serve 未设置时不加载照片）")
}

// setup 读取环境设置并创建日志与渲染器。confine 时照片只能来自图片目录。
func (c *common) setup(inputPath string, confine bool) (config.Settings, *logger.Logger, *canvasrenderer.Renderer, error) {
	settings, err := config.LoadSettings(c.envFile)
	if err != nil {
		return settings, nil, nil, err
	}
	if c.logLevel != "" {
		settings.LogLevel = c.logLevel
	}
	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return settings, nil, nil, err
	}
	log := logger.New(logger.WithLevel(level), logger.WithPrefix("[namecard] "))

	opts := canvasrenderer.Options{BaseDir: settings.ImageDir, Confine: confine}
	if c.imageDir != "" {
		opts.BaseDir = c.imageDir
	}
	if opts.BaseDir == "" && inputPath != "" {
		opts.BaseDir = filepath.Dir(inputPath)
	}
	if settings.LocalFont != "" {
		set, err := fonts.Local(settings.LocalFont, settings.LocalFontBold)
		if err != nil {
			return settings, nil, nil, fmt.Errorf("加载本地字体失败: %w", err)
		}
		opts.Local = set
		log.Debug("本地字体: %s", settings.LocalFont)
	}
	return settings, log, canvasrenderer.NewRendererWithOptions(opts), nil
}

func exportCmd(args []string) error {
	var (
		c        common
		format   string
		outDir   string
		parallel int
	)
	flags := pflag.NewFlagSet("export", pflag.ExitOnError)
	c.bind(flags)
	flags.StringVarP(&format, "format", "f", "", "导出格式 pdf|docx|zip（默认取任务文件）")
	flags.StringVarP(&outDir, "out", "o", "", "输出目录")
	flags.IntVarP(&parallel, "parallel", "p", 0, "并发截图数")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("需要一个任务文件")
	}
	input := flags.Arg(0)

	settings, log, r, err := c.setup(input, false)
	if err != nil {
		return err
	}
	cfg, job, err := config.LoadInput(input)
	if err != nil {
		return fmt.Errorf("读取任务失败: %w", err)
	}

	if format == "" {
		format = job.Format
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = pick(job.Output, config.DefaultOutputDir, settings.OutputDir)
	}
	if parallel <= 0 {
		parallel = max(job.Parallelism, settings.Parallelism)
	}

	pipeline := &export.Pipeline{Rasterizer: r, Typesetter: r, Parallelism: parallel, Log: log}
	art, err := pipeline.Export(context.Background(), cfg, f)
	if err != nil {
		return err
	}
	path, err := export.WriteArtifact(outDir, art)
	if err != nil {
		return err
	}
	fmt.Printf("已生成 %s（%d 张名片", path, art.Cards)
	if art.Pages > 0 {
		fmt.Printf("，%d 页", art.Pages)
	}
	fmt.Println("）")
	return nil
}

// pick 在 job 值仍为默认值时使用环境设置。
func pick(jobValue, def, env string) string {
	if jobValue != "" && jobValue != def {
		return jobValue
	}
	if env != "" {
		return env
	}
	return def
}

func previewCmd(args []string) error {
	var (
		c         common
		out       string
		subject   string
		vector    bool
		debugPath string
	)
	flags := pflag.NewFlagSet("preview", pflag.ExitOnError)
	c.bind(flags)
	flags.StringVarP(&out, "out", "o", "preview.png", "输出文件")
	flags.StringVarP(&subject, "subject", "s", "", "预览的科目（默认取第一个条目）")
	flags.BoolVar(&vector, "pdf", false, "输出单张名片的矢量 PDF")
	flags.StringVar(&debugPath, "debug", "", "排版结果 JSON 输出路径")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("需要一个任务文件")
	}
	input := flags.Arg(0)

	_, log, r, err := c.setup(input, false)
	if err != nil {
		return err
	}
	cfg, _, err := config.LoadInput(input)
	if err != nil {
		return fmt.Errorf("读取任务失败: %w", err)
	}
	spec := previewSpec(cfg, subject)

	if debugPath != "" || vector {
		d, err := layout.ComposeCard(spec, r)
		if err != nil {
			return fmt.Errorf("排版失败: %w", err)
		}
		if debugPath != "" {
			if err := writeDebug(&d, debugPath); err != nil {
				return err
			}
		}
		if vector {
			data, err := r.Render(&d)
			if err != nil {
				return fmt.Errorf("渲染 PDF 失败: %w", err)
			}
			return writeFile(out, data)
		}
	}

	pipeline := &export.Pipeline{Rasterizer: r, Typesetter: r, Log: log}
	bm, err := pipeline.Preview(context.Background(), spec)
	if err != nil {
		return err
	}
	if err := writeFile(out, bm.Data); err != nil {
		return err
	}
	fmt.Printf("已生成预览：%s（%dx%d）\n", out, bm.Width, bm.Height)
	return nil
}

// previewSpec 取指定科目的条目快照；找不到时使用当前 Spec。
func previewSpec(cfg card.Config, subject string) card.Spec {
	for _, it := range cfg.Subjects {
		if subject == "" || strings.EqualFold(it.Name, subject) {
			spec := it.Snapshot.Clone()
			spec.Subject = it.Name
			return spec
		}
	}
	spec := cfg.Spec.Clone()
	if subject != "" {
		spec.Subject = subject
	}
	return spec
}

func inspectCmd(args []string) error {
	flags := pflag.NewFlagSet("inspect", pflag.ExitOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("需要一个 PDF 文件")
	}
	path := flags.Arg(0)

	n, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("读取 PDF 失败: %w", err)
	}
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return fmt.Errorf("读取页面尺寸失败: %w", err)
	}
	fmt.Printf("%s: %d 页\n", path, n)
	for i, dim := range dims {
		fmt.Printf("  第 %d 页: %.1f x %.1f pt (%.0f x %.0f mm)\n", i+1, dim.Width, dim.Height,
			dim.Width/layout.MmToPt, dim.Height/layout.MmToPt)
	}
	return nil
}

func serveCmd(args []string) error {
	var (
		c       common
		addr    string
		timeout time.Duration
	)
	flags := pflag.NewFlagSet("serve", pflag.ExitOnError)
	c.bind(flags)
	flags.StringVar(&addr, "addr", "", "监听地址（默认取环境变量，缺省 :8080）")
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "单个请求超时")
	if err := flags.Parse(args); err != nil {
		return err
	}

	settings, log, r, err := c.setup("", true)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = settings.Addr
	}

	pipeline := &export.Pipeline{Rasterizer: r, Typesetter: r, Parallelism: settings.Parallelism, Log: log}
	app := server.New(export.NewRunner(pipeline), pipeline, server.Options{Log: log, Timeout: timeout})

	errCh := make(chan error, 1)
	go func() {
		log.Info("监听 %s", addr)
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(d *layout.Drawing, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(d, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
