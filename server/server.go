// Package server 提供可选的 HTTP 导出接口。
package server

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/export"
	"github.com/ByLCY/namecard/logger"
	"github.com/ByLCY/namecard/renderer"
)

// errImage 是返回给客户端的照片错误，不包含路径或文件系统细节。
var errImage = fiber.NewError(fiber.StatusBadRequest, "照片不可用")

// SubjectRequest 是请求中的一个科目条目；空名称表示空白名片。
type SubjectRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Count int    `json:"count" validate:"gte=1,lte=500"`
}

// ExportRequest 是导出与预览接口的请求体。
type ExportRequest struct {
	Spec     card.Spec        `json:"spec"`
	Language card.Language    `json:"language" validate:"omitempty,oneof=local latin mixed"`
	Subjects []SubjectRequest `json:"subjects" validate:"dive"`
}

// Config 转换为名片配置；每个条目都以同一个 Spec 为快照。
func (r ExportRequest) Config() card.Config {
	cfg := card.NewConfig().WithSpec(r.Spec)
	if r.Language != "" {
		cfg = cfg.WithGlobalLanguage(r.Language)
	}
	for _, s := range r.Subjects {
		cfg = cfg.AddSubject(s.Name, s.Count)
	}
	return cfg
}

// Options 配置 HTTP 服务。
type Options struct {
	Log *logger.Logger
	// Timeout 是单个请求的上限，0 表示不限制。
	Timeout time.Duration
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// New 创建 fiber 应用。导出任务通过 runner 串行执行，忙时返回 409。
func New(runner *export.Runner, pipeline *export.Pipeline, opts Options) *fiber.App {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             8 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				log.Error("请求失败: %v", err)
				fe = fiber.ErrInternalServerError
			}
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		if opts.Timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), opts.Timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}
		start := time.Now()
		err := c.Next()
		log.Info("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	h := &handler{runner: runner, pipeline: pipeline, log: log}
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/status", h.status)
	app.Get("/templates", h.templates)
	app.Post("/preview", h.preview)
	app.Post("/export/:format", h.export)
	return app
}

type handler struct {
	runner   *export.Runner
	pipeline *export.Pipeline
	log      *logger.Logger
}

func (h *handler) status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"busy": h.runner.Busy()})
}

func (h *handler) templates(c *fiber.Ctx) error {
	return c.JSON(card.Templates)
}

func (h *handler) parse(c *fiber.Ctx) (ExportRequest, error) {
	req := ExportRequest{Spec: card.NewSpec()}
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "请求体无法解析: "+err.Error())
	}
	if err := requestValidator().Struct(req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	// 照片只能是图片目录内的相对路径。
	if p := req.Spec.ImagePath; p != "" && !filepath.IsLocal(p) {
		return req, errImage
	}
	return req, nil
}

func (h *handler) export(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Params("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	req, err := h.parse(c)
	if err != nil {
		return err
	}
	art, err := h.runner.Run(c.UserContext(), req.Config(), format)
	switch {
	case errors.Is(err, export.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, export.ErrEmptyBatch):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, card.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, renderer.ErrImage):
		h.log.Info("照片不可用: %v", err)
		return errImage
	case err != nil:
		return err
	}
	c.Attachment(art.Name)
	c.Set("X-Card-Count", strconv.Itoa(art.Cards))
	return c.Send(art.Data)
}

func (h *handler) preview(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return err
	}
	cfg := req.Config()
	bm, err := h.pipeline.Preview(c.UserContext(), cfg.Spec)
	switch {
	case errors.Is(err, card.ErrInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, renderer.ErrImage):
		h.log.Info("照片不可用: %v", err)
		return errImage
	case err != nil:
		return err
	}
	c.Type("png")
	return c.Send(bm.Data)
}
