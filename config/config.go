// Package config 读取导出任务：YAML 任务文件或 .cards 文件，以及 .env 中的运行环境设置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/namecard/card"
	"github.com/ByLCY/namecard/dsl"
)

// Subject 是任务文件中的一个科目条目；模板等字段非空时只覆盖该条目的快照。
type Subject struct {
	Name      string          `yaml:"name"`
	Count     int             `yaml:"count"`
	Template  card.TemplateID `yaml:"template,omitempty"`
	ColorMode card.ColorMode  `yaml:"colorMode,omitempty"`
	Image     string          `yaml:"image,omitempty"`
}

// Job 是 YAML 任务文件的内容。
type Job struct {
	Spec        card.Spec          `yaml:"spec"`
	Language    card.Language      `yaml:"language,omitempty"`
	Rules       card.LanguageRules `yaml:"languageRules,omitempty"`
	Subjects    []Subject          `yaml:"subjects"`
	Blank       int                `yaml:"blank,omitempty"`
	Format      string             `yaml:"format,omitempty"`
	Output      string             `yaml:"output,omitempty"`
	Parallelism int                `yaml:"parallelism,omitempty"`
}

// 默认值。
const (
	DefaultFormat    = "pdf"
	DefaultOutputDir = "."
)

// LoadJob 读取 YAML 任务文件并补全默认值。
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJob(data)
}

// ParseJob 解析 YAML；未出现的 Spec 字段保留 card.NewSpec 的默认值。
func ParseJob(data []byte) (*Job, error) {
	job := Job{Spec: card.NewSpec()}
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("解析任务文件失败: %w", err)
	}
	if job.Format == "" {
		job.Format = DefaultFormat
	}
	if job.Output == "" {
		job.Output = DefaultOutputDir
	}
	if job.Parallelism < 1 {
		job.Parallelism = 1
	}
	return &job, nil
}

// Config 把任务转换为经过校验的 card.Config。
func (j *Job) Config() (card.Config, error) {
	cfg := card.NewConfig()
	cfg.Rules = j.Rules
	cfg = cfg.WithSpec(j.Spec)
	if j.Language != "" {
		cfg = cfg.WithGlobalLanguage(j.Language)
	}

	items := make([]card.BatchItem, 0, len(j.Subjects)+1)
	for _, s := range j.Subjects {
		spec := cfg.Spec.Clone()
		if s.Template != "" {
			spec.Template = s.Template
		}
		if s.ColorMode != "" {
			spec.ColorMode = s.ColorMode
		}
		if s.Image != "" {
			spec.ImagePath = s.Image
		}
		items = append(items, card.NewBatchItem(s.Name, s.Count, spec))
	}
	if j.Blank > 0 {
		items = append(items, card.NewBatchItem("", j.Blank, cfg.Spec))
	}
	cfg = cfg.ReplaceSubjects(items)

	if err := card.ValidateConfig(cfg); err != nil {
		return card.Config{}, err
	}
	return cfg, nil
}

// LoadInput 按扩展名读取 .cards 或 YAML 输入，返回名片配置与任务选项。
// .cards 文件没有任务选项，使用默认值。
func LoadInput(path string) (card.Config, *Job, error) {
	if strings.EqualFold(filepath.Ext(path), ".cards") {
		cfg, err := dsl.Load(path)
		if err != nil {
			return card.Config{}, nil, err
		}
		job, _ := ParseJob(nil)
		return cfg, job, card.ValidateConfig(cfg)
	}
	job, err := LoadJob(path)
	if err != nil {
		return card.Config{}, nil, err
	}
	cfg, err := job.Config()
	if err != nil {
		return card.Config{}, nil, err
	}
	return cfg, job, nil
}

// 环境变量名。
const (
	EnvLocalFont     = "NAMECARD_LOCAL_FONT"
	EnvLocalFontBold = "NAMECARD_LOCAL_FONT_BOLD"
	EnvOutputDir     = "NAMECARD_OUTPUT_DIR"
	EnvImageDir      = "NAMECARD_IMAGE_DIR"
	EnvLogLevel      = "NAMECARD_LOG_LEVEL"
	EnvParallelism   = "NAMECARD_PARALLELISM"
	EnvAddr          = "NAMECARD_ADDR"
)

// Settings 是与具体任务无关的运行环境设置。
type Settings struct {
	LocalFont     string
	LocalFontBold string
	OutputDir     string
	ImageDir      string
	LogLevel      string
	Parallelism   int
	Addr          string
}

// LoadSettings 读取 .env 文件（不存在时忽略），进程环境变量优先。
func LoadSettings(envFiles ...string) (Settings, error) {
	values := map[string]string{}
	for _, path := range envFiles {
		m, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}, fmt.Errorf("读取 %s 失败: %w", path, err)
		}
		for k, v := range m {
			values[k] = v
		}
	}
	get := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := values[key]; v != "" {
			return v
		}
		return fallback
	}

	s := Settings{
		LocalFont:     get(EnvLocalFont, ""),
		LocalFontBold: get(EnvLocalFontBold, ""),
		OutputDir:     get(EnvOutputDir, DefaultOutputDir),
		ImageDir:      get(EnvImageDir, ""),
		LogLevel:      get(EnvLogLevel, "info"),
		Addr:          get(EnvAddr, ":8080"),
		Parallelism:   1,
	}
	if raw := get(EnvParallelism, ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Settings{}, fmt.Errorf("%s 必须是正整数: %q", EnvParallelism, raw)
		}
		s.Parallelism = n
	}
	return s, nil
}
