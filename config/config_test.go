package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/namecard/card"
)

const sampleJob = `
spec:
  family: Perera
  student: Kasun
  grade: Grade 6
  school: Royal College
  template: retro
  aligns:
    grade: left
  styles:
    name:
      color: "#1e40af"
language: local
subjects:
  - name: Math
    count: 3
  - name: Art
    count: 2
    template: floral
    colorMode: mono
blank: 2
format: zip
output: out
`

func TestParseJob(t *testing.T) {
	job, err := ParseJob([]byte(sampleJob))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !job.Spec.AutoScale || !job.Spec.SmartLatin {
		t.Fatalf("未出现的开关应保留默认值")
	}
	if job.Format != "zip" || job.Output != "out" || job.Parallelism != 1 {
		t.Fatalf("任务选项不符: %+v", job)
	}

	cfg, err := job.Config()
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if cfg.Spec.Template != card.TemplateRetro || cfg.Spec.Align(card.FieldGrade) != card.AlignLeft {
		t.Fatalf("spec 未生效: %+v", cfg.Spec)
	}
	if cfg.Spec.Language(card.FieldFamily) != card.LanguageLatin {
		t.Fatalf("全局语言规则未生效")
	}
	if len(cfg.Subjects) != 3 {
		t.Fatalf("应有 3 个条目，实际 %d", len(cfg.Subjects))
	}
	art := cfg.Subjects[1]
	if art.Snapshot.Template != card.TemplateFloral || !art.Snapshot.Mono() {
		t.Fatalf("条目覆盖未生效: %+v", art.Snapshot)
	}
	if cfg.Subjects[0].Snapshot.Template != card.TemplateRetro {
		t.Fatalf("覆盖不应影响其他条目")
	}
	if blank := cfg.Subjects[2]; blank.Name != "" || blank.Count != 2 {
		t.Fatalf("空白条目不符: %+v", blank)
	}
}

func TestJobDefaults(t *testing.T) {
	job, err := ParseJob([]byte("subjects:\n  - name: Math\n"))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if job.Format != DefaultFormat || job.Output != DefaultOutputDir {
		t.Fatalf("默认值未补全: %+v", job)
	}
	if job.Spec.TemplateID() != card.TemplateModern {
		t.Fatalf("默认模板应为 modern")
	}
	cfg, err := job.Config()
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if cfg.Subjects[0].Count != 1 {
		t.Fatalf("数量缺省应为 1")
	}
}

func TestJobRejectsUnknownTemplate(t *testing.T) {
	if _, err := ParseJob([]byte("spec:\n  template: neon\n")); err == nil {
		t.Fatalf("未知模板应报错")
	}
}

func TestJobAcceptsAliases(t *testing.T) {
	job, err := ParseJob([]byte("spec:\n  template: default\n  colorMode: monochrome\nsubjects:\n  - name: Art\n    colorMode: colour\n"))
	if err != nil {
		t.Fatalf("别名应被接受: %v", err)
	}
	cfg, err := job.Config()
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if cfg.Spec.Template != card.TemplateModern || !cfg.Spec.Mono() {
		t.Fatalf("别名未归一化: %+v", cfg.Spec)
	}
	if cfg.Subjects[0].Snapshot.Mono() {
		t.Fatalf("条目的 colour 应覆盖为彩色")
	}
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "job.yaml")
	cardsPath := filepath.Join(dir, "job.cards")
	if err := os.WriteFile(yamlPath, []byte(sampleJob), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cardsPath, []byte(`cards "Kasun" { subject "Math" x 2 }`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, job, err := LoadInput(yamlPath)
	if err != nil || job.Format != "zip" || len(cfg.Subjects) != 3 {
		t.Fatalf("读取 YAML 失败: %v", err)
	}
	cfg, job, err = LoadInput(cardsPath)
	if err != nil {
		t.Fatalf("读取 .cards 失败: %v", err)
	}
	if job.Format != DefaultFormat || cfg.Spec.Student != "Kasun" || cfg.Subjects[0].Count != 2 {
		t.Fatalf(".cards 内容不符: %+v", cfg)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	content := EnvLocalFont + "=/fonts/local.ttf\n" + EnvOutputDir + "=from-file\n" + EnvParallelism + "=3\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvOutputDir, "from-env")

	s, err := LoadSettings(env, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("读取设置失败: %v", err)
	}
	if s.LocalFont != "/fonts/local.ttf" {
		t.Fatalf("应读取 .env 中的字体: %q", s.LocalFont)
	}
	if s.OutputDir != "from-env" {
		t.Fatalf("进程环境变量应优先: %q", s.OutputDir)
	}
	if s.Parallelism != 3 || s.LogLevel != "info" || s.Addr != ":8080" {
		t.Fatalf("设置不符: %+v", s)
	}
}

func TestLoadSettingsRejectsBadParallelism(t *testing.T) {
	t.Setenv(EnvParallelism, "zero")
	if _, err := LoadSettings(); err == nil {
		t.Fatalf("非法并发数应报错")
	}
}
