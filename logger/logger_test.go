package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithFlags(0), WithLevel(LevelDebug))
	l.Info("a %d", 1)
	l.Debug("b")
	l.Trace("c")
	out := buf.String()
	if !strings.Contains(out, "INFO: a 1") || !strings.Contains(out, "DEBUG: b") {
		t.Fatalf("缺少日志输出: %q", out)
	}
	if strings.Contains(out, "TRACE") {
		t.Fatalf("Debug 级别不应输出 Trace: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if lv, err := ParseLevel("TRACE"); err != nil || lv != LevelTrace {
		t.Fatalf("解析 TRACE 失败: %v %v", lv, err)
	}
	if lv, _ := ParseLevel(""); lv != LevelInfo {
		t.Fatalf("空串应为 Info")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("未知级别应报错")
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	if l.Enabled(LevelError) {
		t.Fatalf("nil 日志不应启用")
	}
}
