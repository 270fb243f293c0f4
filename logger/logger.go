// Package logger 是基于标准库 log.Logger 的分级日志。
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) tag() string {
	switch l {
	case LevelError:
		return "ERROR: "
	case LevelDebug:
		return "DEBUG: "
	case LevelTrace:
		return "TRACE: "
	}
	return "INFO: "
}

// ParseLevel 解析 error/info/debug/trace（不区分大小写）。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	}
	return LevelInfo, fmt.Errorf("未知日志级别 %q", s)
}

type Logger struct {
	*log.Logger
	level Level
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = log.New(w, l.Prefix(), l.Flags())
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Writer(), prefix, l.Flags())
	}
}

func WithFlags(flags int) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Writer(), l.Prefix(), flags)
	}
}

func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// New 默认输出到 stderr，级别为 Info。
func New(options ...Option) *Logger {
	l := &Logger{
		Logger: log.New(os.Stderr, "", log.LstdFlags),
		level:  LevelInfo,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Discard 返回丢弃所有输出的日志，供测试与库默认值使用。
func Discard() *Logger { return New(WithOutput(io.Discard), WithLevel(LevelError)) }

func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) Enabled(level Level) bool { return l != nil && l.level >= level }

func (l *Logger) Error(format string, args ...any) { l.printf(LevelError, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.printf(LevelInfo, format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.printf(LevelDebug, format, args...) }
func (l *Logger) Trace(format string, args ...any) { l.printf(LevelTrace, format, args...) }

func (l *Logger) printf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.Logger.Printf(level.tag()+format, args...)
}

func (l *Logger) Fatal(format string, args ...any) {
	l.Logger.Fatalf("FATAL: "+format, args...)
}
