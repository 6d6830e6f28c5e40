// Package logm 提供进程级 slog 日志配置。
//
// [Setup] 一次调用完成级别、格式与输出的配置，可重复调用：
// 每次都会重新挂接默认 handler（强制重挂语义），未设置的字段从默认值补齐。
// [SetDebug] 将全局级别提升为 Debug，对进程余下部分生效。
package logm

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"dario.cat/mergo"
)

// 输出格式。
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options 日志配置项，零值字段按默认值补齐。
type Options struct {
	Level     slog.Level // 初始日志级别
	Format    string     // FormatText 或 FormatJSON
	Output    io.Writer  // 默认 os.Stderr
	AddSource bool       // 是否记录调用位置
}

func defaultOptions() Options {
	return Options{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

var (
	mu         sync.Mutex
	level      = new(slog.LevelVar) // 当前生效级别，SetDebug 动态调整
	configured bool
)

// Setup 配置进程级默认 logger。
func Setup(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if err := mergo.Merge(&opts, defaultOptions()); err != nil {
		return err
	}

	level.Set(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}

	var handler slog.Handler
	if opts.Format == FormatJSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
	configured = true

	return nil
}

// SetDebug 将全局日志级别提升为 Debug。
//
// 尚未调用过 [Setup] 时会先以默认配置完成初始化。
func SetDebug() {
	mu.Lock()
	needSetup := !configured
	mu.Unlock()

	if needSetup {
		_ = Setup(Options{Level: slog.LevelDebug})

		return
	}

	level.Set(slog.LevelDebug)
}
