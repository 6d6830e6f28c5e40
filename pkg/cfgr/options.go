package cfgr

import "io"

// options binder 构建选项。
type options struct {
	strict      bool
	appName     string   // 应用名称，用于生成默认配置搜索路径
	configPaths []string // 显式配置文件搜索路径，覆盖 appName 生成的路径
	envPrefix   string
	output      io.Writer
}

// Option binder 构建选项函数。
type Option func(*options)

// WithStrict 启用严格模式：输入配置不得引入 schema 未声明的 key，
// 物化到结构体时多余字段同样报错。
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithAppName 设置应用名称，未显式传入 -c 时按默认路径搜索配置文件
// （见 [DefaultPaths]）。
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithConfigPaths 设置配置文件搜索路径，按顺序查找，命中首个文件即停止。
//
// 仅在未显式传入 -c 时生效；设置后 [WithAppName] 的默认路径不再使用。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithEnvPrefix 启用环境变量覆盖层，优先级介于配置文件与 CLI 覆盖项之间。
//
// 环境变量命名规则：前缀 + 大写的配置 key，"." 和 "-" 转为 "_"。
// 示例 (前缀 "MYAPP_")：server.addr → MYAPP_SERVER_ADDR。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithOutput 设置诊断信息的输出目标，默认标准输出。
func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.output = out
	}
}
