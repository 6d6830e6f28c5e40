// Package config 提供应用配置管理。
//
// 配置解析优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - -c/--config 或默认搜索路径
//  3. 环境变量 - CFGR_ 前缀
//  4. CLI 覆盖项 - 尾部 key=value 参数
package config

import (
	"time"
)

// AppName 应用名称，同时用于默认配置搜索路径与环境变量前缀。
const AppName = "cfgr"

// EnvPrefix 环境变量前缀。
const EnvPrefix = "CFGR_"

// Config 应用配置。
type Config struct {
	Server ServerConfig `json:"server" desc:"服务端配置"`
	Client ClientConfig `json:"client" desc:"客户端配置"`
	Log    LogConfig    `json:"log" desc:"日志配置"`
}

// ServerConfig 服务端配置。
type ServerConfig struct {
	Addr     string        `json:"addr" desc:"服务器监听地址"`
	Docs     string        `json:"docs" desc:"静态文档目录路径"`
	Timeout  time.Duration `json:"timeout" desc:"HTTP 读写超时"`
	Idletime time.Duration `json:"idletime" desc:"HTTP 空闲超时"`
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	URL     string        `json:"url" desc:"服务器地址"`
	Timeout time.Duration `json:"timeout" desc:"请求超时时间"`
	Retries int           `json:"retries" desc:"重试次数"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Format string `json:"format" desc:"日志格式 (text/json)"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":40117",
			Docs:     "docs/dist",
			Timeout:  15 * time.Second,
			Idletime: 60 * time.Second,
		},
		Client: ClientConfig{
			URL:     `${API_BASE_URL:-http://localhost:40117}`,
			Timeout: 30 * time.Second,
			Retries: 3,
		},
		Log: LogConfig{
			Format: "text",
		},
	}
}
