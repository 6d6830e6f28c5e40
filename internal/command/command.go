// Package command 提供服务端与配置工具的命令行功能。
package command

import "github.com/lwmacct/260828-go-pkg-cfgr/internal/config"

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()
