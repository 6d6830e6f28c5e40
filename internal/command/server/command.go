// Package server 提供 HTTP 服务器命令。
//
// 命令的参数面由 cfgr binder 生成：固定 flags (-c/-o/-i/-p/-d/-q)
// 加尾部 key=value 覆盖项，如 `server server.addr=:8080`。
package server

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260828-go-pkg-cfgr/internal/command"
	"github.com/lwmacct/260828-go-pkg-cfgr/internal/config"
	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgr"
)

var binder = cfgr.MustNew("server", command.Defaults, run,
	cfgr.WithAppName(config.AppName),
	cfgr.WithEnvPrefix(config.EnvPrefix),
)

// Command 服务器命令
var Command *cli.Command = binder.Command()
