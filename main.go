package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260828-go-pkg-cfgr/internal/command/example"
	"github.com/lwmacct/260828-go-pkg-cfgr/internal/command/server"
	"github.com/lwmacct/260828-go-pkg-cfgr/internal/config"
)

func main() {
	app := &cli.Command{
		Name:  config.AppName,
		Usage: "配置解析与 CLI 绑定工具",
		Commands: []*cli.Command{
			example.Command,
			server.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
