// Package example 提供配置示例生成命令。
package example

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260828-go-pkg-cfgr/internal/command"
	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgr"
)

// Command 配置示例命令
var Command = &cli.Command{
	Name:  "example",
	Usage: "生成带注释的配置示例文件",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "write",
			Aliases: []string{"w"},
			Usage:   "写入目标文件路径，缺省输出到标准输出",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	content, err := cfgr.ExampleYAML(command.Defaults)
	if err != nil {
		return fmt.Errorf("generate example config: %w", err)
	}

	if path := cmd.String("write"); path != "" {
		return os.WriteFile(path, content, 0o600)
	}

	_, err = os.Stdout.Write(content)

	return err
}
