package cfgr

import "github.com/urfave/cli/v3"

// flagSpec 静态 flag 表的一项。
type flagSpec struct {
	name   string // 长形式，--name
	alias  string // 短形式，-a
	usage  string
	isPath bool // config 为路径型，其余为布尔开关
}

// flagTable binder 的固定 flag 表，迭代生成参数面。
var flagTable = []flagSpec{
	{name: "config", alias: "c", usage: "YAML/JSON 配置文件路径", isPath: true},
	{name: "options", alias: "o", usage: "打印全部默认选项与对应 CLI 路径"},
	{name: "inputs", alias: "i", usage: "打印原始输入配置（文件与 CLI 覆盖项）"},
	{name: "parsed", alias: "p", usage: "打印合并校验后的完整配置"},
	{name: "debug", alias: "d", usage: "将全局日志级别提升为 Debug"},
	{name: "quiet", alias: "q", usage: "运行时不打印解析后的配置"},
}

func buildFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(flagTable))
	for _, spec := range flagTable {
		if spec.isPath {
			flags = append(flags, &cli.StringFlag{
				Name:    spec.name,
				Aliases: []string{spec.alias},
				Usage:   spec.usage,
			})

			continue
		}
		flags = append(flags, &cli.BoolFlag{
			Name:    spec.name,
			Aliases: []string{spec.alias},
			Usage:   spec.usage,
		})
	}

	return flags
}

// cliOptions 一次调用解析出的固定开关集合，构建后只读。
type cliOptions struct {
	configPath string
	options    bool
	inputs     bool
	parsed     bool
	debug      bool
	quiet      bool
}

func readCliOptions(cmd *cli.Command) cliOptions {
	return cliOptions{
		configPath: cmd.String("config"),
		options:    cmd.Bool("options"),
		inputs:     cmd.Bool("inputs"),
		parsed:     cmd.Bool("parsed"),
		debug:      cmd.Bool("debug"),
		quiet:      cmd.Bool("quiet"),
	}
}

// doNotRun 判断是否因打印诊断信息而跳过入口函数。
func (o cliOptions) doNotRun() bool {
	return o.options || o.inputs || o.parsed
}
