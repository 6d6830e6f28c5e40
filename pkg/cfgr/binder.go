package cfgr

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgtree"
	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/logm"
	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/printu"
)

// RunFunc 入口函数签名：恰好接收一个解析后的配置参数。
//
// 该签名是"单配置参数"契约的编译期表达，额外数据通过闭包捕获传入。
type RunFunc[T any] func(ctx context.Context, cfg *T) error

// Binder 将解析后的配置绑定到一个入口函数。
//
// 解析流程（每次调用单线程顺序执行）：
// 解析 flags → [打印选项] → 构建 CLI 覆盖树 → 加载配置文件 → 合并
// → [打印输入] → 合并进 schema → 校验 → [打印结果] → 运行或空操作。
type Binder[T any] struct {
	name     string
	defaults T
	schema   *cfgtree.Tree // 由 defaults 转换而来的 schema 树
	run      RunFunc[T]
	opts     options
}

// Outcome 一次调用的结果。
//
// Ran 为 false 表示延迟空操作：仅打印了请求的诊断信息，入口函数未被调用。
// Config 在走到 schema 合并与校验之后才会填充。
type Outcome[T any] struct {
	Ran    bool
	Config *T
}

// New 注册入口函数并构建 binder。
//
// run 为 nil 是注册期错误，先于任何 CLI 解析报告。
func New[T any](name string, defaults T, run RunFunc[T], opts ...Option) (*Binder[T], error) {
	if run == nil {
		return nil, fmt.Errorf("cfgr: binder %q requires a run function accepting the resolved config", name)
	}

	schema, err := cfgtree.FromStruct(defaults)
	if err != nil {
		return nil, fmt.Errorf("cfgr: binder %q: %w", name, err)
	}

	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	return &Binder[T]{
		name:     name,
		defaults: defaults,
		schema:   schema,
		run:      run,
		opts:     o,
	}, nil
}

// MustNew 调用 [New] 并在失败时 panic，适合包级变量初始化。
func MustNew[T any](name string, defaults T, run RunFunc[T], opts ...Option) *Binder[T] {
	b, err := New(name, defaults, run, opts...)
	if err != nil {
		panic(err)
	}

	return b
}

// Command 构建 urfave/cli 命令，Action 驱动完整解析流程。
//
// 尾部参数为 key=value 形式的点分路径覆盖项。
func (b *Binder[T]) Command() *cli.Command {
	return &cli.Command{
		Name:      b.name,
		Usage:     "解析配置 " + b.name + " 并运行",
		ArgsUsage: "[key=value ...]",
		Flags:     buildFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := b.execute(ctx, cmd)

			return err
		},
	}
}

// Execute 以给定参数运行一次完整调用并返回结果。
//
// args 形如 os.Args（首项为程序名）。主要用于测试与内嵌场景，
// 常规 CLI 集成直接使用 [Binder.Command]。
func (b *Binder[T]) Execute(ctx context.Context, args []string) (*Outcome[T], error) {
	var outcome *Outcome[T]
	cmd := b.Command()
	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		out, err := b.execute(ctx, cmd)
		outcome = out

		return err
	}

	if err := cmd.Run(ctx, args); err != nil {
		return nil, err
	}

	return outcome, nil
}

// execute 按固定决策表执行一次调用。
//
// 决策表（与打印开关的组合语义，刻意保持原样）：
//   - options/inputs/parsed 任一被请求时不运行入口函数
//   - 其中 parsed 未被请求时，在 schema 合并前即提前返回空操作
//   - quiet 单独出现时仍运行，仅抑制默认的结果打印
//   - parsed 的打印优先于 quiet 的抑制
func (b *Binder[T]) execute(ctx context.Context, cmd *cli.Command) (*Outcome[T], error) {
	opts := readCliOptions(cmd)

	if opts.debug {
		logm.SetDebug()
	}

	pu := printu.New(b.opts.output)

	if opts.options {
		lines := make([]string, 0, 8)
		for param := range cfgtree.Traverse(b.schema) {
			lines = append(lines, param.Path+" = "+displayValue(param.Value))
		}
		pu.Lines("OPTS/CLI FLAG:", lines...)
	}

	cliConfig, err := cfgtree.FromDotlist(cmd.Args().Slice())
	if err != nil {
		return nil, err
	}

	fileConfig, err := b.loadFileConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	overlays := []*cfgtree.Tree{cliConfig}
	if b.opts.envPrefix != "" {
		overlays = append([]*cfgtree.Tree{envOverrides(b.opts.envPrefix, b.schema)}, overlays...)
	}
	inputConfig := cfgtree.Merge(fileConfig, overlays...)

	if opts.inputs {
		pu.Print("INPUT/CLI ARGS:", cliConfig)
		pu.Print("INPUT/CFG FILE:", fileConfig)
	}

	if opts.doNotRun() && !opts.parsed {
		// 未请求打印解析结果且不运行入口函数，schema 合并与校验均可跳过
		return &Outcome[T]{}, nil
	}

	merged, err := cfgtree.MergeInto(b.schema, inputConfig, !b.opts.strict)
	if err != nil {
		return nil, err
	}

	parsed, err := cfgtree.Validate(merged)
	if err != nil {
		return nil, err
	}

	if !opts.quiet || opts.parsed {
		pu.Print("PARSE/ALL CFG:", parsed)
	}

	cfg := new(T)
	if err := decodeTree(parsed, cfg, b.opts.strict); err != nil {
		return nil, fmt.Errorf("cfgr: materialize resolved config: %w", err)
	}

	if opts.doNotRun() {
		return &Outcome[T]{Config: cfg}, nil
	}

	if err := b.run(ctx, cfg); err != nil {
		return nil, err
	}

	return &Outcome[T]{Ran: true, Config: cfg}, nil
}

// loadFileConfig 加载配置文件树。
//
// 显式传入 -c 时文件必须存在且可解析；未传入时按搜索路径查找，
// 命中首个可读文件即停止，全部未命中返回空树。
func (b *Binder[T]) loadFileConfig(path string) (*cfgtree.Tree, error) {
	if path != "" {
		return cfgtree.FromFile(path)
	}

	for _, candidate := range b.searchPaths() {
		content, err := os.ReadFile(candidate) //nolint:gosec // path is from trusted config
		if err != nil {
			continue
		}

		tree, err := cfgtree.FromBytes(candidate, content)
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded config from file", "path", candidate)

		return tree, nil
	}

	return cfgtree.New(), nil
}

func (b *Binder[T]) searchPaths() []string {
	if len(b.opts.configPaths) > 0 {
		return b.opts.configPaths
	}
	if b.opts.appName != "" {
		return DefaultPaths(b.opts.appName)
	}

	return nil
}

// displayValue 选项视图的值格式：空字符串显示为 ''，
// 空子树显示为 {}，其余按标量格式化。
func displayValue(value any) string {
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return "''"
		}

		return typed
	case *cfgtree.Tree:
		// 遍历只会把空子树作为叶子输出
		return "{}"
	}
	if cfgtree.IsMissing(value) {
		return cfgtree.MissingLiteral
	}

	return fmt.Sprintf("%v", value)
}
