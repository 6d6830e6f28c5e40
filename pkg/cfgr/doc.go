// Package cfgr 提供配置解析与 CLI 绑定。
//
// binder 接收声明式的 schema 结构体，按默认值、配置文件、环境变量、
// CLI 覆盖项逐层合并，校验后将完整配置传入注册的入口函数。
//
// # 合并优先级 (从低到高)
//
//  1. 默认值 - 通过 defaults 参数传入，required:"true" 字段必须被覆盖
//  2. 配置文件 - -c/--config 显式指定，或按默认路径搜索（见 [DefaultPaths]）
//  3. 环境变量(前缀) - 通过 [WithEnvPrefix] 启用
//  4. CLI 覆盖项 - 尾部 key=value 参数，最高优先级
//
// 合并是叶子级的结构化合并：高优先级来源只覆盖它实际设置的路径。
//
// # 快速开始
//
// 定义配置结构体（json + desc 标签）：
//
//	type Config struct {
//	    LR     float64       `json:"lr"     desc:"学习率"`
//	    Epochs int           `json:"epochs" desc:"训练轮数"`
//	    Token  string        `json:"token"  desc:"访问令牌" required:"true"`
//	}
//
// 注册入口函数并运行：
//
//	b := cfgr.MustNew("trainer", DefaultConfig(), func(ctx context.Context, cfg *Config) error {
//	    return train(ctx, cfg)
//	})
//	cmd := b.Command()
//
// # 固定 flag 表
//
//	-c/--config   配置文件路径
//	-o/--options  打印全部默认选项（始终基于纯默认树，不受输入影响）
//	-i/--inputs   打印原始输入（文件与 CLI 覆盖项分开显示）
//	-p/--parsed   打印合并校验后的完整配置
//	-d/--debug    将全局日志级别提升为 Debug
//	-q/--quiet    运行时不打印解析后的配置
//
// options/inputs/parsed 任一被请求时不运行入口函数，调用返回延迟空操作
// （[Outcome] 的 Ran 为 false）；quiet 单独出现仍会运行；
// parsed 的打印优先于 quiet 的抑制。
//
// # 严格与宽松模式
//
// 默认宽松：输入可以新增 schema 未声明的 key。[WithStrict] 切换为严格模式，
// 未声明的 key 在合并与物化两个阶段都会报错。
//
// # 校验
//
// 合并后的树必须完全解析：required 字段未被覆盖、"???" 字面量残留、
// ${...} 插值无法解析，均以 [cfgtree.ValidationError] 终止本次调用，
// 错误中列出全部问题路径。
package cfgr
