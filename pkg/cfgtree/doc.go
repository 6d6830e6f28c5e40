// Package cfgtree 提供有序的层级配置树。
//
// 树是通用的 key-value 层级存储，支持结构化合并、点分路径覆盖、
// 缺失占位与 ${...} 插值，是配置解析流程的基础数据结构。
//
// # 构建方式
//
//   - [FromStruct] - 按 json tag 将 schema 结构体转换为树（保留字段声明顺序）
//   - [FromFile] / [FromBytes] - 解析 YAML/JSON 文件（保留文件中的 key 顺序）
//   - [FromDotlist] - 解析 key=value 覆盖项列表
//
// # 合并语义
//
// [Merge] 为右侧优先的递归合并：仅覆盖高优先级来源实际设置的路径，
// 两侧同为子树时逐层递归，其余情况整体替换。
//
// [MergeInto] 将输入合并进 schema 树：strict 模式拒绝 schema 未声明的 key，
// permissive 模式允许新增。
//
// # 缺失占位与插值
//
// 字面量 "???"（[MissingLiteral]）表示"必须在使用前提供"的值；
// schema 结构体中用 required:"true" 标记零值字段。
//
// 叶子字符串中的 ${...} 为插值表达式，引用查找顺序为树内点分路径优先、
// 其次环境变量，支持 Shell 参数展开操作符（${VAR:-default} 等）、
// 嵌套表达式与 "$$" 字面量。
//
// [Validate] 校验整棵树：残留的缺失占位与无法解析的插值均会报错，
// 成功时返回完成插值展开的深拷贝。
//
// # 遍历
//
// [Traverse] 深度优先输出所有叶子的 (path, value)，兄弟顺序为声明顺序，
// 序列可重复使用，常用于选项展示与排错。
package cfgtree
