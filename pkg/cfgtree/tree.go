package cfgtree

import (
	"fmt"
	"slices"
	"strings"
)

// MissingLiteral 配置文件与 dotlist 中表示缺失值的字面量。
const MissingLiteral = "???"

// missingValue 缺失占位值的内部类型。
type missingValue struct{}

func (missingValue) String() string { return MissingLiteral }

// Missing 表示"必须在使用前提供"的占位值。
//
// 带有该占位的叶子在 [Validate] 时报错，直到被更高优先级的
// 配置来源（文件、环境变量、CLI 覆盖项）填充。
var Missing = missingValue{}

// IsMissing 判断 v 是否为缺失占位值。
func IsMissing(v any) bool {
	_, ok := v.(missingValue)

	return ok
}

// Tree 有序的层级配置树。
//
// key 顺序即插入/声明顺序，遍历与打印均按该顺序输出。
// 叶子值可以是标量、[]any 或 [Missing]；子节点为 *Tree。
type Tree struct {
	keys  []string
	vals  map[string]any
	descs map[string]string // 直接子项的说明文本，来自 schema 的 desc tag
}

// New 创建空配置树。
func New() *Tree {
	return &Tree{vals: make(map[string]any)}
}

// Len 返回直接子项数量。
func (t *Tree) Len() int { return len(t.keys) }

// Keys 返回直接子项的 key，顺序为声明顺序。
func (t *Tree) Keys() []string {
	return slices.Clone(t.keys)
}

// setKey 写入直接子项，保持首次插入的顺序。
func (t *Tree) setKey(key string, value any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = value
}

// setDesc 记录直接子项的说明文本。
func (t *Tree) setDesc(key, desc string) {
	if desc == "" {
		return
	}
	if t.descs == nil {
		t.descs = make(map[string]string)
	}
	t.descs[key] = desc
}

// Get 按点分路径查找值。
func (t *Tree) Get(path string) (any, bool) {
	node := t
	parts := strings.Split(path, ".")
	for i, part := range parts {
		value, ok := node.vals[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return value, true
		}
		node, ok = value.(*Tree)
		if !ok {
			return nil, false
		}
	}

	return nil, false
}

// Set 按点分路径写入值，中间节点不存在或不是子树时自动创建。
func (t *Tree) Set(path string, value any) {
	node := t
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			node.setKey(part, value)

			return
		}

		next, ok := node.vals[part].(*Tree)
		if !ok {
			next = New()
			node.setKey(part, next)
		}
		node = next
	}
}

// Delete 删除点分路径对应的叶子或子树，返回是否存在。
func (t *Tree) Delete(path string) bool {
	node := t
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			if _, ok := node.vals[part]; !ok {
				return false
			}
			delete(node.vals, part)
			delete(node.descs, part)
			node.keys = slices.DeleteFunc(node.keys, func(k string) bool { return k == part })

			return true
		}

		next, ok := node.vals[part].(*Tree)
		if !ok {
			return false
		}
		node = next
	}

	return false
}

// Copy 深拷贝整棵树。
func (t *Tree) Copy() *Tree {
	out := New()
	out.keys = slices.Clone(t.keys)
	for key, value := range t.vals {
		out.vals[key] = copyValue(value)
	}
	if t.descs != nil {
		out.descs = make(map[string]string, len(t.descs))
		for key, desc := range t.descs {
			out.descs[key] = desc
		}
	}

	return out
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case *Tree:
		return typed.Copy()
	case []any:
		out := make([]any, len(typed))
		for i, elem := range typed {
			out[i] = copyValue(elem)
		}

		return out
	default:
		return value
	}
}

// ToMap 转换为普通嵌套 map，子树递归展开，key 顺序信息丢失。
func (t *Tree) ToMap() map[string]any {
	out := make(map[string]any, len(t.keys))
	for _, key := range t.keys {
		out[key] = valueToMap(t.vals[key])
	}

	return out
}

func valueToMap(value any) any {
	switch typed := value.(type) {
	case *Tree:
		return typed.ToMap()
	case []any:
		out := make([]any, len(typed))
		for i, elem := range typed {
			out[i] = valueToMap(elem)
		}

		return out
	default:
		return value
	}
}

// Merge 右侧优先的递归合并。
//
// 仅覆盖高优先级来源实际设置的路径：两侧同为子树时逐层递归，
// 其余情况整体替换。base 与 overlays 均不被修改。
func Merge(base *Tree, overlays ...*Tree) *Tree {
	out := New()
	if base != nil {
		out = base.Copy()
	}
	for _, overlay := range overlays {
		if overlay == nil {
			continue
		}
		mergeInPlace(out, overlay)
	}

	return out
}

func mergeInPlace(dst, src *Tree) {
	for _, key := range src.keys {
		srcValue := src.vals[key]
		if srcSub, ok := srcValue.(*Tree); ok {
			if dstSub, ok := dst.vals[key].(*Tree); ok {
				mergeInPlace(dstSub, srcSub)

				continue
			}
		}

		dst.setKey(key, copyValue(srcValue))
		if desc, ok := src.descs[key]; ok {
			dst.setDesc(key, desc)
		}
	}
}

// MergeInto 将 overlay 合并进 schema 树，保留 schema 的声明顺序与说明文本。
//
// strict 模式 (permissive=false) 下 overlay 不得引入 schema 未声明的 key，
// 不得把标量叶子改写为子树，也不得以标量覆盖子树；
// permissive 模式允许新增 key 追加到末尾。
func MergeInto(schema, overlay *Tree, permissive bool) (*Tree, error) {
	out := schema.Copy()
	if overlay == nil {
		return out, nil
	}
	if err := mergeIntoNode(out, overlay, permissive, ""); err != nil {
		return nil, err
	}

	return out, nil
}

func mergeIntoNode(dst, src *Tree, permissive bool, prefix string) error {
	for _, key := range src.keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		srcValue := src.vals[key]
		dstValue, declared := dst.vals[key]
		if !declared && !permissive {
			return fmt.Errorf("cfgtree: strict merge: key %q is not declared in schema", path)
		}

		if srcSub, ok := srcValue.(*Tree); ok {
			dstSub, ok := dstValue.(*Tree)
			if ok {
				if err := mergeIntoNode(dstSub, srcSub, permissive, path); err != nil {
					return err
				}

				continue
			}
			if declared && !permissive {
				return fmt.Errorf("cfgtree: strict merge: key %q is not a section", path)
			}
		} else if _, ok := dstValue.(*Tree); ok && !permissive {
			return fmt.Errorf("cfgtree: strict merge: key %q is a section, cannot be replaced by a scalar", path)
		}

		dst.setKey(key, copyValue(srcValue))
	}

	return nil
}
