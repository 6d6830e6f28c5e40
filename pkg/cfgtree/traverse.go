package cfgtree

import "iter"

// Param 遍历产生的单个配置项。
type Param struct {
	Path  string // 从根开始的点分路径
	Value any
	Desc  string // schema desc tag 中的说明文本，可为空
}

// Traverse 深度优先遍历树中的所有叶子。
//
// 序列惰性产生、可重复使用且无副作用；兄弟顺序为声明顺序，
// 父节点的叶子先于子节点的叶子。空子树作为叶子输出。
func Traverse(t *Tree) iter.Seq[Param] {
	return func(yield func(Param) bool) {
		if t != nil {
			walkLeaves(t, "", yield)
		}
	}
}

func walkLeaves(t *Tree, prefix string, yield func(Param) bool) bool {
	for _, key := range t.keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if sub, ok := t.vals[key].(*Tree); ok && sub.Len() > 0 {
			if !walkLeaves(sub, path, yield) {
				return false
			}

			continue
		}

		if !yield(Param{Path: path, Value: t.vals[key], Desc: t.descs[key]}) {
			return false
		}
	}

	return true
}
