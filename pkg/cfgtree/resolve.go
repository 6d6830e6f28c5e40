package cfgtree

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Issue 单个未解析的配置项。
type Issue struct {
	Path   string
	Reason string
}

// ValidationError 配置校验失败，列出所有未解析的路径。
type ValidationError struct {
	Issues []Issue
}

// Paths 返回所有未解析项的点分路径。
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		paths[i] = issue.Path
	}

	return paths
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Path + ": " + issue.Reason
	}

	return "cfgtree: unresolved config values: " + strings.Join(parts, "; ")
}

// Validate 校验并解析配置树。
//
// 所有叶子必须已解析：[Missing] 占位与无法解析的 ${...} 插值均记入
// [ValidationError]。成功时返回解析后的深拷贝；入参不被修改，
// 因此对已解析的树再次校验得到相等的结果。
func Validate(t *Tree) (*Tree, error) {
	r := &resolver{
		root:      t,
		env:       snapshotEnv(),
		resolving: make(map[string]bool),
	}

	out := t.Copy()
	var issues []Issue
	r.resolveNode(out, "", &issues)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return out, nil
}

// resolver 执行 ${...} 插值解析。
//
// 引用查找顺序：树内点分路径优先，其次环境变量快照。
// ":=" 赋值仅写入本次解析的环境变量快照。
type resolver struct {
	root      *Tree
	env       map[string]string
	resolving map[string]bool // 正在解析的路径，用于检测循环引用
}

// snapshotEnv 生成当前环境变量快照。
func snapshotEnv() map[string]string {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			vars[parts[0]] = parts[1]
		}
	}

	return vars
}

func (r *resolver) resolveNode(t *Tree, prefix string, issues *[]Issue) {
	for _, key := range t.keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch value := t.vals[key].(type) {
		case *Tree:
			r.resolveNode(value, path, issues)
		case missingValue:
			*issues = append(*issues, Issue{Path: path, Reason: "missing value"})
		case string:
			expanded, err := r.expandLeaf(value)
			if err != nil {
				*issues = append(*issues, Issue{Path: path, Reason: err.Error()})

				continue
			}
			t.vals[key] = expanded
		case []any:
			for i, elem := range value {
				switch typed := elem.(type) {
				case *Tree:
					r.resolveNode(typed, fmt.Sprintf("%s[%d]", path, i), issues)
				case missingValue:
					*issues = append(*issues, Issue{Path: fmt.Sprintf("%s[%d]", path, i), Reason: "missing value"})
				case string:
					expanded, err := r.expandLeaf(typed)
					if err != nil {
						*issues = append(*issues, Issue{Path: fmt.Sprintf("%s[%d]", path, i), Reason: err.Error()})

						continue
					}
					value[i] = expanded
				}
			}
		}
	}
}

// expandLeaf 展开叶子字符串中的 ${...} 插值，无插值时原样返回。
func (r *resolver) expandLeaf(text string) (string, error) {
	if !strings.Contains(text, "$") {
		return text, nil
	}

	return r.expand(text)
}

// ═══════════════════════════════════════════════════════════════════════════
// Shell Parameter Expansion（引用查找扩展为树路径 + 环境变量）
// ═══════════════════════════════════════════════════════════════════════════

func isRefNameStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isRefNameChar(ch byte) bool {
	return isRefNameStart(ch) || (ch >= '0' && ch <= '9') || ch == '.'
}

func parseRefExpression(expr string) (string, string, string, bool) {
	if expr == "" {
		return "", "", "", false
	}
	if !isRefNameStart(expr[0]) {
		return "", "", "", false
	}

	i := 1
	for i < len(expr) && isRefNameChar(expr[i]) {
		i++
	}

	name := expr[:i]
	rest := expr[i:]
	if rest == "" {
		return name, "", "", true
	}

	if len(rest) >= 2 && rest[0] == ':' {
		switch rest[1] {
		case '-', '+', '?', '=':
			return name, rest[:2], rest[2:], true
		}
	}

	switch rest[0] {
	case '-', '+', '?', '=':
		return name, rest[:1], rest[1:], true
	}

	return "", "", "", false
}

// lookup 解析引用名：树内路径优先，其次环境变量。
func (r *resolver) lookup(name string) (string, bool, error) {
	if value, ok := r.root.Get(name); ok {
		resolved, err := r.referencedString(name, value)
		if err != nil {
			return "", false, err
		}

		return resolved, true, nil
	}

	value, ok := r.env[name]

	return value, ok, nil
}

// referencedString 将被引用的树内值转换为字符串，必要时递归展开。
func (r *resolver) referencedString(name string, value any) (string, error) {
	if IsMissing(value) {
		return "", fmt.Errorf("reference ${%s} points to a missing value", name)
	}
	if _, ok := value.(*Tree); ok {
		return "", fmt.Errorf("reference ${%s} points to a section", name)
	}

	if s, ok := value.(string); ok && strings.Contains(s, "${") {
		if r.resolving[name] {
			return "", fmt.Errorf("interpolation cycle through %q", name)
		}
		r.resolving[name] = true
		defer delete(r.resolving, name)

		return r.expand(s)
	}

	return formatScalar(value), nil
}

func formatScalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case time.Duration:
		return typed.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func requiredError(name, word string) error {
	if word == "" {
		return fmt.Errorf("%s: parameter null or not set", name)
	}

	return fmt.Errorf("%s: %s", name, word)
}

func (r *resolver) expandWord(word string) (string, error) {
	if !strings.Contains(word, "${") {
		return word, nil
	}

	return r.expand(word)
}

func (r *resolver) expandExpression(expr string) (string, bool, error) {
	name, op, word, ok := parseRefExpression(expr)
	if !ok {
		return "", false, nil
	}

	val, isSet, err := r.lookup(name)
	if err != nil {
		return "", false, err
	}

	switch op {
	case "":
		if isSet {
			return val, true, nil
		}
		// 裸引用无处可查时视为未解析，交由 Validate 报告

		return "", false, fmt.Errorf("unresolved reference ${%s}", name)
	case ":-":
		if !isSet || val == "" {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}

			return expanded, true, nil
		}

		return val, true, nil
	case "-":
		if !isSet {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}

			return expanded, true, nil
		}

		return val, true, nil
	case ":+": // 已设置且非空
		if isSet && val != "" {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}

			return expanded, true, nil
		}

		return "", true, nil
	case "+":
		if isSet {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}

			return expanded, true, nil
		}

		return "", true, nil
	case ":?":
		if !isSet || val == "" {
			return "", false, requiredError(name, word)
		}

		return val, true, nil
	case "?":
		if !isSet {
			return "", false, requiredError(name, word)
		}

		return val, true, nil
	case ":=":
		if !isSet || val == "" {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}
			r.env[name] = expanded

			return expanded, true, nil
		}

		return val, true, nil
	case "=":
		if !isSet {
			expanded, err := r.expandWord(word)
			if err != nil {
				return "", false, err
			}
			r.env[name] = expanded

			return expanded, true, nil
		}

		return val, true, nil
	}

	return "", false, nil
}

func (r *resolver) expand(text string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' {
			buf.WriteByte(ch)
			i++

			continue
		}
		if i+1 >= len(text) {
			buf.WriteByte(ch)
			i++

			continue
		}

		next := text[i+1]
		if next == '$' {
			buf.WriteByte('$')
			i += 2

			continue
		}
		if next != '{' {
			buf.WriteByte(ch)
			i++

			continue
		}

		end := findMatchingBrace(text, i+2)
		if end == -1 {
			buf.WriteByte(ch)
			i++

			continue
		}

		expr := text[i+2 : end]
		expanded, ok, err := r.expandExpression(expr)
		if err != nil {
			return "", err
		}
		if ok {
			buf.WriteString(expanded)
		} else {
			// 无法识别的表达式保持原样
			buf.WriteString(text[i : end+1])
		}

		i = end + 1
	}

	return buf.String(), nil
}

func findMatchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		if text[i] == '$' && i+1 < len(text) && text[i+1] == '{' {
			depth++
			i++

			continue
		}
		if text[i] == '}' {
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return -1
}
