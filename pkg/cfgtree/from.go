package cfgtree

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	yamlv3 "go.yaml.in/yaml/v3"
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// FromStruct 按 json tag 将 schema 结构体（或其指针）转换为配置树。
//
// 字段顺序即声明顺序；desc tag 作为说明文本保留；
// required:"true" 的零值字段转换为 [Missing] 占位。
func FromStruct(v any) (*Tree, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, fmt.Errorf("cfgtree: schema must be a struct, got nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cfgtree: schema must be a struct, got %s", val.Kind())
	}

	return structValueToTree(val, val.Type()), nil
}

func structValueToTree(val reflect.Value, typ reflect.Type) *Tree {
	out := New()
	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}

		key := configTagName(field)
		if key == "" {
			continue
		}

		fieldVal := val.Field(i)
		if field.Tag.Get("required") == "true" && fieldVal.IsZero() {
			out.setKey(key, Missing)
		} else {
			out.setKey(key, valueToAny(fieldVal, field.Type))
		}
		out.setDesc(key, field.Tag.Get("desc"))
	}

	return out
}

func configTagName(field reflect.StructField) string {
	return parseTagName(field.Tag.Get("json"))
}

func parseTagName(tag string) string {
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, ",")
	if len(parts) == 0 || parts[0] == "" || parts[0] == "-" {
		return ""
	}

	return parts[0]
}

func isStructType(typ reflect.Type) bool {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ.Kind() == reflect.Struct && typ != durationType && typ != timeType
}

func valueToAny(val reflect.Value, typ reflect.Type) any {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
		typ = typ.Elem()
	}

	if isStructType(typ) {
		return structValueToTree(val, typ)
	}

	switch val.Kind() {
	case reflect.Slice:
		if val.IsNil() {
			return nil
		}
		out := make([]any, val.Len())
		for i := range val.Len() {
			elem := val.Index(i)
			out[i] = valueToAny(elem, elem.Type())
		}

		return out
	case reflect.Map:
		// map 无序，转换为按 key 排序的子树，保证遍历顺序可复现
		if val.IsNil() {
			return nil
		}
		keys := make([]string, 0, val.Len())
		byKey := make(map[string]reflect.Value, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			keys = append(keys, key)
			byKey[key] = iter.Value()
		}
		slices.Sort(keys)
		out := New()
		for _, key := range keys {
			elem := byKey[key]
			out.setKey(key, valueToAny(elem, elem.Type()))
		}

		return out
	default:
		return val.Interface()
	}
}

// FromFile 读取 YAML/JSON 配置文件并解析为有序树。
//
// 使用 yaml.Node 保留文件中的 key 顺序；JSON 是 YAML 子集，共用同一解析器。
// 根节点必须是 mapping，否则返回类型错误。标量 "???" 解析为 [Missing]。
func FromFile(path string) (*Tree, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
	if err != nil {
		return nil, fmt.Errorf("cfgtree: read config file %s: %w", path, err)
	}

	return FromBytes(path, content)
}

// FromBytes 解析 YAML/JSON 内容为有序树，source 仅用于错误信息。
func FromBytes(source string, content []byte) (*Tree, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("cfgtree: parse %s: %w", source, err)
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}

	root := doc.Content[0]
	if root.Kind != yamlv3.MappingNode {
		return nil, fmt.Errorf("cfgtree: %s: config root must be a mapping", source)
	}

	return mappingToTree(root)
}

func mappingToTree(node *yamlv3.Node) (*Tree, error) {
	out := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		value, err := nodeToValue(valNode)
		if err != nil {
			return nil, err
		}
		out.setKey(keyNode.Value, value)
	}

	return out, nil
}

func nodeToValue(node *yamlv3.Node) (any, error) {
	switch node.Kind {
	case yamlv3.MappingNode:
		return mappingToTree(node)
	case yamlv3.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, elem := range node.Content {
			value, err := nodeToValue(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}

		return out, nil
	case yamlv3.AliasNode:
		return nodeToValue(node.Alias)
	default:
		var out any
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		if s, ok := out.(string); ok && s == MissingLiteral {
			return Missing, nil
		}

		return out, nil
	}
}

// FromDotlist 将 key=value 形式的覆盖项列表解析为配置树。
//
// key 为点分路径；value 按 YAML 标量规则推断类型，"???" 表示缺失。
// 不含 "=" 或 key 为空的 token 视为格式错误。
func FromDotlist(tokens []string) (*Tree, error) {
	out := New()
	for _, token := range tokens {
		key, rawValue, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("cfgtree: malformed override %q: expected key=value", token)
		}
		out.Set(key, ParseScalar(rawValue))
	}

	return out, nil
}

// ParseScalar 按 YAML 标量规则推断覆盖值的类型，"???" 解析为 [Missing]。
func ParseScalar(raw string) any {
	if raw == "" {
		return ""
	}
	if raw == MissingLiteral {
		return Missing
	}

	var out any
	if err := yamlv3.Unmarshal([]byte(raw), &out); err != nil {
		return raw
	}
	switch out.(type) {
	case map[string]any, []any:
		// dotlist 的值只接受标量语义，复合形态按原始字符串处理
		return raw
	}
	if out == nil && raw != "" && raw != "null" && raw != "~" {
		return raw
	}

	return out
}
