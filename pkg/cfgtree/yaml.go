package cfgtree

import (
	"bytes"
	"time"

	yamlv3 "go.yaml.in/yaml/v3"
)

// MarshalYAML 实现 yaml.Marshaler。
//
// 按声明顺序输出；缺失占位渲染为 "???"，time.Duration 渲染为 "30s" 形式；
// desc 说明文本作为注释输出（标量为行注释，子树为头部注释）。
func (t *Tree) MarshalYAML() (any, error) {
	return t.yamlNode()
}

// ToYAML 渲染为 2 空格缩进的 YAML 文本。
func (t *Tree) ToYAML() (string, error) {
	if t == nil || t.Len() == 0 {
		return "{}\n", nil
	}

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (t *Tree) yamlNode() (*yamlv3.Node, error) {
	node := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
	for _, key := range t.keys {
		keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: key}
		valNode, err := valueYAMLNode(t.vals[key])
		if err != nil {
			return nil, err
		}

		if desc := t.descs[key]; desc != "" {
			if valNode.Kind == yamlv3.ScalarNode {
				valNode.LineComment = desc
			} else {
				keyNode.HeadComment = desc
			}
		}
		node.Content = append(node.Content, keyNode, valNode)
	}

	return node, nil
}

func valueYAMLNode(value any) (*yamlv3.Node, error) {
	switch typed := value.(type) {
	case *Tree:
		return typed.yamlNode()
	case missingValue:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: MissingLiteral}, nil
	case time.Duration:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: typed.String()}, nil
	case string:
		return &yamlv3.Node{
			Kind:  yamlv3.ScalarNode,
			Tag:   "!!str",
			Style: yamlv3.SingleQuotedStyle,
			Value: typed,
		}, nil
	case []any:
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		for _, elem := range typed {
			elemNode, err := valueYAMLNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, elemNode)
		}

		return node, nil
	default:
		node := &yamlv3.Node{}
		if err := node.Encode(value); err != nil {
			return nil, err
		}

		return node, nil
	}
}
