package cfgr

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgtree"
)

// decodeTree 将解析后的配置树物化为 schema 结构体。
//
// 类型矫正在这一层完成（字符串→Duration 等）；strict 模式下
// schema 未声明的字段会报错。
func decodeTree(t *cfgtree.Tree, out any, strict bool) error {
	conf := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Metadata:         nil,
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
		ErrorUnused:      strict,
	}
	decoder, err := mapstructure.NewDecoder(conf)
	if err != nil {
		return err
	}

	return decoder.Decode(t.ToMap())
}

// ExampleYAML 根据默认配置生成带注释的 YAML 示例。
//
// desc tag 作为注释输出，首行为使用提示。
func ExampleYAML(defaultConfig any) ([]byte, error) {
	tree, err := cfgtree.FromStruct(defaultConfig)
	if err != nil {
		return nil, err
	}

	body, err := tree.ToYAML()
	if err != nil {
		return nil, err
	}

	header := "# 配置示例文件, 复制此文件为 config.yaml 并根据需要修改\n"

	return []byte(header + body), nil
}

// MarshalJSON 将默认配置渲染为 2 空格缩进的 JSON。
func MarshalJSON(defaultConfig any) []byte {
	out, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return nil
	}

	return out
}
