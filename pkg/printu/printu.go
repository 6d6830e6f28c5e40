// Package printu 提供带标签的缩进打印工具。
//
// 配置解析流程用它输出选项列表、原始输入与解析结果：
// 标签单独一行，内容整体缩进两格，配置树渲染为 YAML。
package printu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgtree"
)

const indent = "  "

// Printer 带标签的缩进打印器。
type Printer struct {
	out io.Writer
}

// New 创建打印器，out 为 nil 时输出到标准输出。
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}

	return &Printer{out: out}
}

// Print 输出标签与内容。
//
// *cfgtree.Tree 渲染为 YAML，其余值按 %v 格式化；
// 内容逐行缩进，块尾追加空行作为分隔。
func (p *Printer) Print(label string, value any) {
	fmt.Fprintln(p.out, label)
	p.writeIndented(render(value))
}

// Lines 输出标签与多行文本，逐行缩进。
func (p *Printer) Lines(label string, lines ...string) {
	fmt.Fprintln(p.out, label)
	p.writeIndented(strings.Join(lines, "\n"))
}

func (p *Printer) writeIndented(content string) {
	content = strings.TrimRight(content, "\n")
	if content != "" {
		for line := range strings.Lines(content + "\n") {
			fmt.Fprint(p.out, indent, line)
		}
	}
	fmt.Fprintln(p.out)
}

func render(value any) string {
	switch typed := value.(type) {
	case *cfgtree.Tree:
		text, err := typed.ToYAML()
		if err != nil {
			return fmt.Sprintf("<render error: %v>", err)
		}

		return text
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}
