package markdown

import (
	"fmt"

	"github.com/Kunde21/markdownfmt/v3"
	mdfmt "github.com/Kunde21/markdownfmt/v3/markdown"
)

// Format 使用 markdownfmt 统一输出格式；未开启 Options.Format 时原样返回。
// 头部元数据块不交给 markdownfmt 处理。
func (m *Markdown) Format(filename string, content []byte) ([]byte, error) {
	if !m.opts.Format {
		return content, nil
	}

	head := frontMatter(content)
	body := content[len(head):]

	formatted, err := markdownfmt.Process(filename, body,
		mdfmt.WithCodeFormatters(mdfmt.GoCodeFormatter),
	)
	if err != nil {
		return nil, fmt.Errorf("格式化 markdown 失败: %w", err)
	}
	if head == "" {
		return formatted, nil
	}
	return append([]byte(head+"\n\n"), formatted...), nil
}
