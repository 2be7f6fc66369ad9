package translator

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var newlineFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// normalize 整理提供商返回的译文：统一为 NFC，换行折叠为空格，可选清理 HTML
func (t *Translator) normalize(s string) string {
	s = norm.NFC.String(s)
	s = foldNewlines(s)
	if t.policy != nil {
		s = t.policy.Sanitize(s)
	}
	return strings.TrimSpace(s)
}

// foldNewlines 译文回插为单个文本事件，不能含换行
func foldNewlines(s string) string {
	return newlineFolder.Replace(s)
}
