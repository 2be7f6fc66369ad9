package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Glossary 预设译文表
//
//	from = "en"
//	to   = "zh"
//	[translations]
//	"Getting Started" = "入门"
type Glossary struct {
	From         string            `toml:"from"`
	To           string            `toml:"to"`
	Translations map[string]string `toml:"translations"`
}

// LoadGlossary 读取预设译文表
func LoadGlossary(path string) (*Glossary, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("预设译文文件不存在: %s", path)
	}

	glossary := &Glossary{}
	if _, err := toml.DecodeFile(path, glossary); err != nil {
		return nil, fmt.Errorf("解析预设译文失败: %w", err)
	}
	if glossary.From == "" || glossary.To == "" {
		return nil, fmt.Errorf("预设译文文件缺少 from 或 to: %s", path)
	}
	return glossary, nil
}

// Lookup 查找段落的预设译文，只有语言方向一致时才生效
func (g *Glossary) Lookup(from, to, segment string) (string, bool) {
	if g == nil || !strings.EqualFold(g.From, from) || !strings.EqualFold(g.To, to) {
		return "", false
	}
	tr, ok := g.Translations[strings.TrimSpace(segment)]
	return tr, ok
}
