package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zjp-CN/bilingual/pkg/providers"
)

const templateHeader = `# bilingual 配置文件
#
# api 可选 baidu | tencent | niutrans | openai | ollama | deepl | echo
# 所有键都可以用环境变量覆盖，例如 BILINGUAL_TENCENT_KEY、BILINGUAL_RENDER_FORMAT
# limit 为单次请求的上限：baidu/deepl 按字节，tencent/niutrans/openai/ollama 按字符，0 表示不分批

`

// ErrConfigExists 配置文件已存在
var ErrConfigExists = errors.New("配置文件已存在")

// WriteTemplate 写出带注释的默认配置
func WriteTemplate(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	cfg := NewDefaultConfig()
	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	if err := toml.NewEncoder(&buf).Encode(flatten(cfg)); err != nil {
		return fmt.Errorf("编码配置失败: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// flatten 把 timeout 换成可读的字符串，其余字段保持原样
func flatten(cfg *Config) map[string]interface{} {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(cfg)
	var m map[string]interface{}
	_, _ = toml.Decode(buf.String(), &m)
	m["timeout"] = cfg.Timeout.String()
	return m
}

// Masked 返回隐藏了密钥的副本
func (c *Config) Masked() *Config {
	out := *c
	out.Baidu.Key = providers.MaskSecret(c.Baidu.Key)
	out.Tencent.Key = providers.MaskSecret(c.Tencent.Key)
	out.NiuTrans.Key = providers.MaskSecret(c.NiuTrans.Key)
	out.OpenAI.Key = providers.MaskSecret(c.OpenAI.Key)
	out.DeepL.Key = providers.MaskSecret(c.DeepL.Key)
	return &out
}

// ToYAML 以 YAML 输出生效的配置，密钥已隐藏
func (c *Config) ToYAML() ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(c.Masked()); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "timeout" {
			node.Content[i+1].Kind = yaml.ScalarNode
			node.Content[i+1].Tag = "!!str"
			node.Content[i+1].Value = c.Timeout.String()
		}
	}
	return yaml.Marshal(&node)
}
