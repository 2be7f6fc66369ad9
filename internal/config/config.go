package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/tencent"
)

// DefaultPath 默认配置文件
const DefaultPath = "bilingual.toml"

// EnvPrefix 环境变量前缀，例如 BILINGUAL_BAIDU_KEY
const EnvPrefix = "BILINGUAL"

// APIs 支持的翻译接口
var APIs = []string{"baidu", "tencent", "niutrans", "openai", "ollama", "deepl", "echo"}

var (
	ErrUnknownAPI = errors.New("未知的翻译接口")
	ErrMissingID  = errors.New("id 不应该为空")
	ErrMissingKey = errors.New("key 不应该为空")
)

// RenderConfig 输出 markdown 的渲染选项
type RenderConfig struct {
	CodeBlockBackticks int  `mapstructure:"code_block_backticks" toml:"code_block_backticks" yaml:"code_block_backticks"`
	SmartPunctuation   bool `mapstructure:"smart_punctuation" toml:"smart_punctuation" yaml:"smart_punctuation"`
	// Format 翻译后用 markdownfmt 整理格式
	Format bool `mapstructure:"format" toml:"format" yaml:"format"`
}

// CacheConfig 批次缓存
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" toml:"path" yaml:"path"`
}

// BaiduConfig 百度翻译
type BaiduConfig struct {
	AppID string `mapstructure:"appid" toml:"appid" yaml:"appid"`
	Key   string `mapstructure:"key" toml:"key" yaml:"key"`
	// Limit 单次请求的字节数
	Limit int `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// TencentConfig 腾讯云机器翻译
type TencentConfig struct {
	ID        string `mapstructure:"id" toml:"id" yaml:"id"`
	Key       string `mapstructure:"key" toml:"key" yaml:"key"`
	Region    string `mapstructure:"region" toml:"region" yaml:"region"`
	ProjectID int    `mapstructure:"projectid" toml:"projectid" yaml:"projectid"`
	// Limit 单次请求的字符数
	Limit int `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// NiuTransConfig 小牛翻译
type NiuTransConfig struct {
	Key   string `mapstructure:"key" toml:"key" yaml:"key"`
	Limit int    `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// OpenAIConfig OpenAI 及兼容接口
type OpenAIConfig struct {
	Key         string  `mapstructure:"key" toml:"key" yaml:"key"`
	BaseURL     string  `mapstructure:"base_url" toml:"base_url" yaml:"base_url"`
	Model       string  `mapstructure:"model" toml:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" toml:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" toml:"max_tokens" yaml:"max_tokens"`
	Limit       int     `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// OllamaConfig 本地模型
type OllamaConfig struct {
	BaseURL     string  `mapstructure:"base_url" toml:"base_url" yaml:"base_url"`
	Model       string  `mapstructure:"model" toml:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" toml:"temperature" yaml:"temperature"`
	Limit       int     `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// DeepLConfig DeepL
type DeepLConfig struct {
	Key   string `mapstructure:"key" toml:"key" yaml:"key"`
	Free  bool   `mapstructure:"free" toml:"free" yaml:"free"`
	Limit int    `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// EchoConfig 离线回显
type EchoConfig struct {
	Limit int `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// Config 保存翻译器的所有配置
type Config struct {
	API  string `mapstructure:"api" toml:"api" yaml:"api"`
	From string `mapstructure:"from" toml:"from" yaml:"from"`
	To   string `mapstructure:"to" toml:"to" yaml:"to"`
	// Sanitize 用 bluemonday 清理译文中的 HTML
	Sanitize bool          `mapstructure:"sanitize" toml:"sanitize" yaml:"sanitize"`
	Timeout  time.Duration `mapstructure:"timeout" toml:"timeout" yaml:"timeout"`
	Proxy    string        `mapstructure:"proxy" toml:"proxy" yaml:"proxy"`
	// Glossary 预设译文表，命中的段落不发送给翻译接口
	Glossary string `mapstructure:"glossary" toml:"glossary" yaml:"glossary"`
	Debug    bool   `mapstructure:"debug" toml:"debug" yaml:"debug"`

	Render   RenderConfig   `mapstructure:"render" toml:"render" yaml:"render"`
	Cache    CacheConfig    `mapstructure:"cache" toml:"cache" yaml:"cache"`
	Baidu    BaiduConfig    `mapstructure:"baidu" toml:"baidu" yaml:"baidu"`
	Tencent  TencentConfig  `mapstructure:"tencent" toml:"tencent" yaml:"tencent"`
	NiuTrans NiuTransConfig `mapstructure:"niutrans" toml:"niutrans" yaml:"niutrans"`
	OpenAI   OpenAIConfig   `mapstructure:"openai" toml:"openai" yaml:"openai"`
	Ollama   OllamaConfig   `mapstructure:"ollama" toml:"ollama" yaml:"ollama"`
	DeepL    DeepLConfig    `mapstructure:"deepl" toml:"deepl" yaml:"deepl"`
	Echo     EchoConfig     `mapstructure:"echo" toml:"echo" yaml:"echo"`

	// path 实际读取的配置文件，未找到时为空
	path string
}

// Path 实际读取的配置文件
func (c *Config) Path() string {
	return c.path
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic("默认配置无法解析: " + err.Error())
	}
	return &config
}

// LoadConfig 从文件加载配置，文件不存在时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = DefaultPath
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	read := false
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
		read = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if read {
		config.path = v.ConfigFileUsed()
	}

	return &config, nil
}

// setDefaults 设置默认值，同时让所有键都能被环境变量覆盖
func setDefaults(v *viper.Viper) {
	v.SetDefault("api", "tencent")
	v.SetDefault("from", "en")
	v.SetDefault("to", "zh")
	v.SetDefault("sanitize", false)
	v.SetDefault("timeout", "30s")
	v.SetDefault("proxy", "")
	v.SetDefault("glossary", "")
	v.SetDefault("debug", false)

	v.SetDefault("render.code_block_backticks", 3)
	v.SetDefault("render.smart_punctuation", false)
	v.SetDefault("render.format", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", ".bilingual-cache.db")

	v.SetDefault("baidu.appid", "")
	v.SetDefault("baidu.key", "")
	v.SetDefault("baidu.limit", 6000)

	v.SetDefault("tencent.id", "")
	v.SetDefault("tencent.key", "")
	v.SetDefault("tencent.region", tencent.DefaultRegion)
	v.SetDefault("tencent.projectid", 0)
	v.SetDefault("tencent.limit", 2000)

	v.SetDefault("niutrans.key", "")
	v.SetDefault("niutrans.limit", 5000)

	v.SetDefault("openai.key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.max_tokens", 4096)
	v.SetDefault("openai.limit", 4000)

	v.SetDefault("ollama.base_url", "http://localhost:11434/v1")
	v.SetDefault("ollama.model", "qwen2.5")
	v.SetDefault("ollama.temperature", 0.3)
	v.SetDefault("ollama.limit", 2000)

	v.SetDefault("deepl.key", "")
	v.SetDefault("deepl.free", false)
	v.SetDefault("deepl.limit", 30000)

	v.SetDefault("echo.limit", 0)
}

// SetCredentials 用命令行的 id/key 覆盖当前接口的账户信息
func (c *Config) SetCredentials(id, key string) {
	switch c.API {
	case "baidu":
		if id != "" {
			c.Baidu.AppID = id
		}
		if key != "" {
			c.Baidu.Key = key
		}
	case "tencent":
		if id != "" {
			c.Tencent.ID = id
		}
		if key != "" {
			c.Tencent.Key = key
		}
	case "niutrans":
		if key != "" {
			c.NiuTrans.Key = key
		}
	case "openai":
		if key != "" {
			c.OpenAI.Key = key
		}
	case "deepl":
		if key != "" {
			c.DeepL.Key = key
		}
	}
}

// Validate 校验当前接口所需的配置
func (c *Config) Validate() error {
	if !slices.Contains(APIs, c.API) {
		return fmt.Errorf("%w: %q", ErrUnknownAPI, c.API)
	}
	if c.To == "" {
		return errors.New("目标语言不应该为空")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout 必须为正数: %s", c.Timeout)
	}
	if c.Proxy != "" {
		if _, err := providers.ParseProxy(c.Proxy); err != nil {
			return err
		}
	}

	switch c.API {
	case "baidu":
		return requireIDKey("baidu", c.Baidu.AppID, c.Baidu.Key)
	case "tencent":
		if err := requireIDKey("tencent", c.Tencent.ID, c.Tencent.Key); err != nil {
			return err
		}
		if !tencent.ValidRegion(c.Tencent.Region) {
			return fmt.Errorf("tencent: 不支持的地域 %q，可选 %s", c.Tencent.Region, strings.Join(tencent.Regions, ", "))
		}
	case "niutrans":
		return requireKey("niutrans", c.NiuTrans.Key)
	case "openai":
		return requireKey("openai", c.OpenAI.Key)
	case "deepl":
		return requireKey("deepl", c.DeepL.Key)
	}
	return nil
}

func requireIDKey(api, id, key string) error {
	if id == "" {
		return fmt.Errorf("%s: %w", api, ErrMissingID)
	}
	return requireKey(api, key)
}

func requireKey(api, key string) error {
	if key == "" {
		return fmt.Errorf("%s: %w", api, ErrMissingKey)
	}
	return nil
}
