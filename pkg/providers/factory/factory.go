package factory

import (
	"fmt"

	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/baidu"
	"github.com/zjp-CN/bilingual/pkg/providers/deepl"
	"github.com/zjp-CN/bilingual/pkg/providers/echo"
	"github.com/zjp-CN/bilingual/pkg/providers/niutrans"
	"github.com/zjp-CN/bilingual/pkg/providers/ollama"
	"github.com/zjp-CN/bilingual/pkg/providers/openai"
	"github.com/zjp-CN/bilingual/pkg/providers/tencent"
)

// ProviderFactory 提供商工厂
type ProviderFactory struct {
	registry *providers.Registry
}

// New 创建新的提供商工厂，内置提供商已注册
func New() *ProviderFactory {
	registry := providers.NewRegistry()
	for _, info := range builtin() {
		// 名称固定不重复
		_ = registry.Register(info)
	}
	return &ProviderFactory{registry: registry}
}

// Registry 已注册的提供商
func (f *ProviderFactory) Registry() *providers.Registry {
	return f.registry
}

func builtin() []providers.Info {
	return []providers.Info{
		{Name: "baidu", Description: "百度翻译开放平台", Limit: bilingual.Byte(6000), NeedsID: true, NeedsKey: true},
		{Name: "tencent", Description: "腾讯云机器翻译 TextTranslateBatch", Limit: bilingual.Char(2000), NeedsID: true, NeedsKey: true},
		{Name: "niutrans", Description: "小牛翻译", Limit: bilingual.Char(5000), NeedsKey: true},
		{Name: "openai", Description: "OpenAI 及兼容接口", Limit: bilingual.Char(4000), NeedsKey: true},
		{Name: "ollama", Description: "本地 Ollama 模型", Limit: bilingual.Char(2000)},
		{Name: "deepl", Description: "DeepL", Limit: bilingual.Byte(30000), NeedsKey: true},
		{Name: "echo", Description: "离线回显，用于预览与测试", Limit: bilingual.Byte(0)},
	}
}

// CreateProvider 根据配置创建当前接口的提供商
func (f *ProviderFactory) CreateProvider(cfg *config.Config) (providers.Provider, error) {
	if _, err := f.registry.Get(cfg.API); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrUnknownAPI, err)
	}

	base := providers.DefaultConfig()
	if cfg.Timeout > 0 {
		base.Timeout = cfg.Timeout
	}
	if cfg.Proxy != "" {
		if _, err := providers.ParseProxy(cfg.Proxy); err != nil {
			return nil, err
		}
		base.ProxyURL = cfg.Proxy
	}

	switch cfg.API {
	case "baidu":
		return f.createBaiduProvider(base, cfg.Baidu), nil
	case "tencent":
		return f.createTencentProvider(base, cfg.Tencent), nil
	case "niutrans":
		return f.createNiuTransProvider(base, cfg.NiuTrans), nil
	case "openai":
		return f.createOpenAIProvider(base, cfg.OpenAI), nil
	case "ollama":
		return f.createOllamaProvider(base, cfg.Ollama), nil
	case "deepl":
		return f.createDeepLProvider(base, cfg.DeepL), nil
	default:
		return echo.New(echo.Config{LimitBytes: cfg.Echo.Limit}), nil
	}
}

// createBaiduProvider 创建百度提供商
func (f *ProviderFactory) createBaiduProvider(base providers.BaseConfig, c config.BaiduConfig) providers.Provider {
	pc := baidu.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	pc.AppID = c.AppID
	pc.APIKey = c.Key
	if c.Limit > 0 {
		pc.LimitBytes = c.Limit
	}
	return baidu.New(pc)
}

// createTencentProvider 创建腾讯云提供商
func (f *ProviderFactory) createTencentProvider(base providers.BaseConfig, c config.TencentConfig) providers.Provider {
	pc := tencent.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	pc.SecretID = c.ID
	pc.APIKey = c.Key
	pc.ProjectID = c.ProjectID
	if c.Region != "" {
		pc.Region = c.Region
	}
	if c.Limit > 0 {
		pc.LimitChars = c.Limit
	}
	return tencent.New(pc)
}

// createNiuTransProvider 创建小牛翻译提供商
func (f *ProviderFactory) createNiuTransProvider(base providers.BaseConfig, c config.NiuTransConfig) providers.Provider {
	pc := niutrans.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	pc.APIKey = c.Key
	if c.Limit > 0 {
		pc.LimitChars = c.Limit
	}
	return niutrans.New(pc)
}

// createOpenAIProvider 创建 OpenAI 提供商
func (f *ProviderFactory) createOpenAIProvider(base providers.BaseConfig, c config.OpenAIConfig) providers.Provider {
	pc := openai.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	pc.APIKey = c.Key
	pc.APIEndpoint = c.BaseURL
	if c.Model != "" {
		pc.Model = c.Model
	}
	pc.Temperature = float32(c.Temperature)
	if c.MaxTokens > 0 {
		pc.MaxTokens = c.MaxTokens
	}
	if c.Limit > 0 {
		pc.LimitChars = c.Limit
	}
	return openai.New(pc)
}

// createOllamaProvider 创建本地模型提供商
func (f *ProviderFactory) createOllamaProvider(base providers.BaseConfig, c config.OllamaConfig) providers.Provider {
	pc := ollama.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	if c.BaseURL != "" {
		pc.APIEndpoint = c.BaseURL
	}
	if c.Model != "" {
		pc.Model = c.Model
	}
	pc.Temperature = float32(c.Temperature)
	if c.Limit > 0 {
		pc.LimitChars = c.Limit
	}
	return ollama.New(pc)
}

// createDeepLProvider 创建 DeepL 提供商
func (f *ProviderFactory) createDeepLProvider(base providers.BaseConfig, c config.DeepLConfig) providers.Provider {
	pc := deepl.DefaultConfig()
	pc.Timeout, pc.ProxyURL = base.Timeout, base.ProxyURL
	pc.APIKey = c.Key
	pc.Free = c.Free
	if c.Limit > 0 {
		pc.LimitBytes = c.Limit
	}
	return deepl.New(pc)
}
