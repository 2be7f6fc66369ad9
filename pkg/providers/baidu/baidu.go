// Package baidu 百度通用文本翻译
package baidu

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

const name = "baidu"

// Config 百度配置
type Config struct {
	providers.BaseConfig
	AppID string `json:"appid"`
	// LimitBytes 单次请求的字节上限
	LimitBytes int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
		LimitBytes: 6000,
	}
	config.APIEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"
	return config
}

// Provider 百度提供商
type Provider struct {
	config     Config
	httpClient *http.Client
	// salt 生成随机数，测试时可替换
	salt func() string
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的百度提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultConfig().APIEndpoint
	}

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
		salt:       func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:10] },
	}
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return name
}

// Limit 百度按 UTF-8 字节计算长度
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Byte(p.config.LimitBytes)
}

// Sign 计算 appid+q+salt+密钥 的 MD5 值
func Sign(appid, q, salt, key string) string {
	sum := md5.Sum([]byte(appid + q + salt + key))
	return hex.EncodeToString(sum[:])
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	salt := p.salt()
	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("from", req.From)
	params.Set("to", req.To)
	params.Set("appid", p.config.AppID)
	params.Set("salt", salt)
	params.Set("sign", Sign(p.config.AppID, req.Text, salt, p.config.APIKey))

	resp, err := p.translate(ctx, params)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(resp.TransResult))
	for i, r := range resp.TransResult {
		texts[i] = r.Dst
	}

	out := &providers.Response{Texts: texts}
	if err := providers.CheckCount(name, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// translate 执行翻译请求
func (p *Provider) translate(ctx context.Context, params url.Values) (*TranslateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.config.APIEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p.config.SetHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError(name, providers.CodeRequest, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, providers.NewError(name, providers.CodeHTTP,
			fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	var translateResp TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, providers.NewError(name, providers.CodeDecode, err.Error())
	}

	// 百度出错时仍返回 200，错误码放在响应体中
	if translateResp.ErrorCode != "" && translateResp.ErrorCode != "52000" {
		return nil, providers.NewError(name, translateResp.ErrorCode, translateResp.ErrorMsg).
			WithHint(Solution(translateResp.ErrorCode))
	}

	return &translateResp, nil
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`

	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Solution 错误码含义，参考 https://fanyi-api.baidu.com/doc/21
func Solution(code string) string {
	switch code {
	case "52000":
		return "成功。"
	case "52001":
		return "请求超时。解决方法：请重试。"
	case "52002":
		return "系统错误。解决方法：请重试。"
	case "52003":
		return "未授权用户。解决方法：请检查appid是否正确或者服务是否开通。"
	case "54000":
		return "必填参数为空。解决方法：请检查是否少传参数。"
	case "54001":
		return "签名错误。解决方法：请检查您的签名生成方法。"
	case "54003":
		return "访问频率受限。解决方法：请降低您的调用频率，或进行身份认证后切换为高级版/尊享版。"
	case "54004":
		return "账户余额不足。解决方法：请前往管理控制台为账户充值。"
	case "54005":
		return "长 query 请求频繁。解决方法：请降低长 query 的发送频率，3s后再试。"
	case "58000":
		return "客户端 IP 非法。解决方法：检查个人资料里填写的 IP 地址是否正确，可前往开发者信息-基本信息修改。"
	case "58001":
		return "译文语言方向不支持。解决方法：检查译文语言是否在语言列表里。"
	case "58002":
		return "服务当前已关闭。解决方法：请前往管理控制台开启服务。"
	case "90107":
		return "认证未通过或未生效。解决方法：请前往我的认证查看认证进度。"
	default:
		return "未知错误。"
	}
}
