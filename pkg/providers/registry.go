package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
)

// Info 提供商描述
type Info struct {
	Name        string
	Description string
	Limit       bilingual.Limit
	// NeedsID 是否需要 appid / secret id
	NeedsID  bool
	NeedsKey bool
}

// Registry 提供商注册表
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Info
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Info),
	}
}

// Register 注册提供商
func (r *Registry) Register(info Info) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[info.Name]; exists {
		return fmt.Errorf("provider %s already registered", info.Name)
	}

	r.providers[info.Name] = info
	return nil
}

// Get 获取提供商
func (r *Registry) Get(name string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.providers[name]
	if !exists {
		if guess := r.suggest(name); guess != "" {
			return Info{}, fmt.Errorf("provider %s not found, did you mean %s?", name, guess)
		}
		return Info{}, fmt.Errorf("provider %s not found", name)
	}

	return info, nil
}

// List 按名称排序列出所有提供商
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.providers))
	for _, info := range r.providers {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos
}

// Names 排序后的提供商名称
func (r *Registry) Names() []string {
	infos := r.List()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Suggest 为拼写错误的名称给出最接近的提供商
func (r *Registry) Suggest(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suggest(name)
}

func (r *Registry) suggest(name string) string {
	if name == "" {
		return ""
	}
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		// 输入比名称更长时反过来匹配，例如 "tencentt"
		for _, n := range names {
			ranks = append(ranks, fuzzy.RankFindFold(n, []string{name})...)
		}
		for i := range ranks {
			ranks[i].Target = ranks[i].Source
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
