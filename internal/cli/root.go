package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zjp-CN/bilingual/internal/cache"
	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/internal/logger"
	"github.com/zjp-CN/bilingual/internal/translator"
	"github.com/zjp-CN/bilingual/pkg/markdown"
	"github.com/zjp-CN/bilingual/pkg/providers/factory"
)

// rootFlags 命令行标志
type rootFlags struct {
	api         string
	id          string
	key         string
	from        string
	to          string
	singleQuery string
	files       []string
	dirs        []string
	toml        string
	glossary    string
	debug       bool
	dryRun      bool
	stdout      bool
	useCache    bool
	format      bool
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "bilingual [multi-query text...] [flags]",
		Short: "把 markdown 文档翻译成双语对照",
		Long: `bilingual 只把 markdown 中可阅读的文字发送给翻译接口，
并把译文插在每个段落、标题、表格单元格的原文之后，代码块、链接与格式保持不变。

支持的翻译接口:
  - baidu:    百度翻译开放平台
  - tencent:  腾讯云机器翻译
  - niutrans: 小牛翻译
  - openai:   OpenAI 及兼容接口
  - ollama:   本地 Ollama 模型
  - deepl:    DeepL
  - echo:     离线回显，用于预览

示例:
  bilingual -a baidu -m README.md          # 生成 README-zh.md
  bilingual -d docs/ -t ja                 # 生成 docs-ja/ 目录
  bilingual "Hello world" "# Title"        # 多段查询，结果输出到终端
  bilingual -q "Hello world"               # 单段查询，只输出译文
  bilingual -m README.md --dry-run         # 只显示分批预览`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(newConfigCommand(flags))
	rootCmd.AddCommand(newProvidersCommand(flags))
	rootCmd.AddCommand(newVersionCommand(version, commit, buildDate))

	return rootCmd
}

func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.api, "api", "a", "", "翻译接口 (baidu, tencent, niutrans, openai, ollama, deepl, echo)")
	f.StringVarP(&flags.id, "id", "i", "", "翻译接口的 appid / secret id，覆盖配置文件")
	f.StringVarP(&flags.key, "key", "k", "", "翻译接口的密钥，覆盖配置文件")
	f.StringVarP(&flags.from, "from", "f", "en", "源语言")
	f.StringVarP(&flags.to, "to", "t", "zh", "目标语言")
	f.StringVarP(&flags.singleQuery, "singlequery", "q", "", "单段查询，作为纯文本翻译并只输出译文")
	f.StringArrayVarP(&flags.files, "md", "m", nil, "要翻译的 markdown 文件，可重复")
	f.StringArrayVarP(&flags.dirs, "dir", "d", nil, "翻译目录下所有 .md 文件（不含子目录），可重复")
	f.StringVar(&flags.glossary, "glossary", "", "预设译文表 (toml)")
	f.BoolVar(&flags.debug, "debug", false, "输出调试日志")
	f.BoolVar(&flags.dryRun, "dry-run", false, "只解析与分批，不请求翻译接口")
	f.BoolVar(&flags.stdout, "stdout", false, "文件译文输出到终端而不是写文件")
	f.BoolVar(&flags.useCache, "cache", false, "启用批次缓存")
	f.BoolVar(&flags.format, "format", false, "用 markdownfmt 整理输出")

	cmd.PersistentFlags().StringVarP(&flags.toml, "toml", "l", config.DefaultPath, "配置文件路径")
}

// loadConfig 读取配置，并用显式给出的命令行标志覆盖
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.toml)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("api") {
		cfg.API = flags.api
	}
	if changed("from") {
		cfg.From = flags.from
	}
	if changed("to") {
		cfg.To = flags.to
	}
	if changed("glossary") {
		cfg.Glossary = flags.glossary
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	if changed("cache") {
		cfg.Cache.Enabled = flags.useCache
	}
	if changed("format") {
		cfg.Render.Format = flags.format
	}
	cfg.SetCredentials(flags.id, flags.key)
	return cfg, nil
}

func run(cmd *cobra.Command, flags *rootFlags, args []string) error {
	if flags.singleQuery == "" && len(flags.files) == 0 && len(flags.dirs) == 0 && len(args) == 0 {
		_ = cmd.Help()
		return translator.ErrNoInput
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug)
	defer func() {
		_ = log.Sync()
	}()
	if cfg.Path() != "" {
		log.Debug("已读取配置文件", zap.String("path", cfg.Path()))
	}

	// 预览不访问网络，不需要账户信息
	if !flags.dryRun {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	provider, err := factory.New().CreateProvider(cfg)
	if err != nil {
		return err
	}

	opts := translator.Options{
		From:     cfg.From,
		To:       cfg.To,
		Sanitize: cfg.Sanitize,
		Progress: !cfg.Debug,
		Output:   cmd.ErrOrStderr(),
	}
	if cfg.Glossary != "" {
		if opts.Glossary, err = config.LoadGlossary(cfg.Glossary); err != nil {
			return err
		}
	}
	if cfg.Cache.Enabled && !flags.dryRun {
		c, err := cache.OpenSQLite(cfg.Cache.Path, log)
		if err != nil {
			return err
		}
		defer c.Close()
		opts.Cache = c
	}

	md := markdown.New(markdown.Options{
		SmartPunctuation:   cfg.Render.SmartPunctuation,
		CodeBlockBackticks: cfg.Render.CodeBlockBackticks,
		Format:             cfg.Render.Format,
	})
	tr := translator.New(md, provider, opts, log)

	log.Debug("开始翻译",
		zap.String("api", cfg.API),
		zap.String("from", cfg.From),
		zap.String("to", cfg.To),
		zap.Stringer("limit", provider.Limit()))

	r := &runner{cmd: cmd, flags: flags, tr: tr, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	if err := r.all(args); err != nil {
		return err
	}

	if st, ok := tr.Stats(); ok && !flags.dryRun && st.TotalRequests > 0 && !flags.stdout {
		translator.PrintStats(r.errOut, st)
	}
	return nil
}

// runner 依次处理单段查询、多段查询、文件与目录
type runner struct {
	cmd    *cobra.Command
	flags  *rootFlags
	tr     *translator.Translator
	out    io.Writer
	errOut io.Writer
}

func (r *runner) all(args []string) error {
	ctx := r.cmd.Context()

	if r.flags.singleQuery != "" {
		if r.flags.dryRun {
			translator.RenderPlan(r.out, "singlequery", r.tr.Provider().Limit(), r.tr.PlanText(r.flags.singleQuery))
		} else {
			out, err := r.tr.TranslateText(ctx, r.flags.singleQuery)
			if err != nil {
				return err
			}
			fmt.Fprintln(r.out, out)
		}
	}

	if len(args) > 0 {
		if r.flags.dryRun {
			r.plan("query", []byte(translator.JoinQuery(args)))
		} else {
			out, err := r.tr.TranslateQuery(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprint(r.out, out)
		}
	}

	for _, file := range r.flags.files {
		if err := r.file(file); err != nil {
			return err
		}
	}

	for _, dir := range r.flags.dirs {
		if err := r.dir(dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) file(path string) error {
	ctx := r.cmd.Context()

	if r.flags.dryRun || r.flags.stdout {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("读取 %s 失败: %w", path, err)
		}
		if r.flags.dryRun {
			r.plan(path, source)
			return nil
		}
		out, _, err := r.tr.TranslateMarkdown(ctx, path, source)
		if err != nil {
			return err
		}
		_, err = r.out.Write(out)
		return err
	}

	result, err := r.tr.TranslateFile(ctx, path, "")
	if err != nil {
		return err
	}
	translator.PrintSummary(r.errOut, result)
	return nil
}

func (r *runner) dir(dir string) error {
	if r.flags.dryRun || r.flags.stdout {
		files, err := translator.MarkdownFiles(dir)
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := r.file(file); err != nil {
				return err
			}
		}
		return nil
	}

	results, err := r.tr.TranslateDir(r.cmd.Context(), dir)
	for _, result := range results {
		translator.PrintSummary(r.errOut, result)
	}
	return err
}

func (r *runner) plan(name string, source []byte) {
	translator.RenderPlan(r.out, name, r.tr.Provider().Limit(), r.tr.Plan(source))
}
