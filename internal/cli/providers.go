package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/pkg/providers/factory"
)

// newProvidersCommand 列出支持的翻译接口
func newProvidersCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "列出支持的翻译接口及其配额",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ""
			if cfg, err := config.LoadConfig(flags.toml); err == nil {
				current = cfg.API
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"", "名称", "说明", "配额", "需要 id", "需要 key"})
			for _, info := range factory.New().Registry().List() {
				mark := ""
				if info.Name == current {
					mark = "*"
				}
				tw.AppendRow(table.Row{mark, info.Name, info.Description, info.Limit, yesNo(info.NeedsID), yesNo(info.NeedsKey)})
			}
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return ""
}
