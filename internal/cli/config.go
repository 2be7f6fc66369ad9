package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjp-CN/bilingual/internal/config"
)

// newConfigCommand 创建 config 命令
func newConfigCommand(flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "生成或查看配置文件",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "写出带注释的默认配置文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.toml
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写入 %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "覆盖已有的配置文件")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "以 YAML 显示生效的配置，密钥已隐藏",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.toml)
			if err != nil {
				return err
			}
			out, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			if cfg.Path() != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.Path())
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
