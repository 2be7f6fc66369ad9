package translator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// OutputPath 文件的译文路径：/root/test.md 译为 zh 时为 /root/test-zh.md
func OutputPath(path, to string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + to + ext
}

// OutputDir 目录的译文目录：/root/test/ 译为 zh 时为 /root/test-zh
func OutputDir(dir, to string) string {
	return filepath.Clean(dir) + "-" + to
}

// MarkdownFiles 列出目录下的 .md 文件，不进入子目录
func MarkdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s 失败: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// TranslateFile 翻译 input 并写到 output，output 为空时按 OutputPath 命名
func (t *Translator) TranslateFile(ctx context.Context, input, output string) (*Result, error) {
	if output == "" {
		output = OutputPath(input, t.opts.To)
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", input, err)
	}

	out, result, err := t.TranslateMarkdown(ctx, input, source)
	if err != nil {
		return result, err
	}
	result.Output = output

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return result, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return result, fmt.Errorf("写入 %s 失败: %w", output, err)
	}
	return result, nil
}

// TranslateDir 翻译目录下的所有 .md 文件，译文放在 OutputDir 中，文件名不变。
// 遇到第一个失败的文件即停止。
func (t *Translator) TranslateDir(ctx context.Context, dir string) ([]*Result, error) {
	files, err := MarkdownFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		t.logger.Warn("目录中没有 markdown 文件", zap.String("dir", dir))
		return nil, nil
	}

	outDir := OutputDir(dir, t.opts.To)
	results := make([]*Result, 0, len(files))
	for _, file := range files {
		result, err := t.TranslateFile(ctx, file, filepath.Join(outDir, filepath.Base(file)))
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}
