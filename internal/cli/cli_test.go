package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/internal/translator"
)

// execute 在进程内运行命令，配置文件指向临时目录
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	toml := filepath.Join(t.TempDir(), "bilingual.toml")

	cmd := NewRootCommand("test", "abc123", "today")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-l", toml}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNoInput(t *testing.T) {
	_, _, err := execute(t, "-a", "echo")
	assert.ErrorIs(t, err, translator.ErrNoInput)
}

func TestSingleQuery(t *testing.T) {
	out, _, err := execute(t, "-a", "echo", "-q", "Hello world")
	require.NoError(t, err)
	assert.Equal(t, "[zh] Hello world\n", out)
}

func TestMultiQuery(t *testing.T) {
	out, _, err := execute(t, "-a", "echo", "-t", "ja", "--debug", "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[ja] Hello\n\nWorld\n\n[ja] World\n", out)
}

func TestTranslateFileFlag(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.md")
	writeFile(t, input, "Hello\n")

	_, stderr, err := execute(t, "-a", "echo", "-m", input)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "test-zh.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[zh] Hello\n", string(data))
	assert.Contains(t, stderr, "test-zh.md")
}

func TestTranslateFileToStdout(t *testing.T) {
	input := filepath.Join(t.TempDir(), "test.md")
	writeFile(t, input, "# Title\n")

	out, _, err := execute(t, "-a", "echo", "-m", input, "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n# [zh] Title\n", out)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "test-zh.md"))
}

func TestTranslateDirFlag(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	writeFile(t, filepath.Join(dir, "a.md"), "A\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip\n")

	_, _, err := execute(t, "-a", "echo", "-d", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir+"-zh", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "A\n\n[zh] A\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir+"-zh", "notes.txt"))
}

func TestDryRunNeedsNoCredentials(t *testing.T) {
	input := filepath.Join(t.TempDir(), "test.md")
	writeFile(t, input, "Alpha\n\nBravo\n")

	out, _, err := execute(t, "-a", "baidu", "-m", input, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "6000 bytes")
	assert.Contains(t, out, "Alpha")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "test-zh.md"))
}

func TestDryRunSingleQueryIsOneSegment(t *testing.T) {
	out, _, err := execute(t, "-a", "echo", "-q", "# Title\n\nBody", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "singlequery")
	assert.Contains(t, out, "0-0")
	assert.NotContains(t, out, "1-1")
}

func TestMissingCredentials(t *testing.T) {
	_, _, err := execute(t, "-a", "baidu", "-q", "Hello")
	assert.ErrorIs(t, err, config.ErrMissingID)

	_, _, err = execute(t, "-a", "baidu", "-i", "2021", "-q", "Hello")
	assert.ErrorIs(t, err, config.ErrMissingKey)
}

func TestUnknownAPI(t *testing.T) {
	_, _, err := execute(t, "-a", "googel", "-q", "Hello")
	assert.ErrorIs(t, err, config.ErrUnknownAPI)
}

func TestGlossaryFlag(t *testing.T) {
	glossary := filepath.Join(t.TempDir(), "glossary.toml")
	writeFile(t, glossary, "from = \"en\"\nto = \"zh\"\n\n[translations]\n\"Hello\" = \"你好\"\n")

	out, _, err := execute(t, "-a", "echo", "--glossary", glossary, "-q", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "你好\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.toml")

	out, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, _, err = execute(t, "config", "init", path)
	assert.ErrorIs(t, err, config.ErrConfigExists)

	cmd := NewRootCommand("test", "", "")
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "show", "-l", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "api: tencent")
	assert.Contains(t, stdout.String(), "# "+path)
}

func TestProvidersCommand(t *testing.T) {
	out, _, err := execute(t, "providers")
	require.NoError(t, err)
	for _, name := range config.APIs {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "2000 chars")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bilingual test (commit abc123")
}
