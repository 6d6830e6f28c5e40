package cfgr_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgr"
	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgtree"
)

type trainConfig struct {
	LR      float64       `json:"lr" desc:"学习率"`
	Epochs  int           `json:"epochs" desc:"训练轮数"`
	Timeout time.Duration `json:"timeout" desc:"单轮超时"`
}

func defaultTrainConfig() trainConfig {
	return trainConfig{LR: 0.1, Epochs: 10, Timeout: 15 * time.Second}
}

// newTrainBinder 构建测试用 binder，run 记录收到的配置。
func newTrainBinder(t *testing.T, out *bytes.Buffer, opts ...cfgr.Option) (*cfgr.Binder[trainConfig], *[]trainConfig) {
	t.Helper()
	var got []trainConfig
	opts = append([]cfgr.Option{cfgr.WithOutput(out)}, opts...)
	b, err := cfgr.New("trainer", defaultTrainConfig(),
		func(ctx context.Context, cfg *trainConfig) error {
			got = append(got, *cfg)

			return nil
		}, opts...)
	require.NoError(t, err)

	return b, &got
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNew_NilRunFunc(t *testing.T) {
	_, err := cfgr.New[trainConfig]("trainer", defaultTrainConfig(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a run function")
}

func TestNew_SchemaNotStruct(t *testing.T) {
	_, err := cfgr.New("bad", 42, func(ctx context.Context, cfg *int) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a struct")
}

func TestExecute_PrecedenceDefaultsFileCli(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)
	path := writeConfigFile(t, "epochs: 20\n")

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q", "-c", path, "epochs=30"})
	require.NoError(t, err)

	assert.True(t, outcome.Ran)
	require.Len(t, *got, 1)
	assert.Equal(t, 0.1, (*got)[0].LR, "未被覆盖的路径保持默认值")
	assert.Equal(t, 30, (*got)[0].Epochs, "CLI 覆盖项优先于配置文件")
}

func TestExecute_FileOverridesDefaults(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)
	path := writeConfigFile(t, "epochs: 20\ntimeout: 45s\n")

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q", "-c", path})
	require.NoError(t, err)

	assert.True(t, outcome.Ran)
	require.Len(t, *got, 1)
	assert.Equal(t, 20, (*got)[0].Epochs)
	assert.Equal(t, 45*time.Second, (*got)[0].Timeout, "字符串在物化阶段矫正为 Duration")
}

func TestExecute_DefaultPrintsParsedAndRuns(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	outcome, err := b.Execute(t.Context(), []string{"trainer"})
	require.NoError(t, err)

	assert.True(t, outcome.Ran)
	assert.Len(t, *got, 1)
	assert.Contains(t, out.String(), "PARSE/ALL CFG:")
}

func TestExecute_QuietRunsWithoutPrint(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q"})
	require.NoError(t, err)

	assert.True(t, outcome.Ran, "quiet 单独出现时仍运行入口函数")
	assert.Len(t, *got, 1)
	assert.Empty(t, out.String())
}

func TestExecute_OptionsIsDeferredNoOp(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	outcome, err := b.Execute(t.Context(), []string{"trainer", "--options"})
	require.NoError(t, err)

	assert.False(t, outcome.Ran)
	assert.Nil(t, outcome.Config, "schema 合并前提前返回，无解析结果")
	assert.Empty(t, *got, "入口函数未被调用")
	assert.Contains(t, out.String(), "OPTS/CLI FLAG:")
	assert.Contains(t, out.String(), "lr = 0.1")
	assert.Contains(t, out.String(), "epochs = 10")
	assert.NotContains(t, out.String(), "PARSE/ALL CFG:")
}

func TestExecute_OptionsViewIgnoresInputs(t *testing.T) {
	var out bytes.Buffer
	b, _ := newTrainBinder(t, &out)
	path := writeConfigFile(t, "epochs: 20\n")

	_, err := b.Execute(t.Context(), []string{"trainer", "-o", "-c", path, "epochs=30"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "epochs = 10",
		"选项视图始终基于纯默认树，不受文件与 CLI 输入影响")
}

func TestExecute_ParsedQuietPrintsButDoesNotRun(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	outcome, err := b.Execute(t.Context(), []string{"trainer", "--parsed", "--quiet"})
	require.NoError(t, err)

	assert.False(t, outcome.Ran, "打印开关优先于运行")
	assert.Empty(t, *got)
	require.NotNil(t, outcome.Config)
	assert.Equal(t, 10, outcome.Config.Epochs)
	assert.Contains(t, out.String(), "PARSE/ALL CFG:", "parsed 的打印优先于 quiet 的抑制")
}

func TestExecute_InputsPrintsRawTrees(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)
	path := writeConfigFile(t, "epochs: 20\n")

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-i", "-c", path, "lr=0.5"})
	require.NoError(t, err)

	assert.False(t, outcome.Ran)
	assert.Empty(t, *got)
	assert.Contains(t, out.String(), "INPUT/CLI ARGS:")
	assert.Contains(t, out.String(), "lr: 0.5")
	assert.Contains(t, out.String(), "INPUT/CFG FILE:")
	assert.Contains(t, out.String(), "epochs: 20")
	assert.NotContains(t, out.String(), "PARSE/ALL CFG:")
}

func TestExecute_MalformedOverrideToken(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	_, err := b.Execute(t.Context(), []string{"trainer", "epochs30"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed override")
	assert.Empty(t, *got)
}

func TestExecute_ConfigFileNotFound(t *testing.T) {
	var out bytes.Buffer
	b, _ := newTrainBinder(t, &out)

	_, err := b.Execute(t.Context(), []string{"trainer", "-c", "/nonexistent/config.yaml"})
	require.Error(t, err)
}

func TestExecute_ConfigFileNotMapping(t *testing.T) {
	var out bytes.Buffer
	b, _ := newTrainBinder(t, &out)
	path := writeConfigFile(t, "- just\n- a\n- list\n")

	_, err := b.Execute(t.Context(), []string{"trainer", "-c", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config root must be a mapping")
}

func TestExecute_StrictRejectsUndeclaredKey(t *testing.T) {
	var out bytes.Buffer
	b, _ := newTrainBinder(t, &out, cfgr.WithStrict())

	_, err := b.Execute(t.Context(), []string{"trainer", "-q", "extra=1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared")
}

func TestExecute_PermissiveAllowsUndeclaredKey(t *testing.T) {
	var out bytes.Buffer
	b, got := newTrainBinder(t, &out)

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q", "extra=1"})
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Len(t, *got, 1)
}

func TestExecute_EnvLayerBetweenFileAndCli(t *testing.T) {
	t.Setenv("TRAIN_EPOCHS", "25")

	var out bytes.Buffer
	b, got := newTrainBinder(t, &out, cfgr.WithEnvPrefix("TRAIN_"))
	path := writeConfigFile(t, "epochs: 20\n")

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q", "-c", path})
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Equal(t, 25, (*got)[0].Epochs, "环境变量覆盖配置文件")

	outcome, err = b.Execute(t.Context(), []string{"trainer", "-q", "-c", path, "epochs=30"})
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Equal(t, 30, (*got)[1].Epochs, "CLI 覆盖项优先于环境变量")
}

func TestExecute_SearchPathsUsedWithoutExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trainer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epochs: 42\n"), 0o600))

	var out bytes.Buffer
	b, got := newTrainBinder(t, &out,
		cfgr.WithConfigPaths(filepath.Join(dir, "absent.yaml"), path))

	outcome, err := b.Execute(t.Context(), []string{"trainer", "-q"})
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Equal(t, 42, (*got)[0].Epochs, "按顺序命中首个存在的文件")
}

func TestExecute_RequiredFieldMustBeSupplied(t *testing.T) {
	type authConfig struct {
		Name  string `json:"name"`
		Token string `json:"token" required:"true"`
	}

	var out bytes.Buffer
	b, err := cfgr.New("auth", authConfig{Name: "demo"},
		func(ctx context.Context, cfg *authConfig) error { return nil },
		cfgr.WithOutput(&out))
	require.NoError(t, err)

	_, err = b.Execute(t.Context(), []string{"auth", "-q"})
	require.Error(t, err)

	var verr *cfgtree.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"token"}, verr.Paths())

	outcome, err := b.Execute(t.Context(), []string{"auth", "-q", "token=secret"})
	require.NoError(t, err)
	assert.True(t, outcome.Ran)
	assert.Equal(t, "secret", outcome.Config.Token)
}

func TestExecute_InterpolatedDefault(t *testing.T) {
	type clientConfig struct {
		URL string `json:"url"`
	}

	t.Setenv("API_BASE_URL", "http://api.example.com")

	var out bytes.Buffer
	b, err := cfgr.New("client", clientConfig{URL: "${API_BASE_URL:-http://localhost}"},
		func(ctx context.Context, cfg *clientConfig) error { return nil },
		cfgr.WithOutput(&out))
	require.NoError(t, err)

	outcome, err := b.Execute(t.Context(), []string{"client", "-q"})
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", outcome.Config.URL)
}

func TestExecute_OptionsRendersEmptySection(t *testing.T) {
	type toolConfig struct {
		Name  string   `json:"name"`
		Extra struct{} `json:"extra"`
	}

	var out bytes.Buffer
	b, err := cfgr.New("tool", toolConfig{Name: "demo"},
		func(ctx context.Context, cfg *toolConfig) error { return nil },
		cfgr.WithOutput(&out))
	require.NoError(t, err)

	_, err = b.Execute(t.Context(), []string{"tool", "-o"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "extra = {}", "空子树叶子按 {} 渲染")
}

func TestCommand_CarriesFixedFlagSurface(t *testing.T) {
	var out bytes.Buffer
	b, _ := newTrainBinder(t, &out)
	cmd := b.Command()

	names := make(map[string]bool)
	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			names[name] = true
		}
	}
	for _, want := range []string{"config", "c", "options", "o", "inputs", "i", "parsed", "p", "debug", "d", "quiet", "q"} {
		assert.True(t, names[want], "缺少 flag %q", want)
	}
}

func TestExampleYAML(t *testing.T) {
	content, err := cfgr.ExampleYAML(defaultTrainConfig())
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "# 配置示例文件")
	assert.Contains(t, text, "lr: 0.1")
	assert.Contains(t, text, "学习率")
	assert.Contains(t, text, "timeout: 15s")
}

func TestMarshalJSON(t *testing.T) {
	out := cfgr.MarshalJSON(struct {
		Name string `json:"name"`
	}{Name: "demo"})
	assert.JSONEq(t, `{"name": "demo"}`, string(out))
}

func TestDefaultPaths(t *testing.T) {
	base := cfgr.DefaultPaths()
	assert.Len(t, base, 2)

	withApp := cfgr.DefaultPaths("myapp")
	assert.GreaterOrEqual(t, len(withApp), 4)
	assert.Equal(t, ".myapp.yaml", withApp[0])
}
