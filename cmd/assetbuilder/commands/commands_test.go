package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/orchestrator"
)

// projectConfig writes a config whose trees and journal live in a temp dir.
func projectConfig(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "assetbuilder.yaml")
	content := "layout:\n" +
		"  source_root: " + filepath.Join(root, "data-src") + "\n" +
		"  output_root: " + filepath.Join(root, "data") + "\n" +
		"tools:\n" +
		"  lipsync: \"\"\n" +
		"journal:\n" +
		"  path: " + filepath.Join(root, "journal.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, root
}

func TestParse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-c", "x.yaml", "watch", "--skip-initial", "--metrics-addr", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, "watch", ctx.Command())
	assert.Equal(t, "x.yaml", cli.Config)
	assert.True(t, cli.Watch.SkipInitial)
	assert.Equal(t, ":9100", cli.Watch.MetricsAddr)

	ctx, err = parser.Parse([]string{"history", "abc"})
	require.NoError(t, err)
	assert.Equal(t, "history <run>", ctx.Command())
	assert.Equal(t, "abc", cli.History.RunID)
	assert.Equal(t, 10, cli.History.Limit)
}

func TestBuildAndHistory(t *testing.T) {
	path, root := projectConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data-src", "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data-src", "fonts", "ui.ttf"), []byte("font"), 0o644))

	var out bytes.Buffer
	g := &Global{Out: &out}
	cli := &CLI{Config: path}
	require.NoError(t, (&BuildCmd{}).Run(g, cli))
	assert.Contains(t, out.String(), "Convert success")
	assert.FileExists(t, filepath.Join(root, "data", "fonts", "ui.ttf"))

	out.Reset()
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(g, cli))
	assert.Contains(t, out.String(), "build")
	assert.Contains(t, out.String(), "success")
}

func TestBuild_InterruptExitsCleanly(t *testing.T) {
	path, root := projectConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data-src", "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data-src", "fonts", "ui.ttf"), []byte("font"), 0o644))
	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var out bytes.Buffer
	err = runBuild(ctx, &out, orchestrator.New(cfg, orchestrator.WithOutput(&out)))
	require.NoError(t, err)
	assert.Equal(t, 0, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Contains(t, out.String(), "Build interrupted")
	assert.NotContains(t, out.String(), "Convert success")
	assert.NoDirExists(t, filepath.Join(root, "data", "fonts"))
}

func TestHistory_Empty(t *testing.T) {
	path, _ := projectConfig(t)
	var out bytes.Buffer
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{Out: &out}, &CLI{Config: path}))
	assert.Equal(t, "No builds recorded yet\n", out.String())
}

func TestBuild_MissingExplicitConfig(t *testing.T) {
	err := (&BuildCmd{}).Run(&Global{Out: &bytes.Buffer{}}, &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	var out bytes.Buffer
	require.NoError(t, (&InitCmd{}).Run(&Global{Out: &out}, &CLI{Config: path}))
	assert.Contains(t, out.String(), "initialized successfully")
	assert.FileExists(t, path)

	err := (&InitCmd{}).Run(&Global{Out: &out}, &CLI{Config: path})
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Out: &out}, &CLI{Config: path}))
}
