package cmd

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/questterm/internal/app"
	"github.com/cristianoliveira/questterm/internal/assets"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/cristianoliveira/questterm/internal/version"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("QUESTTERM_CONFIG_PATH", "")

	orig := newSession
	t.Cleanup(func() {
		newSession = orig
		contentDirFlag, storageFlag = "", ""
	})
	newSession = func() (*app.Session, error) {
		return app.NewSession(app.SessionOptions{Assets: assets.Consoles()})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSplitRunArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		dash      int
		wantName  string
		wantLines []string
		wantErr   string
	}{
		{name: "line only", args: []string{"ls"}, dash: 0, wantLines: []string{"ls"}},
		{name: "console and line", args: []string{"blueberry", "status"}, dash: 1, wantName: "blueberry", wantLines: []string{"status"}},
		{name: "words are joined", args: []string{"cat", "readme.md"}, dash: 0, wantLines: []string{"cat readme.md"}},
		{name: "semicolons split lines", args: []string{"ls all; cat readme.md;"}, dash: 0, wantLines: []string{"ls all", "cat readme.md"}},
		{name: "missing dash", args: []string{"ls"}, dash: -1, wantErr: "missing command line"},
		{name: "two names", args: []string{"a", "b", "ls"}, dash: 2, wantErr: "at most one console"},
		{name: "empty line", args: []string{" ; "}, dash: 0, wantErr: "empty command line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, lines, err := splitRunArgs(tt.args, tt.dash)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestConsoleName(t *testing.T) {
	assert.Equal(t, "intro", consoleName(nil, "intro"))
	assert.Equal(t, "intro", consoleName([]string{""}, "intro"))
	assert.Equal(t, "blueberry", consoleName([]string{"blueberry"}, "intro"))
}

func TestRunCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "run", "--", "ls; cat readme.md")
	require.NoError(t, err)
	assert.Contains(t, out, "# Welcome, operator")
	assert.Contains(t, out, "readme.md")
	assert.Contains(t, out, "# Getting started")
}

func TestRunCommandUnknownConsole(t *testing.T) {
	isolate(t)

	_, err := execute(t, "run", "atlantis", "--", "ls")
	require.Error(t, err)
}

func TestStorageFlagIsValidated(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--storage", "redis", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --storage")
}

func TestFlagsOverrideConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := execute(t, "--storage", "bolt", "--content-dir", dir, "version")
	require.NoError(t, err)
	assert.Equal(t, "bolt", config.Get("storage_backend", ""))
	assert.Equal(t, dir, config.Get("content_dir", ""))
}

func TestPrintVersion(t *testing.T) {
	origWriter := versionOutputWriter
	defer func() { versionOutputWriter = origWriter }()

	var buf bytes.Buffer
	versionOutputWriter = &buf
	PrintVersion()
	assert.Equal(t, "questterm v"+version.String()+"\n", buf.String())
}

func TestHelpListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printHelpText(&buf, rootCmd)

	text := buf.String()
	for _, name := range []string{"tui [console]", "repl [console]", "run [console] -- <command line>", "version", "help"} {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "--content-dir")
	assert.Contains(t, text, "--storage")
}

func TestHelpForSubcommand(t *testing.T) {
	var buf bytes.Buffer
	printHelpText(&buf, runCmd)
	assert.Contains(t, buf.String(), `questterm run intro -- "ls all; cat readme.md"`)
}

type fakeRunner struct {
	models []tea.Model
}

func (r *fakeRunner) Run(model tea.Model) error {
	r.models = append(r.models, model)
	return nil
}

func TestTUICommandRunsProgram(t *testing.T) {
	isolate(t)
	runner := &fakeRunner{}
	tuiRunner = runner
	defer func() { tuiRunner = nil }()

	_, err := execute(t, "tui", "blueberry")
	require.NoError(t, err)
	require.Len(t, runner.models, 1)
	assert.Contains(t, runner.models[0].View(), "questterm · blueberry")
}
