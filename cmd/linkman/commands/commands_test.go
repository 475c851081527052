package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/cmd/linkman/commands"
	"go.trai.ch/linkman/internal/app"
	"go.trai.ch/linkman/internal/build"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeApp records every call and answers with a configurable report.
type fakeApp struct {
	calls    []string
	cfg      domain.Config
	report   domain.Report
	saved    int
	link     app.LinkRequest
	prompter ports.PathPrompter
	snapshot domain.LinkSnapshot
}

func (f *fakeApp) record(parts ...string) domain.Report {
	f.calls = append(f.calls, strings.Join(parts, " "))
	return f.report
}

func (f *fakeApp) Open(_ context.Context, cfg domain.Config) domain.Report {
	f.cfg = cfg
	f.calls = append(f.calls, "open")
	return domain.Finished("Opened")
}

func (f *fakeApp) Save(context.Context) domain.Report {
	f.saved++
	return domain.Finished("Saved")
}

func (f *fakeApp) ToggleExpand(_ context.Context, path string) domain.Report {
	return f.record("expand", path)
}

func (f *fakeApp) ToggleLoad(_ context.Context, path string) domain.Report {
	return f.record("toggle", path)
}

func (f *fakeApp) Unload(_ context.Context, path string) domain.Report {
	return f.record("unload", path)
}

func (f *fakeApp) Reload(_ context.Context, path string) domain.Report {
	return f.record("reload", path)
}

func (f *fakeApp) Relocate(_ context.Context, path, newPath string) domain.Report {
	return f.record("relocate", path, newPath)
}

func (f *fakeApp) Delete(_ context.Context, path string) domain.Report {
	return f.record("delete", path)
}

func (f *fakeApp) SwitchResolution(_ context.Context, path, replacement string) domain.Report {
	return f.record("switch", path, replacement)
}

func (f *fakeApp) ToggleRenderResolution(_ context.Context, path string) domain.Report {
	return f.record("render-res", path)
}

func (f *fakeApp) Prefetch(_ context.Context, path string) domain.Report {
	return f.record("prefetch", path)
}

func (f *fakeApp) AddLink(_ context.Context, path string, req app.LinkRequest) domain.Report {
	f.link = req
	return f.record("link", path)
}

func (f *fakeApp) Render(_ context.Context, cancel bool) domain.Report {
	if cancel {
		return f.record("render", "cancel")
	}
	return f.record("render")
}

func (f *fakeApp) Snapshot(_ context.Context, path string) (domain.LinkSnapshot, domain.Report) {
	return f.snapshot, f.record("snapshot", path)
}

func (f *fakeApp) List(_ context.Context, w io.Writer) domain.Report {
	_, _ = io.WriteString(w, "panel\n")
	return f.record("list")
}

func (f *fakeApp) Watch(context.Context) domain.Report {
	return f.record("watch")
}

func (f *fakeApp) SetPrompter(p ports.PathPrompter) {
	f.prompter = p
}

func newCLI(t *testing.T, fake *fakeApp, args ...string) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(), nil).AnyTimes()
	logger := mocks.NewMockLogger(ctrl)

	cli := commands.New(fake, loader, logger)
	cli.SetArgs(args)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	return cli, out
}

func TestCommands_PathActions(t *testing.T) {
	tests := []struct {
		args  []string
		call  string
		saves int
	}{
		{[]string{"expand", "//a.blend"}, "expand //a.blend", 0},
		{[]string{"toggle", "//a.blend"}, "toggle //a.blend", 1},
		{[]string{"unload", "//a.blend"}, "unload //a.blend", 1},
		{[]string{"reload", "//a.blend"}, "reload //a.blend", 1},
		{[]string{"delete", "//a.blend"}, "delete //a.blend", 1},
		{[]string{"relocate", "//a.blend", "//b.blend"}, "relocate //a.blend //b.blend", 1},
		{[]string{"relocate", "//a.blend"}, "relocate //a.blend ", 1},
		{[]string{"switch", "//a_Lo.blend", "-r", "//c.blend"}, "switch //a_Lo.blend //c.blend", 1},
		{[]string{"render-res", "//a_Lo.blend"}, "render-res //a_Lo.blend", 0},
		{[]string{"prefetch", "//a_Lo.blend"}, "prefetch //a_Lo.blend", 0},
		{[]string{"render", "--cancel"}, "render cancel", 0},
		{[]string{"watch"}, "watch", 0},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			fake := &fakeApp{report: domain.Finished("ok")}
			cli, _ := newCLI(t, fake, tt.args...)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, []string{"open", tt.call}, fake.calls)
			assert.Equal(t, tt.saves, fake.saved)
		})
	}
}

func TestCommands_NoSave(t *testing.T) {
	fake := &fakeApp{report: domain.Finished("ok")}
	cli, _ := newCLI(t, fake, "unload", "//a.blend", "--no-save")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Zero(t, fake.saved)
}

func TestCommands_CancelledReport(t *testing.T) {
	fake := &fakeApp{report: domain.Warning("Library not found", nil)}
	cli, _ := newCLI(t, fake, "unload", "//a.blend")

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, commands.ErrCancelled)
	assert.Zero(t, fake.saved)
}

func TestCommands_SceneOverride(t *testing.T) {
	fake := &fakeApp{report: domain.Finished("ok")}
	cli, _ := newCLI(t, fake, "--scene", "other.yaml", "list")

	require.NoError(t, cli.Execute(context.Background()))
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "other.yaml"), fake.cfg.ScenePath)
}

func TestCommands_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("/etc/proj").Return(domain.Config{}, errors.New("bad config"))

	fake := &fakeApp{}
	cli := commands.New(fake, loader, mocks.NewMockLogger(ctrl))
	cli.SetArgs([]string{"--config", "/etc/proj/linkman.yaml", "list"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	err := cli.Execute(context.Background())
	require.ErrorContains(t, err, "bad config")
	assert.Empty(t, fake.calls)
}

func TestCommands_Link(t *testing.T) {
	t.Run("builds the request", func(t *testing.T) {
		fake := &fakeApp{report: domain.Finished("ok")}
		cli, _ := newCLI(t, fake, "link", "//props_Lo.blend",
			"-c", "Crate", "-c", "Barrel", "--data", "materials=Oak", "--instance")

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, fake.link.Instance)
		assert.Equal(t, map[domain.Category][]string{
			domain.CategoryCollection: {"Crate", "Barrel"},
			domain.CategoryMaterial:   {"Oak"},
		}, fake.link.Names)
		assert.Equal(t, 1, fake.saved)
	})

	t.Run("rejects malformed data", func(t *testing.T) {
		fake := &fakeApp{report: domain.Finished("ok")}
		cli, _ := newCLI(t, fake, "link", "//props.blend", "--data", "Oak")

		err := cli.Execute(context.Background())
		require.ErrorContains(t, err, "expected category=name")
	})
}

func TestCommands_Snapshot(t *testing.T) {
	snap := domain.NewSnapshot("//chair_Lo.blend")
	snap.Kind = domain.KindCollections
	snap.Names[domain.CategoryCollection] = []string{"Chair"}
	snap.InstanceNames["Chair"] = "Chair_instance"

	fake := &fakeApp{report: domain.Finished("ok"), snapshot: snap}
	cli, out := newCLI(t, fake, "snapshot", "//chair_Lo.blend")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "library: //chair_Lo.blend\n")
	assert.Contains(t, out.String(), "kind: collections\n")
	assert.Contains(t, out.String(), "collections:\n        - Chair\n")
	assert.Contains(t, out.String(), "Chair: Chair_instance\n")
	assert.Regexp(t, `fingerprint: "?[0-9a-f]{16}"?`, out.String())
}

func TestCommands_List(t *testing.T) {
	fake := &fakeApp{report: domain.Finished("ok")}
	cli, out := newCLI(t, fake, "ls")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "panel\n", out.String())
}

func TestCommands_Shell(t *testing.T) {
	fake := &fakeApp{report: domain.Finished("ok")}
	cli, out := newCLI(t, fake, "shell")
	cli.SetInput(strings.NewReader("list\nunload '//my lib.blend'\n\nexit\nunload //never.blend\n"))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"open", "list", "unload //my lib.blend"}, fake.calls)
	assert.Zero(t, fake.saved)
	assert.NotNil(t, fake.prompter)
	assert.Equal(t, "panel\n", out.String())
}

func TestCommands_ShellKeepsGoingAfterCancel(t *testing.T) {
	fake := &fakeApp{report: domain.Warning("Library not found", nil)}
	cli, _ := newCLI(t, fake, "shell")
	cli.SetInput(strings.NewReader("unload //a.blend\nreload //a.blend"))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"open", "unload //a.blend", "reload //a.blend"}, fake.calls)
}

func TestCommands_Version(t *testing.T) {
	fake := &fakeApp{}
	cli, out := newCLI(t, fake, "version")

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "linkman version "+build.Version)
}
