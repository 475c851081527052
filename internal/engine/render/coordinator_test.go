package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/scene"
	"go.trai.ch/linkman/internal/adapters/scene/scenetest"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
	"go.trai.ch/linkman/internal/engine/render"
)

const foo = `
collections:
  - name: Foo
    objects: [FooBody]
objects:
  - name: FooBody
    data: {category: meshes, name: FooMesh}
`

func setup(t *testing.T, flagged bool, files map[string]string) (*scenetest.Fixture, *domain.Session, *render.Coordinator) {
	t.Helper()
	f := scenetest.New(t, files, scene.Options{UseRelativePaths: true, LegacyReload: true})
	f.Link(t, "//foo_Lo.blend", map[domain.Category][]string{domain.CategoryCollection: {"Foo"}})

	session := domain.NewSession()
	session.PutResolution(domain.ResolutionStatus{
		Status:           domain.ResolutionLow,
		LowPath:          "//foo_Lo.blend",
		HighPath:         "//foo.blend",
		HighResForRender: flagged,
	})
	policy := naming.NewPolicy(naming.NewNormalizer(f.Doc), domain.DefaultLowResSuffix)
	return f, session, render.NewCoordinator(f.Doc, session, policy)
}

func bothFiles() map[string]string {
	return map[string]string{"foo_Lo.blend": foo, "foo.blend": foo}
}

func TestRender_SwapAndRestore(t *testing.T) {
	f, session, coord := setup(t, true, bothFiles())

	require.NoError(t, coord.BeforeRender())
	assert.Equal(t, []string{"//foo.blend"}, f.LibraryPaths())
	assert.Equal(t, []string{"//foo"}, session.PendingSwaps())

	require.NoError(t, coord.BeforeRender())
	assert.Equal(t, []string{"//foo.blend"}, f.LibraryPaths())
	assert.Equal(t, []string{"//foo"}, session.PendingSwaps())

	require.NoError(t, coord.AfterRender())
	assert.Equal(t, []string{"//foo_Lo.blend"}, f.LibraryPaths())
	assert.Empty(t, session.PendingSwaps())
	_, collections := f.Visible()
	assert.Equal(t, []string{"Foo"}, collections)
}

func TestRender_UnflaggedIsUntouched(t *testing.T) {
	f, session, coord := setup(t, false, bothFiles())

	require.NoError(t, coord.BeforeRender())
	require.NoError(t, coord.AfterRender())

	assert.Equal(t, []string{"//foo_Lo.blend"}, f.LibraryPaths())
	assert.Empty(t, session.PendingSwaps())
}

func TestRender_CancelledRenderRestores(t *testing.T) {
	f, session, coord := setup(t, true, bothFiles())

	var during []string
	hooks := map[ports.HookEvent]func() error{
		ports.HookRenderPre:    coord.BeforeRender,
		ports.HookRenderPost:   coord.AfterRender,
		ports.HookRenderCancel: coord.AfterRender,
	}
	for event, fn := range hooks {
		f.Doc.Subscribe(event, func(context.Context) {
			assert.NoError(t, fn())
		})
	}
	f.Doc.Subscribe(ports.HookRenderPre, func(context.Context) {
		during = f.LibraryPaths()
	})

	require.NoError(t, f.Doc.Render(t.Context(), true))

	assert.Equal(t, []string{"//foo.blend"}, during)
	assert.Equal(t, []string{"//foo_Lo.blend"}, f.LibraryPaths())
	assert.Empty(t, session.PendingSwaps())
}

func TestRender_MissingHighResStillRestores(t *testing.T) {
	f, session, coord := setup(t, true, map[string]string{"foo_Lo.blend": foo})

	require.ErrorContains(t, coord.BeforeRender(), domain.ErrLibraryReadFailed.Error())
	assert.Equal(t, []string{"//foo"}, session.PendingSwaps())

	require.NoError(t, coord.AfterRender())
	assert.Equal(t, []string{"//foo_Lo.blend"}, f.LibraryPaths())
	assert.Empty(t, session.PendingSwaps())
}

func TestRender_SkipsHiddenCopies(t *testing.T) {
	f, session, coord := setup(t, true, bothFiles())
	hidden := f.Load(t, "//foo.blend", map[domain.Category][]string{domain.CategoryMesh: {"FooMesh"}})
	session.AddEphemeral(hidden.Library, "//foo.blend")

	require.NoError(t, coord.BeforeRender())
	lib, ok := f.Doc.Library(hidden.Library)
	require.True(t, ok)
	assert.Equal(t, "//foo.blend", lib.Path)
	assert.Equal(t, []string{"//foo.blend", "//foo.blend"}, f.LibraryPaths())

	require.NoError(t, coord.AfterRender())
	assert.Equal(t, []string{"//foo_Lo.blend", "//foo.blend"}, f.LibraryPaths())
}
