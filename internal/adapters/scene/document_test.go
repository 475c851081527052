package scene_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/scene"
	"go.trai.ch/linkman/internal/adapters/scene/scenetest"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
)

const furniture = `
collections:
  - name: Chair
    objects: [ChairBody, ChairLegs]
  - name: Table
    objects: [TableTop]
    children: [Chair]
objects:
  - name: ChairBody
    data: {category: meshes, name: ChairBody_Lo}
  - name: ChairLegs
    data: {category: meshes, name: ChairLegs_Lo}
    parent: ChairBody
  - name: TableTop
    data: {category: meshes, name: TableTop_Lo}
materials: [Wood]
`

func collections(names ...string) map[domain.Category][]string {
	return map[domain.Category][]string{domain.CategoryCollection: names}
}

func TestLoadLibrary_Restricted(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})

	res := f.Load(t, "//furniture_Lo.blend", map[domain.Category][]string{
		domain.CategoryCollection: {"Chair", "Sofa"},
	})

	require.Len(t, res.Loaded[domain.CategoryCollection], 1, "absent names are skipped")
	assert.ElementsMatch(t, []string{"Chair"}, f.Owned(domain.CategoryCollection, "//furniture_Lo.blend"))
	assert.ElementsMatch(t, []string{"ChairBody", "ChairLegs"}, f.Owned(domain.CategoryObject, "//furniture_Lo.blend"))
	assert.ElementsMatch(t, []string{"ChairBody_Lo", "ChairLegs_Lo"}, f.Owned(domain.CategoryMesh, "//furniture_Lo.blend"))
	assert.Empty(t, f.Owned(domain.CategoryMaterial, "//furniture_Lo.blend"))

	legs, ok := f.ObjectNamed("ChairLegs")
	require.True(t, ok)
	body, ok := f.ObjectNamed("ChairBody")
	require.True(t, ok)
	assert.Equal(t, body.ID, legs.Parent)
	assert.Equal(t, domain.CategoryMesh, legs.Data.Category)
}

func TestLoadLibrary_ReusesLibraryBySamePath(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})

	first := f.Load(t, "//furniture_Lo.blend", collections("Chair"))
	second := f.Load(t, filepath.Join(scenetest.Root, "furniture_Lo.blend"), collections("Chair", "Table"))

	assert.Equal(t, first.Library, second.Library)
	assert.Len(t, f.Doc.Libraries(), 1)
	assert.Equal(t, first.Loaded[domain.CategoryCollection][0], second.Loaded[domain.CategoryCollection][0])

	table, ok := f.Doc.Collection(second.Loaded[domain.CategoryCollection][1])
	require.True(t, ok)
	assert.Equal(t, []domain.ID{first.Loaded[domain.CategoryCollection][0]}, table.Children)
}

func TestLoadLibrary_Errors(t *testing.T) {
	f := scenetest.New(t, map[string]string{"broken.blend": "collections: {"}, scene.Options{})

	_, err := f.Doc.LoadLibrary("//missing.blend", collections("Chair"))
	require.ErrorContains(t, err, domain.ErrLibraryReadFailed.Error())

	_, err = f.Doc.LoadLibrary("//broken.blend", collections("Chair"))
	require.ErrorContains(t, err, domain.ErrLibraryParseFailed.Error())
	assert.Empty(t, f.Doc.Libraries())
}

func TestRemoveLibrary_CascadesAndLeavesProxiesDangling(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})
	res := f.Load(t, "//furniture_Lo.blend", collections("Chair"))
	chair := res.Loaded[domain.CategoryCollection][0]
	proxy := f.Proxy(t, "Chair_instance", chair, domain.IdentityTransform())

	require.NoError(t, f.Doc.RemoveLibrary(res.Library))

	assert.Empty(t, f.Doc.Libraries())
	_, ok := f.Doc.Collection(chair)
	assert.False(t, ok)
	_, ok = f.Doc.Library(res.Library)
	assert.False(t, ok)

	obj, ok := f.Doc.Object(proxy)
	require.True(t, ok, "local proxies survive library removal")
	assert.True(t, obj.IsInstancer())
	assert.Equal(t, chair, obj.InstanceCollection)

	err := f.Doc.RemoveLibrary(res.Library)
	require.ErrorContains(t, err, domain.ErrLibraryNotFound.Error())
}

func TestRemoveLibrary_ProtectedIsRejected(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})
	res := f.Load(t, "//furniture_Lo.blend", collections("Chair"))
	f.Doc.Protect(res.Library, true)

	err := f.Doc.RemoveLibrary(res.Library)
	require.ErrorIs(t, err, domain.ErrHostRejected)
	assert.Len(t, f.Doc.Libraries(), 1)
	assert.NotEmpty(t, f.Owned(domain.CategoryCollection, "//furniture_Lo.blend"))
}

func TestReloadLibrary(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})
	res := f.Link(t, "//furniture_Lo.blend", collections("Chair"))
	chair := res.Loaded[domain.CategoryCollection][0]

	f.WriteLibrary(t, "furniture_Lo.blend", `
collections:
  - name: Chair
    objects: [ChairBody]
objects:
  - name: ChairBody
    data: {category: meshes, name: ChairBody_Lo}
`)
	require.NoError(t, f.Doc.ReloadLibrary(res.Library))

	coll, ok := f.Doc.Collection(chair)
	require.True(t, ok, "survivors keep their handle")
	require.Len(t, coll.Objects, 1)
	assert.ElementsMatch(t, []string{"ChairBody"}, f.Owned(domain.CategoryObject, "//furniture_Lo.blend"))
	assert.True(t, f.Doc.Contains(chair))
}

func TestReloadLibrary_LegacySignature(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{LegacyReload: true})
	res := f.Load(t, "//furniture_Lo.blend", collections("Chair"))

	err := f.Doc.ReloadLibrary(res.Library)
	require.ErrorIs(t, err, domain.ErrReloadSignature)
	require.NoError(t, f.Doc.ReloadLibraryRemap(res.Library, false))
}

func TestRelocateLibrary_ReloadReadsNewFile(t *testing.T) {
	f := scenetest.New(t, map[string]string{
		"furniture_Lo.blend": furniture,
		"furniture.blend": `
collections:
  - name: Chair
    objects: [ChairBody]
objects:
  - name: ChairBody
    data: {category: meshes, name: ChairBody}
`,
	}, scene.Options{})
	res := f.Load(t, "//furniture_Lo.blend", collections("Chair"))

	require.NoError(t, f.Doc.RelocateLibrary(res.Library, "//furniture.blend"))
	require.NoError(t, f.Doc.ReloadLibrary(res.Library))

	lib, ok := f.Doc.Library(res.Library)
	require.True(t, ok)
	assert.Equal(t, "//furniture.blend", lib.Path)
	assert.ElementsMatch(t, []string{"ChairBody"}, f.Owned(domain.CategoryMesh, "//furniture.blend"))
}

func TestActiveCollection(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})
	res := f.Load(t, "//furniture_Lo.blend", collections("Table"))
	table := res.Loaded[domain.CategoryCollection][0]

	require.NoError(t, f.Doc.Link(table))
	require.NoError(t, f.Doc.Link(table))
	_, children := f.Doc.Members()
	assert.Equal(t, []domain.ID{table}, children)

	require.ErrorIs(t, f.Doc.Link(f.Doc.SceneCollection()), domain.ErrHostRejected)

	mat, ok := f.Doc.Find(domain.CategoryMesh, "TableTop_Lo", res.Library)
	require.True(t, ok)
	require.ErrorIs(t, f.Doc.Link(mat), domain.ErrHostRejected)

	require.NoError(t, f.Doc.Unlink(table))
	assert.False(t, f.Doc.Contains(table))
	require.ErrorContains(t, f.Doc.Unlink(table), domain.ErrDatablockNotFound.Error())
}

func TestNewObject_UniqueNames(t *testing.T) {
	f := scenetest.New(t, nil, scene.Options{})

	a, err := f.Doc.NewObject("Chair_instance")
	require.NoError(t, err)
	b, err := f.Doc.NewObject("Chair_instance")
	require.NoError(t, err)

	oa, _ := f.Doc.Object(a)
	ob, _ := f.Doc.Object(b)
	assert.Equal(t, "Chair_instance", oa.Name)
	assert.Equal(t, "Chair_instance.001", ob.Name)

	require.NoError(t, f.Doc.RemoveObject(a))
	_, ok := f.Doc.Object(a)
	assert.False(t, ok)
	require.ErrorContains(t, f.Doc.RemoveObject(a), domain.ErrDatablockNotFound.Error())
}

func TestPaths(t *testing.T) {
	f := scenetest.New(t, nil, scene.Options{UseRelativePaths: true})

	assert.Equal(t, "/proj/assets/chair.blend", f.Doc.ToAbsolute("//assets/chair.blend"))
	assert.Equal(t, "/proj/assets/chair.blend", f.Doc.ToAbsolute(`assets\chair.blend`))
	assert.Equal(t, "/lib/chair.blend", f.Doc.ToAbsolute("/lib/x/../chair.blend"))

	rel, err := f.Doc.ToRelative("/proj/assets/chair.blend")
	require.NoError(t, err)
	assert.Equal(t, "//assets/chair.blend", rel)

	rel, err = f.Doc.ToRelative("/lib/chair.blend")
	require.NoError(t, err)
	assert.Equal(t, "//../lib/chair.blend", rel)
}

func TestRender_FiresHooksInOrder(t *testing.T) {
	f := scenetest.New(t, nil, scene.Options{})
	var fired []string
	for _, ev := range []ports.HookEvent{ports.HookRenderPre, ports.HookRenderPost, ports.HookRenderCancel} {
		f.Doc.Subscribe(ev, func(context.Context) { fired = append(fired, ev.String()) })
	}

	require.NoError(t, f.Doc.Render(context.Background(), false))
	require.NoError(t, f.Doc.Render(context.Background(), true))

	assert.Equal(t, []string{"render_pre", "render_post", "render_pre", "render_cancel"}, fired)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	f := scenetest.New(t, nil, scene.Options{})
	calls := 0
	unsubscribe := f.Doc.Subscribe(ports.HookRenderPre, func(context.Context) { calls++ })

	f.Doc.Fire(context.Background(), ports.HookRenderPre)
	unsubscribe()
	f.Doc.Fire(context.Background(), ports.HookRenderPre)

	assert.Equal(t, 1, calls)
}

func TestEncodeDecode_PreservesHostState(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{UseRelativePaths: true})
	res := f.Load(t, "//furniture_Lo.blend", collections("Chair"))
	chair := res.Loaded[domain.CategoryCollection][0]
	at := domain.Transform{Location: domain.Vec3{1, 2, 3}, Rotation: domain.IdentityQuat, Scale: domain.Vec3{1, 1, 1}}
	f.Proxy(t, "Chair_instance", chair, at)
	f.Doc.Protect(res.Library, true)

	require.NoError(t, f.Doc.Save())
	data, err := f.FS.ReadFile(f.Doc.Path())
	require.NoError(t, err)

	doc, err := scene.Decode(f.FS, f.Doc.Path(), data)
	require.NoError(t, err)

	again := &scenetest.Fixture{FS: f.FS, Doc: doc}
	assert.Equal(t, []string{"//furniture_Lo.blend"}, again.LibraryPaths())
	assert.ElementsMatch(t, []string{"ChairBody", "ChairLegs"}, again.Owned(domain.CategoryObject, "//furniture_Lo.blend"))
	assert.True(t, doc.UseRelativePaths())

	proxies := again.Proxies()
	require.Len(t, proxies, 1)
	assert.Equal(t, "Chair_instance", proxies[0].Name)
	assert.Equal(t, at, proxies[0].Transform)
	assert.Equal(t, domain.RotationQuaternion, proxies[0].RotationMode)
	coll, ok := doc.Collection(proxies[0].InstanceCollection)
	require.True(t, ok)
	assert.Equal(t, "Chair", coll.Name)

	objects, _ := again.Visible()
	assert.Equal(t, []string{"Chair_instance"}, objects)

	lib, ok := doc.LibraryAt("//furniture_Lo.blend")
	require.True(t, ok)
	require.ErrorIs(t, doc.RemoveLibrary(lib.ID), domain.ErrHostRejected, "protection is persisted")
}

func TestDecode_MissingLibraryStaysLinked(t *testing.T) {
	f := scenetest.New(t, nil, scene.Options{})
	doc, err := scene.Decode(f.FS, f.Doc.Path(), []byte(`
preferences:
  use_relative_paths: false
libraries:
  - path: //gone.blend
    linked:
      collections: [Chair]
`))
	require.NoError(t, err)

	libs := doc.Libraries()
	require.Len(t, libs, 1)
	assert.Equal(t, "//gone.blend", libs[0].Path)
	assert.False(t, doc.UseRelativePaths())
}

func TestLoader_Open(t *testing.T) {
	f := scenetest.New(t, map[string]string{"furniture_Lo.blend": furniture}, scene.Options{})
	loader := scene.NewLoader(f.FS)

	loads := 0
	relative := false
	doc, err := loader.Open(context.Background(), f.Doc.Path(), ports.OpenOptions{UseRelativePaths: &relative},
		func(context.Context) { loads++ })
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "after-load hook fires once")
	assert.Empty(t, doc.Libraries(), "missing documents open empty")
	assert.False(t, doc.UseRelativePaths())

	f.Link(t, "//furniture_Lo.blend", collections("Chair"))
	require.NoError(t, f.Doc.Save())

	doc, err = loader.Open(context.Background(), f.Doc.Path(), ports.OpenOptions{}, nil)
	require.NoError(t, err)
	_, children := doc.Members()
	require.Len(t, children, 1)
	coll, ok := doc.Collection(children[0])
	require.True(t, ok)
	assert.Equal(t, "Chair", coll.Name)
	assert.True(t, slices.ContainsFunc(doc.Libraries(), func(l domain.Library) bool { return l.Path == "//furniture_Lo.blend" }))
}

func TestLoader_OpenParseError(t *testing.T) {
	f := scenetest.New(t, map[string]string{domain.DefaultSceneFile: "libraries: {"}, scene.Options{})
	_, err := scene.NewLoader(f.FS).Open(context.Background(), f.Doc.Path(), ports.OpenOptions{}, nil)
	require.ErrorContains(t, err, domain.ErrDocumentParseFailed.Error())
}
