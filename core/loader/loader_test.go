package loader_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"asset-extractor/core/loader"
	"asset-extractor/core/proxy"
	"asset-extractor/core/ue"
	"asset-extractor/core/ue/uetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const classicFlyersID = "895711211"

func testResolver() loader.ModResolver {
	return loader.NewStaticModResolver(map[string]string{
		classicFlyersID: "ClassicFlyers",
	})
}

func newLoader(t *testing.T, root string, opts loader.Options) *loader.AssetLoader {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = proxy.NewRegistry()
	}
	l, err := loader.New(loader.Config{Root: root}, testResolver(), zaptest.NewLogger(t), opts)
	require.NoError(t, err)
	return l
}

// writeFixture builds a minimal valid container at the given path under
// root, with a Default__ template export.
func writeFixture(t *testing.T, root, relPath string) {
	t.Helper()
	b := uetest.NewBuilder()
	pkg := b.AddPackageImport("/Script/ShooterGame")
	cls := b.AddImport("/Script/ShooterGame", "Class", pkg, "PrimalDinoCharacter")
	leaf := filepath.Base(relPath)
	leaf = leaf[:len(leaf)-len(filepath.Ext(leaf))]
	b.AddExport(leaf+"_C", cls, 0, 0)
	b.AddExport("Default__"+leaf+"_C", cls, 0, 0).
		Float("BabyMatureSpeedMultiplier", 0, 2.5)

	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, b.WriteFile(path))
}

func TestNormalizeAssetName(t *testing.T) {
	l := newLoader(t, t.TempDir(), loader.Options{})

	const dodo = "/Game/PrimalEarth/Dinos/Dodo/Dodo_Character_BP"
	cases := []struct {
		input string
		want  string
	}{
		{dodo, dodo},
		{dodo + ".Dodo_Character_BP_C", dodo},
		{"Game/PrimalEarth/Dinos/Dodo/Dodo_Character_BP", dodo},
		{"\\Game\\PrimalEarth\\Dinos\\Dodo\\Dodo_Character_BP", dodo},
		{"  " + dodo + "  ", dodo},
		{"/Content/PrimalEarth/Dinos/Dodo/Dodo_Character_BP", dodo},
		{"/Game/Mods/" + classicFlyersID + "/AdminBlink", "/Game/Mods/ClassicFlyers/AdminBlink"},
		{"/Content/Mods/" + classicFlyersID + "/AdminBlink.AdminBlink_C", "/Game/Mods/ClassicFlyers/AdminBlink"},
	}
	for _, c := range cases {
		got, err := l.NormalizeAssetName(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)

		// Idempotence: a canonical name passes through unchanged.
		again, err := l.NormalizeAssetName(got)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestNormalizeUnknownModID(t *testing.T) {
	l := newLoader(t, t.TempDir(), loader.Options{})

	_, err := l.NormalizeAssetName("/Game/Mods/12345/Unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrAssetLoad)

	var modErr *loader.ModNotFoundError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "12345", modErr.Mod)
}

func TestConvertNameToPath(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	writeFixture(t, root, "Content/Mods/"+classicFlyersID+"/AdminBlink.uasset")
	l := newLoader(t, root, loader.Options{})

	path, err := l.ConvertNameToPath("/Game/PrimalEarth/Dinos/Dodo_Character_BP", false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Content", "PrimalEarth", "Dinos", "Dodo_Character_BP.uasset"), path)

	// Mod tags translate back to numeric directories.
	path, err = l.ConvertNameToPath("/Game/Mods/ClassicFlyers/AdminBlink", false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Content", "Mods", classicFlyersID, "AdminBlink.uasset"), path)

	// Partial names resolve to directories.
	path, err = l.ConvertNameToPath("/Game/PrimalEarth", true, "", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Content", "PrimalEarth"), path)

	// Missing assets are a soft miss, not an error.
	path, err = l.ConvertNameToPath("/Game/PrimalEarth/Dinos/Raptor_Character_BP", false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestConvertNameToPathRewrites(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/Packs/Extinction/Dinos/Gacha.uasset")
	l := newLoader(t, root, loader.Options{
		Rewrites: []loader.Rewrite{
			{From: "/Game/Extinction", To: "/Game/Packs/Extinction"},
		},
	})

	path, err := l.ConvertNameToPath("/Game/Extinction/Dinos/Gacha", false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Content", "Packs", "Extinction", "Dinos", "Gacha.uasset"), path)
}

func TestCaseInsensitiveFallbackIsMemoized(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")

	core, logs := observer.New(zap.DebugLevel)
	l, err := loader.New(loader.Config{Root: root}, testResolver(), zap.New(core), loader.Options{
		Registry: proxy.NewRegistry(),
	})
	require.NoError(t, err)

	wrongCase := "/Game/primalearth/DINOS/dodo_character_bp"
	path, err := l.ConvertNameToPath(wrongCase, false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Content", "PrimalEarth", "Dinos", "Dodo_Character_BP.uasset"), path)

	scans := logs.FilterMessage("Performing case-insensitive scan").Len()
	assert.Greater(t, scans, 0)

	// A repeat resolution hits the memo and scans nothing.
	path2, err := l.ConvertNameToPath(wrongCase, false, loader.ExtAsset, true)
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	assert.Equal(t, scans, logs.FilterMessage("Performing case-insensitive scan").Len())
}

func TestLoadAssetFullAndCached(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	l := newLoader(t, root, loader.Options{})

	asset, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP.Dodo_Character_BP_C")
	require.NoError(t, err)
	assert.Equal(t, "/Game/PrimalEarth/Dinos/Dodo_Character_BP", asset.Name)
	assert.Equal(t, ue.ModeFull, asset.Mode)
	require.NotNil(t, asset.DefaultExport)
	assert.Equal(t, "Default__Dodo_Character_BP_C", asset.DefaultExport.Name)

	again, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	assert.Same(t, asset, again, "second load comes from cache")
	assert.Equal(t, 1, l.CachedCount())
}

func TestPartialThenFullLoadReparses(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	l := newLoader(t, root, loader.Options{})

	partial, err := l.PartiallyLoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	assert.Equal(t, ue.ModePartial, partial.Mode)
	assert.Nil(t, partial.DefaultExport)

	full, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	assert.NotSame(t, partial, full)
	assert.Equal(t, ue.ModeFull, full.Mode)

	// The richer parse replaced the partial entry, so partial requests
	// are now served from cache too.
	partialAgain, err := l.PartiallyLoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	assert.Same(t, full, partialAgain)
}

func TestLoadRawAssetMapExtension(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/Maps/TheIsland.umap")
	l := newLoader(t, root, loader.Options{})

	buf, ext, err := l.LoadRawAsset("/Game/Maps/TheIsland")
	require.NoError(t, err)
	defer buf.Release()
	assert.Equal(t, loader.ExtMap, ext)
	assert.Greater(t, buf.Len(), 0)
}

func TestLoadAssetNotFound(t *testing.T) {
	l := newLoader(t, t.TempDir(), loader.Options{})

	_, err := l.LoadAsset("/Game/PrimalEarth/Dinos/NoSuchDino")
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrAssetLoad)

	var notFound *loader.AssetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/Game/PrimalEarth/Dinos/NoSuchDino", notFound.Asset)
}

func TestParseFailureIsNotCached(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Content", "Broken.uasset")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not a package"), 0o644))
	l := newLoader(t, root, loader.Options{})

	_, err := l.LoadAsset("/Game/Broken")
	require.Error(t, err)

	var parseErr *loader.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/Game/Broken", parseErr.Asset)
	assert.ErrorIs(t, err, loader.ErrAssetLoad)
	assert.Zero(t, l.CachedCount())
}

func TestLoadClass(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	l := newLoader(t, root, loader.Options{})

	export, err := l.LoadClass("/Game/PrimalEarth/Dinos/Dodo_Character_BP.Dodo_Character_BP_C")
	require.NoError(t, err)
	assert.Equal(t, "Dodo_Character_BP_C", export.Name)

	_, err = l.LoadClass("/Game/PrimalEarth/Dinos/Dodo_Character_BP.Missing_C")
	var exportErr *loader.ExportNotFoundError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "Missing_C", exportErr.Export)
	assert.ErrorIs(t, err, loader.ErrAssetLoad)
}

func TestLoadRelatedFollowsImports(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/CoreBlueprints/DinoCharacter.uasset")

	// An asset importing a class defined by the blueprint above.
	b := uetest.NewBuilder()
	pkg := b.AddPackageImport("/Game/PrimalEarth/CoreBlueprints/DinoCharacter")
	b.AddImport("/Script/CoreUObject", "Class", pkg, "DinoCharacter_C")
	b.AddExport("Dodo_Character_BP_C", 0, 0, 0)
	path := filepath.Join(root, "Content", "PrimalEarth", "Dinos", "Dodo_Character_BP.uasset")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, b.WriteFile(path))

	l := newLoader(t, root, loader.Options{})
	asset, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)

	var classImport *ue.Import
	for _, imp := range asset.Imports {
		if imp.Name == "DinoCharacter_C" {
			classImport = imp
		}
	}
	require.NotNil(t, classImport)

	related, err := l.LoadRelated(classImport)
	require.NoError(t, err)
	assert.Equal(t, "/Game/PrimalEarth/CoreBlueprints/DinoCharacter", related.Name)
}

func TestResolveModNameAndID(t *testing.T) {
	l := newLoader(t, t.TempDir(), loader.Options{
		Aliases: map[string]string{"classicflyersold": "ClassicFlyers"},
	})

	name, err := l.ResolveModName("/Game/Mods/" + classicFlyersID + "/AdminBlink")
	require.NoError(t, err)
	assert.Equal(t, "ClassicFlyers", name)

	id, err := l.ResolveModID("/Game/Mods/ClassicFlyers/AdminBlink")
	require.NoError(t, err)
	assert.Equal(t, classicFlyersID, id)

	// Aliases map to the canonical tag before id lookup.
	id, err = l.ResolveModID("/Game/Mods/ClassicFlyersOld/AdminBlink")
	require.NoError(t, err)
	assert.Equal(t, classicFlyersID, id)

	// Base game assets have no mod.
	name, err = l.ResolveModName("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestFindAssetNames(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Raptor_Character_BP.uasset")
	writeFixture(t, root, "Content/PrimalEarth/Structures/StorageBox.uasset")
	writeFixture(t, root, "Content/Mods/"+classicFlyersID+"/AdminBlink.uasset")
	writeFixture(t, root, "Content/Maps/TheIsland.umap")
	require.NoError(t, os.WriteFile(filepath.Join(root, "Content", "notes.txt"), []byte("x"), 0o644))

	l := newLoader(t, root, loader.Options{})

	collect := func(opts loader.FindOptions) []string {
		seq, err := l.FindAssetNames("/Game", opts)
		require.NoError(t, err)
		return slices.Collect(seq)
	}

	// Default scan: .uasset files only, mod ids translated to tags.
	assert.Equal(t, []string{
		"/Game/Maps/TheIsland",
		"/Game/Mods/ClassicFlyers/AdminBlink",
		"/Game/PrimalEarth/Dinos/Dodo_Character_BP",
		"/Game/PrimalEarth/Dinos/Raptor_Character_BP",
		"/Game/PrimalEarth/Structures/StorageBox",
	}, collect(loader.FindOptions{Extensions: []string{loader.ExtAsset, loader.ExtMap}}))

	excluded := collect(loader.FindOptions{
		Excludes: []string{`/Game/PrimalEarth/Structures`, `/Game/Mods/`},
	})
	assert.Equal(t, []string{
		"/Game/PrimalEarth/Dinos/Dodo_Character_BP",
		"/Game/PrimalEarth/Dinos/Raptor_Character_BP",
	}, excluded)

	// An include beats an exclude covering the same name.
	overridden := collect(loader.FindOptions{
		Includes: []string{`/Game/PrimalEarth/Structures/Storage`},
		Excludes: []string{`/Game/PrimalEarth/`, `/Game/Mods/`},
	})
	assert.Equal(t, []string{"/Game/PrimalEarth/Structures/StorageBox"}, overridden)

	// Invert yields exactly what the normal scan would skip.
	inverted := collect(loader.FindOptions{
		Excludes: []string{`/Game/PrimalEarth/Dinos/`},
		Invert:   true,
	})
	assert.Equal(t, []string{
		"/Game/PrimalEarth/Dinos/Dodo_Character_BP",
		"/Game/PrimalEarth/Dinos/Raptor_Character_BP",
	}, inverted)
}

func TestFindAssetNamesLazyStop(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Raptor_Character_BP.uasset")
	l := newLoader(t, root, loader.Options{})

	seq, err := l.FindAssetNames("/Game", loader.FindOptions{})
	require.NoError(t, err)

	var got []string
	for name := range seq {
		got = append(got, name)
		break
	}
	assert.Len(t, got, 1)
}

func TestFindAssetNamesBadRoot(t *testing.T) {
	l := newLoader(t, t.TempDir(), loader.Options{})

	_, err := l.FindAssetNames("/Game/NoSuchTree", loader.FindOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrAssetLoad)
}

func TestFindSkipsUnknownModDirectories(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/Mods/999999/Mystery.uasset")
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	l := newLoader(t, root, loader.Options{})

	seq, err := l.FindAssetNames("/Game", loader.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/Game/PrimalEarth/Dinos/Dodo_Character_BP"}, slices.Collect(seq))
}

func TestWipeCachePrefix(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")
	writeFixture(t, root, "Content/Mods/"+classicFlyersID+"/AdminBlink.uasset")
	l := newLoader(t, root, loader.Options{})

	_, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	_, err = l.LoadAsset("/Game/Mods/ClassicFlyers/AdminBlink")
	require.NoError(t, err)
	require.Equal(t, 2, l.CachedCount())

	l.WipeCachePrefix("/Game/Mods/ClassicFlyers")
	assert.Equal(t, 1, l.CachedCount())

	l.WipeCache()
	assert.Zero(t, l.CachedCount())
}

func TestInstantiateProxyFromLoadedAsset(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset")

	reg := proxy.NewRegistry()
	reg.Register("/Script/ShooterGame.PrimalDinoCharacter", map[string]map[int]ue.Value{
		"BabyMatureSpeedMultiplier": proxy.Floats(1),
		"bPreventCloning":           proxy.Bools(false),
	})
	l := newLoader(t, root, loader.Options{Registry: reg})

	asset, err := l.LoadAsset("/Game/PrimalEarth/Dinos/Dodo_Character_BP")
	require.NoError(t, err)
	require.NotNil(t, asset.DefaultExport)

	p := l.InstantiateProxy(asset.DefaultExport)
	require.NotNil(t, p)
	assert.Equal(t, 2.5, p.Float("BabyMatureSpeedMultiplier", 0))
	assert.True(t, p.HasOverride("BabyMatureSpeedMultiplier", 0))
	assert.False(t, p.Bool("bPreventCloning", 0))
}
