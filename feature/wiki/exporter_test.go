package wiki_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"asset-extractor/core/loader"
	"asset-extractor/core/proxy"
	"asset-extractor/core/resultcache"
	"asset-extractor/core/storage/mocks"
	"asset-extractor/core/ue/uetest"
	"asset-extractor/feature/ark"
	"asset-extractor/feature/wiki"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeSpecies(t *testing.T, root, relPath string, cost, perLevel float32) {
	t.Helper()
	b := uetest.NewBuilder()
	pkg := b.AddPackageImport("/Script/ShooterGame")
	cls := b.AddImport("/Script/ShooterGame", "Class", pkg, "PrimalDinoCharacter")
	leaf := filepath.Base(relPath)
	leaf = leaf[:len(leaf)-len(filepath.Ext(leaf))]
	b.AddExport("Default__"+leaf+"_C", cls, 0, 0).
		Float("CloneBaseElementCost", 0, cost).
		Float("CloneElementCostPerLevel", 0, perLevel)

	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, b.WriteFile(path))
}

func newExporter(t *testing.T, root string, store *mocks.Client) *wiki.Exporter {
	t.Helper()
	reg := proxy.NewRegistry()
	ark.RegisterTypes(reg)
	l, err := loader.New(loader.Config{Root: root},
		loader.NewStaticModResolver(nil), zaptest.NewLogger(t),
		loader.Options{Registry: reg})
	require.NoError(t, err)

	results, err := resultcache.Open(resultcache.Config{
		Path: filepath.Join(t.TempDir(), "results.db"),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	// A typed nil must not end up inside the storage.Client interface.
	if store == nil {
		return wiki.NewExporter(l, results, nil, "bucket", "357.4", zaptest.NewLogger(t))
	}
	return wiki.NewExporter(l, results, store, "bucket", "357.4", zaptest.NewLogger(t))
}

func TestExportSpecies(t *testing.T) {
	root := t.TempDir()
	writeSpecies(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset", 40, 2)
	e := newExporter(t, root, nil)

	names := []string{"/Game/PrimalEarth/Dinos/Dodo_Character_BP"}
	payload, cached, err := e.ExportSpecies("", names, false)
	require.NoError(t, err)
	assert.False(t, cached)

	var doc wiki.SpeciesDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, "357.4", doc.Version)
	require.Len(t, doc.Species, 1)
	assert.Equal(t, "/Game/PrimalEarth/Dinos/Dodo_Character_BP", doc.Species[0].Name)

	cloning := doc.Species[0].Cloning
	require.NotNil(t, cloning)
	assert.Equal(t, 40.0, cloning.CostBase)
	assert.Equal(t, 2.0, cloning.CostLevel)
	assert.Equal(t, 280.0, cloning.TimeBase)

	// Unchanged inputs are served from the result cache.
	_, cached, err = e.ExportSpecies("", names, false)
	require.NoError(t, err)
	assert.True(t, cached)

	// Force bypasses it.
	_, cached, err = e.ExportSpecies("", names, true)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestExportSpeciesSkipsUnreadableAssets(t *testing.T) {
	root := t.TempDir()
	writeSpecies(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset", 40, 2)
	e := newExporter(t, root, nil)

	payload, _, err := e.ExportSpecies("", []string{
		"/Game/PrimalEarth/Dinos/NoSuchDino",
		"/Game/PrimalEarth/Dinos/Dodo_Character_BP",
	}, false)
	require.NoError(t, err)

	var doc wiki.SpeciesDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	require.Len(t, doc.Species, 1)
	assert.Equal(t, "/Game/PrimalEarth/Dinos/Dodo_Character_BP", doc.Species[0].Name)
}

func TestPublish(t *testing.T) {
	client := &mocks.Client{}
	client.On("BucketExists", mock.Anything, "bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "bucket", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "bucket", "wiki/mods/ClassicFlyers/species.json",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	e := newExporter(t, t.TempDir(), client)
	err := e.Publish(context.Background(), "ClassicFlyers", []byte(`{"species":[]}`))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestWipeModRemovesPublishedObjects(t *testing.T) {
	listed := make(chan minio.ObjectInfo, 1)
	listed <- minio.ObjectInfo{Key: "wiki/mods/ClassicFlyers/species.json"}
	close(listed)
	removed := make(chan minio.RemoveObjectError)
	close(removed)

	var removedKeys []string
	client := &mocks.Client{}
	client.On("ListObjects", mock.Anything, "bucket", mock.Anything).
		Return((<-chan minio.ObjectInfo)(listed))
	client.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for info := range args.Get(2).(<-chan minio.ObjectInfo) {
				removedKeys = append(removedKeys, info.Key)
			}
		}).
		Return((<-chan minio.RemoveObjectError)(removed))

	e := newExporter(t, t.TempDir(), client)
	require.NoError(t, e.WipeMod(context.Background(), "ClassicFlyers"))
	assert.Equal(t, []string{"wiki/mods/ClassicFlyers/species.json"}, removedKeys)
	client.AssertExpectations(t)
}

func TestWipeMod(t *testing.T) {
	root := t.TempDir()
	writeSpecies(t, root, "Content/Mods/895711211/AdminBlink.uasset", 10, 1)
	e := newExporter(t, root, nil)

	// Seed a mod document and a core document.
	_, _, err := e.ExportSpecies("ClassicFlyers", nil, false)
	require.NoError(t, err)
	_, _, err = e.ExportSpecies("", nil, false)
	require.NoError(t, err)

	require.NoError(t, e.WipeMod(context.Background(), "ClassicFlyers"))

	// The core document survives; the mod document regenerates.
	_, cached, err := e.ExportSpecies("", nil, false)
	require.NoError(t, err)
	assert.True(t, cached)
	_, cached, err = e.ExportSpecies("ClassicFlyers", nil, false)
	require.NoError(t, err)
	assert.False(t, cached)
}
