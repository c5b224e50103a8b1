package wiki_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"asset-extractor/core/loader"
	"asset-extractor/core/proxy"
	"asset-extractor/feature/ark"
	"asset-extractor/feature/wiki"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newApp(t *testing.T, root string) *fiber.App {
	t.Helper()
	reg := proxy.NewRegistry()
	ark.RegisterTypes(reg)
	l, err := loader.New(loader.Config{Root: root},
		loader.NewStaticModResolver(nil), zaptest.NewLogger(t),
		loader.Options{Registry: reg})
	require.NoError(t, err)

	app := fiber.New()
	wiki.NewHandler(wiki.NewService(l, zaptest.NewLogger(t))).RegisterRoutes(app)
	return app
}

func TestHandleGetAsset(t *testing.T) {
	root := t.TempDir()
	writeSpecies(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset", 40, 2)
	app := newApp(t, root)

	resp, err := app.Test(httptest.NewRequest("GET", "/assets/Game/PrimalEarth/Dinos/Dodo_Character_BP", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var summary wiki.AssetSummary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, "/Game/PrimalEarth/Dinos/Dodo_Character_BP", summary.Name)
	require.Len(t, summary.Exports, 1)
	assert.Equal(t, "Default__Dodo_Character_BP_C", summary.Exports[0].Name)
	assert.True(t, summary.Exports[0].IsTemplate)
	assert.Equal(t, "/Script/ShooterGame.PrimalDinoCharacter", summary.Exports[0].Class)
	assert.Contains(t, summary.Exports[0].Properties, "CloneBaseElementCost")
}

func TestHandleGetAssetNotFound(t *testing.T) {
	app := newApp(t, t.TempDir())

	resp, err := app.Test(httptest.NewRequest("GET", "/assets/Game/Missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleFindAssets(t *testing.T) {
	root := t.TempDir()
	writeSpecies(t, root, "Content/PrimalEarth/Dinos/Dodo_Character_BP.uasset", 40, 2)
	writeSpecies(t, root, "Content/PrimalEarth/Structures/StorageBox.uasset", 0, 0)
	app := newApp(t, root)

	resp, err := app.Test(httptest.NewRequest("GET",
		"/find?root=/Game&exclude=/Game/PrimalEarth/Structures", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result struct {
		Root   string   `json:"root"`
		Count  int      `json:"count"`
		Assets []string `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"/Game/PrimalEarth/Dinos/Dodo_Character_BP"}, result.Assets)
}

func TestHandleFindAssetsBadRoot(t *testing.T) {
	app := newApp(t, t.TempDir())

	resp, err := app.Test(httptest.NewRequest("GET", "/find?root=/Game/Nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
