package ark_test

import (
	"testing"

	"asset-extractor/core/proxy"
	"asset-extractor/feature/ark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTypes(t *testing.T) {
	reg := proxy.NewRegistry()
	ark.RegisterTypes(reg)

	species := reg.Instantiate(ark.PrimalDinoCharacter)
	require.NotNil(t, species)
	assert.Equal(t, 1.0, species.Float("BabyMatureSpeedMultiplier", 0))
	assert.False(t, species.Bool("bPreventCloning", 0))

	chamber := reg.Instantiate(ark.TekCloningChamber)
	require.NotNil(t, chamber)
	assert.Equal(t, 1.0, chamber.Float("CloneBaseElementCostGlobalMultiplier", 0))

	item := reg.Instantiate(ark.PrimalItem)
	require.NotNil(t, item)
	assert.Equal(t, 1, item.Int("MaxItemQuantity", 0))

	drops := reg.Instantiate(ark.DinoDropInventoryComponent)
	require.NotNil(t, drops, "registered without defaults, still proxyable")
}

func TestDefaultRegistryCarriesGameTypes(t *testing.T) {
	assert.NotNil(t, proxy.Default.Lookup(ark.PrimalDinoCharacter))
	assert.NotNil(t, proxy.Default.Lookup(ark.TekCloningChamber))
}
