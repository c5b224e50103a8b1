package ark

import (
	"asset-extractor/core/proxy"
	"asset-extractor/core/ue"
)

// Full engine type names of the objects the extractor works with.
const (
	PrimalDinoCharacter        = "/Script/ShooterGame.PrimalDinoCharacter"
	PrimalItem                 = "/Script/ShooterGame.PrimalItem"
	TekCloningChamber          = "/Game/PrimalEarth/Structures/TekTier/TekCloningChamber.TekCloningChamber_C"
	DinoDropInventoryComponent = "/Game/PrimalEarth/CoreBlueprints/Inventories/DinoDropInventoryComponent_BP.DinoDropInventoryComponent_BP_C"
)

// RegisterTypes declares every supported game type on the given
// registry.
func RegisterTypes(reg *proxy.Registry) {
	reg.Register(PrimalDinoCharacter, map[string]map[int]ue.Value{
		"CloneBaseElementCost":      proxy.Floats(0),
		"CloneElementCostPerLevel":  proxy.Floats(0),
		"AutoFadeOutAfterTameTime":  proxy.Floats(0),
		"BabyMatureSpeedMultiplier": proxy.Floats(1),
		"RequiredTameAffinity":      proxy.Floats(100),
		"bPreventCloning":           proxy.Bools(false),
		"bPreventUploading":         proxy.Bools(false),
		"bIsVehicle":                proxy.Bools(false),
		"bIsRobot":                  proxy.Bools(false),
		"bUniqueDino":               proxy.Bools(false),
		"bAutoTameable":             proxy.Bools(false),
	})

	reg.Register(TekCloningChamber, map[string]map[int]ue.Value{
		"CloneBaseElementCostGlobalMultiplier":     proxy.Floats(1),
		"CloneElementCostPerLevelGlobalMultiplier": proxy.Floats(1),
		"CloningTimePerElementShard":               proxy.Floats(7),
	})

	reg.Register(PrimalItem, map[string]map[int]ue.Value{
		"MaxItemQuantity":            proxy.Ints(1),
		"bAllowRemovalFromInventory": proxy.Bools(true),
	})

	// Drop inventories carry no scalar defaults; registration makes the
	// type proxyable so its item set arrays can be decoded uniformly.
	reg.Register(DinoDropInventoryComponent, map[string]map[int]ue.Value{})
}

func init() {
	RegisterTypes(proxy.Default)
}
