package wiki

import (
	"asset-extractor/core/proxy"
)

// CloningData is the cloning cost summary for one species.
type CloningData struct {
	CostBase  float64 `json:"costBase"`
	CostLevel float64 `json:"costLevel"`
	TimeBase  float64 `json:"timeBase"`
	TimeLevel float64 `json:"timeLevel"`
}

// Any of these flags makes a species ineligible for cloning.
var flagsPreventClone = []string{
	"bIsVehicle",
	"bIsRobot",
	"bUniqueDino",
	"bPreventCloning",
	"bPreventUploading",
	"bAutoTameable",
}

// CanBeCloned reports whether a species is accepted by the cloning
// chamber. Vehicles, robots, unique, non-uploadable and auto-tameable
// creatures are rejected, as are temporary creatures that fade out
// after taming.
func CanBeCloned(species *proxy.Proxy) bool {
	for _, flag := range flagsPreventClone {
		if species.Bool(flag, 0) {
			return false
		}
	}
	if species.Float("AutoFadeOutAfterTameTime", 0) != 0 {
		return false
	}
	return species.Float("CloneBaseElementCost", 0) >= 0
}

// GatherCloningData computes the cloning costs and times for a species
// in the given chamber. Returns nil for species that cannot be cloned
// or whose effective base cost is zero.
func GatherCloningData(species, chamber *proxy.Proxy) *CloningData {
	if !CanBeCloned(species) {
		return nil
	}

	costBase := species.Float("CloneBaseElementCost", 0) *
		chamber.Float("CloneBaseElementCostGlobalMultiplier", 0)
	if costBase == 0 {
		return nil
	}
	costLevel := species.Float("CloneElementCostPerLevel", 0) *
		chamber.Float("CloneElementCostPerLevelGlobalMultiplier", 0)

	shardTime := chamber.Float("CloningTimePerElementShard", 0)
	return &CloningData{
		CostBase:  costBase,
		CostLevel: costLevel,
		TimeBase:  costBase * shardTime,
		TimeLevel: costLevel * shardTime,
	}
}
