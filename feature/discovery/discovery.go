package discovery

import (
	"errors"
	"slices"
	"strings"

	"asset-extractor/core/loader"
	"asset-extractor/core/ue"
	"asset-extractor/feature/ark"

	"go.uber.org/zap"
)

// superChainLimit caps class ancestry walks; game hierarchies are a
// handful of levels deep.
const superChainLimit = 10

// Tester describes one kind of asset to look for.
type Tester struct {
	// Kind labels matching candidates.
	Kind string
	// Marker is a byte sequence present in the raw container of every
	// asset of this kind, used to reject files before parsing.
	Marker []byte
	// BaseClasses are the full class names that confirm the kind when
	// found in a template export's ancestry.
	BaseClasses []string
}

// The standard testers.
var (
	Species = &Tester{
		Kind:        "species",
		Marker:      []byte("ShooterCharacterMovement"),
		BaseClasses: []string{ark.PrimalDinoCharacter},
	}
	Structures = &Tester{
		Kind:        "structure",
		Marker:      []byte("StructureMesh"),
		BaseClasses: []string{"/Script/ShooterGame.PrimalStructure"},
	}
	Items = &Tester{
		Kind:        "item",
		Marker:      []byte("DescriptiveNameBase"),
		BaseClasses: []string{ark.PrimalItem},
	}
)

// Candidate is one confirmed asset.
type Candidate struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Discoverer runs testers over content trees.
type Discoverer struct {
	loader *loader.AssetLoader
	log    *zap.Logger
}

// New returns a discoverer over the given loader.
func New(l *loader.AssetLoader, log *zap.Logger) *Discoverer {
	return &Discoverer{loader: l, log: log}
}

// Run scans the subtree behind root and returns every asset a tester
// confirms, in scan order.
func (d *Discoverer) Run(root string, opts loader.FindOptions, testers ...*Tester) ([]Candidate, error) {
	seq, err := d.loader.FindAssetNames(root, opts)
	if err != nil {
		return nil, err
	}

	var found []Candidate
	for name := range seq {
		candidate, err := d.test(name, testers)
		if err != nil {
			if errors.Is(err, loader.ErrAssetLoad) {
				d.log.Warn("Skipping unreadable asset during discovery",
					zap.String("asset", name), zap.Error(err))
				continue
			}
			return nil, err
		}
		if candidate != nil {
			found = append(found, *candidate)
		}
	}
	return found, nil
}

func (d *Discoverer) test(name string, testers []*Tester) (*Candidate, error) {
	buf, _, err := d.loader.LoadRawAsset(name)
	if err != nil {
		return nil, err
	}
	var matched []*Tester
	for _, tester := range testers {
		if buf.Contains(tester.Marker) {
			matched = append(matched, tester)
		}
	}
	buf.Release()
	if len(matched) == 0 {
		return nil, nil
	}

	asset, err := d.loader.LoadAsset(name)
	if err != nil {
		return nil, err
	}
	if asset.DefaultExport == nil {
		return nil, nil
	}

	for _, tester := range matched {
		if d.inherits(asset.DefaultExport.Class, tester.BaseClasses) {
			return &Candidate{Name: asset.Name, Kind: tester.Kind}, nil
		}
	}
	return nil, nil
}

// inherits walks the class ancestry behind ref looking for one of the
// base class names, loading defining containers as the chain crosses
// asset boundaries.
func (d *Discoverer) inherits(ref *ue.Reference, bases []string) bool {
	for depth := 0; depth < superChainLimit && !ref.IsNull(); depth++ {
		if slices.Contains(bases, ref.FullName()) {
			return true
		}

		if ref.Export != nil {
			ref = ref.Export.Super
			continue
		}

		// Script classes live in the engine, not on disk; the chain
		// ends here.
		if strings.HasPrefix(ref.Import.PackageName(), "/Script") {
			return false
		}
		related, err := d.loader.LoadRelated(ref.Import)
		if err != nil {
			d.log.Debug("Ancestry walk stopped",
				zap.String("class", ref.FullName()), zap.Error(err))
			return false
		}
		export := related.FindExport(ref.Import.Name)
		if export == nil {
			return false
		}
		ref = export.Super
	}
	return false
}
