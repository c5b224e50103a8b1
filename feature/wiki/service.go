package wiki

import (
	"asset-extractor/core/loader"
	"asset-extractor/core/ue"

	"go.uber.org/zap"
)

// findLimit caps find responses regardless of the requested limit.
const findLimit = 1000

// Service exposes read-only asset inspection operations.
type Service struct {
	loader *loader.AssetLoader
	logger *zap.Logger
}

// NewService creates a new inspection service.
func NewService(l *loader.AssetLoader, logger *zap.Logger) *Service {
	return &Service{loader: l, logger: logger}
}

// ExportEntry summarizes one export of an asset.
type ExportEntry struct {
	Name       string            `json:"name"`
	Class      string            `json:"class,omitempty"`
	IsTemplate bool              `json:"isTemplate,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// AssetSummary is the inspection view of one parsed asset.
type AssetSummary struct {
	Name    string        `json:"name"`
	FileExt string        `json:"fileExt"`
	Mod     string        `json:"mod,omitempty"`
	Imports int           `json:"importCount"`
	Exports []ExportEntry `json:"exports"`
}

// GetAssetSummary loads an asset and renders its linked structure.
func (s *Service) GetAssetSummary(name string) (*AssetSummary, error) {
	asset, err := s.loader.LoadAsset(name)
	if err != nil {
		return nil, err
	}
	mod, err := s.loader.ResolveModName(asset.Name)
	if err != nil {
		return nil, err
	}

	summary := &AssetSummary{
		Name:    asset.Name,
		FileExt: asset.FileExt,
		Mod:     mod,
		Imports: len(asset.Imports),
		Exports: make([]ExportEntry, 0, len(asset.Exports)),
	}
	for _, export := range asset.Exports {
		summary.Exports = append(summary.Exports, ExportEntry{
			Name:       export.Name,
			Class:      export.Class.FullName(),
			IsTemplate: export == asset.DefaultExport,
			Properties: renderProperties(export.Properties),
		})
	}
	return summary, nil
}

// FindAssets lists canonical names under root matching the filters, up
// to limit entries.
func (s *Service) FindAssets(root string, includes, excludes []string, limit int) ([]string, error) {
	if limit <= 0 || limit > findLimit {
		limit = findLimit
	}
	seq, err := s.loader.FindAssetNames(root, loader.FindOptions{
		Includes: includes,
		Excludes: excludes,
	})
	if err != nil {
		return nil, err
	}

	names := []string{}
	for name := range seq {
		names = append(names, name)
		if len(names) >= limit {
			break
		}
	}
	return names, nil
}

func renderProperties(table *ue.PropertyTable) map[string]string {
	if table == nil || len(table.Entries) == 0 {
		return nil
	}
	out := make(map[string]string, len(table.Entries))
	for name, value := range table.AsDict() {
		out[name] = value.String()
	}
	return out
}
