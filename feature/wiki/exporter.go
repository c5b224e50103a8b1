package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"asset-extractor/core/loader"
	"asset-extractor/core/proxy"
	"asset-extractor/core/resultcache"
	"asset-extractor/core/storage"
	"asset-extractor/core/ue"
	"asset-extractor/feature/ark"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Exporter produces versioned species documents and publishes them.
type Exporter struct {
	loader  *loader.AssetLoader
	results *resultcache.Store
	store   storage.Client
	bucket  string
	version string
	log     *zap.Logger
}

// NewExporter wires an exporter. store may be nil when publishing is
// not configured; Publish then fails explicitly.
func NewExporter(l *loader.AssetLoader, results *resultcache.Store, store storage.Client,
	bucket, version string, log *zap.Logger) *Exporter {
	return &Exporter{
		loader:  l,
		results: results,
		store:   store,
		bucket:  bucket,
		version: version,
		log:     log,
	}
}

// SpeciesRecord is one species in an export document.
type SpeciesRecord struct {
	Name    string       `json:"name"`
	Cloning *CloningData `json:"cloning,omitempty"`
	Drops   *DropTable   `json:"drops,omitempty"`
}

// SpeciesDocument is the versioned species export for one mod or the
// base game.
type SpeciesDocument struct {
	Version string          `json:"version"`
	Mod     string          `json:"mod,omitempty"`
	Species []SpeciesRecord `json:"species"`
}

// ExportSpecies builds the species document for the given asset names,
// serving it from the result cache when the inputs are unchanged. The
// returned flag reports a cache hit. Unreadable species are logged and
// skipped.
func (e *Exporter) ExportSpecies(modTag string, names []string, force bool) ([]byte, bool, error) {
	key := map[string]any{
		"version": e.version,
		"mod":     modTag,
		"assets":  names,
	}
	return e.results.Data(documentName(modTag), key, force, func() ([]byte, error) {
		return e.generateSpecies(modTag, names)
	})
}

func (e *Exporter) generateSpecies(modTag string, names []string) ([]byte, error) {
	chamber := e.chamberProxy()
	doc := SpeciesDocument{
		Version: e.version,
		Mod:     modTag,
		Species: []SpeciesRecord{},
	}

	for _, name := range names {
		asset, err := e.loader.LoadAsset(name)
		if err != nil {
			if errors.Is(err, loader.ErrAssetLoad) {
				e.log.Warn("Skipping unreadable species", zap.String("asset", name), zap.Error(err))
				continue
			}
			return nil, err
		}
		species := e.loader.InstantiateProxy(asset.DefaultExport)
		if species == nil {
			e.log.Debug("Asset has no proxyable template", zap.String("asset", name))
			continue
		}

		record := SpeciesRecord{
			Name:    asset.Name,
			Cloning: GatherCloningData(species, chamber),
			Drops:   e.dropTableOf(asset),
		}
		doc.Species = append(doc.Species, record)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// chamberProxy returns the cloning chamber field set, overlaid with the
// game's actual chamber blueprint when it is present on disk.
func (e *Exporter) chamberProxy() *proxy.Proxy {
	if export, err := e.loader.LoadClass(ark.TekCloningChamber); err == nil {
		if p := e.loader.InstantiateProxy(export); p != nil {
			return p
		}
	}
	return proxy.Default.Instantiate(ark.TekCloningChamber)
}

// dropTableOf decodes the first proxyable drop inventory component in
// the asset, if any.
func (e *Exporter) dropTableOf(asset *ue.Asset) *DropTable {
	for _, export := range asset.Exports {
		p := e.loader.InstantiateProxy(export)
		if p != nil && p.Type() == ark.DinoDropInventoryComponent {
			return DecodeDropTable(p)
		}
	}
	return nil
}

// Publish writes the document to object storage, creating the bucket on
// first use.
func (e *Exporter) Publish(ctx context.Context, modTag string, payload []byte) error {
	if e.store == nil {
		return fmt.Errorf("no storage client configured")
	}

	exists, err := e.store.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", e.bucket, err)
	}
	if !exists {
		if err := e.store.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket %s: %w", e.bucket, err)
		}
	}

	object := documentName(modTag) + ".json"
	_, err = e.store.PutObject(ctx, e.bucket, object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("publishing %s: %w", object, err)
	}
	e.log.Info("Published export", zap.String("object", object), zap.Int("bytes", len(payload)))
	return nil
}

// WipeMod drops every derived artifact of one mod: the in-memory asset
// cache subtree, the persisted documents and any published objects.
func (e *Exporter) WipeMod(ctx context.Context, modTag string) error {
	e.loader.WipeCachePrefix("/Game/Mods/" + modTag)
	if err := e.results.Wipe(documentPrefix(modTag)); err != nil {
		return err
	}
	if e.store == nil {
		return nil
	}

	var listed []minio.ObjectInfo
	for info := range e.store.ListObjects(ctx, e.bucket, minio.ListObjectsOptions{
		Prefix:    documentPrefix(modTag),
		Recursive: true,
	}) {
		if info.Err != nil {
			return fmt.Errorf("listing published objects: %w", info.Err)
		}
		listed = append(listed, info)
	}
	if len(listed) == 0 {
		return nil
	}

	toRemove := make(chan minio.ObjectInfo, len(listed))
	for _, info := range listed {
		toRemove <- info
	}
	close(toRemove)
	for rmErr := range e.store.RemoveObjects(ctx, e.bucket, toRemove, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return fmt.Errorf("removing %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}
	return nil
}

func documentName(modTag string) string {
	return documentPrefix(modTag) + "species"
}

func documentPrefix(modTag string) string {
	if modTag == "" {
		return "wiki/core/"
	}
	return "wiki/mods/" + modTag + "/"
}
