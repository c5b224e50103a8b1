package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"asset-extractor/core/cache"
	"asset-extractor/core/proxy"
	"asset-extractor/core/stream"
	"asset-extractor/core/ue"

	"go.uber.org/zap"
)

const (
	// ExtAsset is the primary container extension.
	ExtAsset = ".uasset"
	// ExtMap is the level container extension, tried second.
	ExtMap = ".umap"
)

// Config carries the loader settings bound from the application config
// file.
type Config struct {
	// Root is the game content directory asset paths resolve under.
	Root string `mapstructure:"root" default:"."`
	// ModsFile is the ini file mapping numeric mod ids to mod tags.
	ModsFile string `mapstructure:"mods_file" default:"mods.ini"`
}

// Rewrite is one ordered name-to-path prefix translation. The first
// matching rewrite wins; later ones are not consulted.
type Rewrite struct {
	From string
	To   string
}

// Options are the optional collaborators of an AssetLoader. Zero values
// select the defaults: a fresh context-aware usage-bounded cache, the
// process-wide proxy registry, no rewrites and no aliases.
type Options struct {
	Cache       cache.Manager
	CacheConfig cache.Config
	Registry    *proxy.Registry
	Rewrites    []Rewrite
	// Aliases maps alternate mod tags to the canonical tag, for mods
	// renamed across game versions.
	Aliases map[string]string
}

// AssetLoader is the facade over naming, resolution, parsing, caching
// and proxying. It is not safe for concurrent use.
type AssetLoader struct {
	assetPath string
	resolver  ModResolver
	cache     cache.Manager
	registry  *proxy.Registry
	log       *zap.Logger

	rewrites    []Rewrite
	aliases     map[string]string
	pathMatches map[string]pathMatch

	maxCacheSeen int
	maxHeapSeen  uint64
}

// New builds a loader rooted at cfg.Root. The resolver is initialised
// here; a failure to read the mod map is fatal because every mod path
// would be unresolvable.
func New(cfg Config, resolver ModResolver, log *zap.Logger, opts Options) (*AssetLoader, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root: %w", err)
	}
	if err := resolver.Initialise(); err != nil {
		return nil, err
	}

	mgr := opts.Cache
	if mgr == nil {
		mgr = cache.NewDefault(opts.CacheConfig, log)
	}
	reg := opts.Registry
	if reg == nil {
		reg = proxy.Default
	}

	return &AssetLoader{
		assetPath:   root,
		resolver:    resolver,
		cache:       mgr,
		registry:    reg,
		log:         log,
		rewrites:    opts.Rewrites,
		aliases:     opts.Aliases,
		pathMatches: make(map[string]pathMatch),
	}, nil
}

// NormalizeAssetName converts any accepted spelling of an asset name to
// its canonical form: the class qualifier is stripped, separators are
// unified, numeric mod segments become mod tags and the Content root
// becomes Game. Normalization is idempotent.
func (l *AssetLoader) NormalizeAssetName(name string) (string, error) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = strings.Trim(name, "/")

	parts := strings.Split(name, "/")
	if len(parts) > 2 && strings.EqualFold(parts[1], "Mods") && isNumeric(parts[2]) {
		tag := l.resolver.NameFromID(parts[2])
		if tag == "" {
			return "", &ModNotFoundError{Mod: parts[2]}
		}
		parts[2] = tag
	}
	if strings.EqualFold(parts[0], "Content") {
		parts[0] = "Game"
	}
	return "/" + strings.Join(parts, "/"), nil
}

// ConvertNameToPath maps a canonical asset name to a filesystem path
// under the asset root. With partial set the name is treated as a
// directory prefix and no extension is appended. When checkExists is
// set the returned path is verified on disk, falling back to a
// case-insensitive per-segment search; an empty path with a nil error
// then means "nothing on disk matches".
func (l *AssetLoader) ConvertNameToPath(name string, partial bool, ext string, checkExists bool) (string, error) {
	name, err := l.NormalizeAssetName(name)
	if err != nil {
		return "", err
	}

	for _, rw := range l.rewrites {
		if strings.HasPrefix(name, rw.From) {
			name = rw.To + name[len(rw.From):]
			break
		}
	}

	parts := strings.Split(strings.TrimPrefix(name, "/"), "/")
	if len(parts) > 2 && strings.EqualFold(parts[1], "Mods") && !isNumeric(parts[2]) {
		id := l.resolver.IDFromName(l.canonicalModTag(parts[2]))
		if id == "" {
			return "", &ModNotFoundError{Mod: parts[2]}
		}
		parts[2] = id
	}
	if strings.EqualFold(parts[0], "Game") {
		parts[0] = "Content"
	}
	if !partial {
		parts[len(parts)-1] += ext
	}

	full := filepath.Join(append([]string{l.assetPath}, parts...)...)
	if !checkExists {
		return full, nil
	}
	if info, err := os.Stat(full); err == nil && info.IsDir() == partial {
		return full, nil
	}
	if resolved, ok := l.findCaseInsensitive(l.assetPath, parts); ok {
		return resolved, nil
	}
	return "", nil
}

// ResolveModName returns the canonical mod tag of an asset name, or the
// empty string for a base-game name.
func (l *AssetLoader) ResolveModName(name string) (string, error) {
	name, err := l.NormalizeAssetName(name)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimPrefix(name, "/"), "/")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "Game") || !strings.EqualFold(parts[1], "Mods") {
		return "", nil
	}
	return l.canonicalModTag(parts[2]), nil
}

// ResolveModID returns the numeric mod id of an asset name, or the
// empty string for a base-game name. An unmapped tag is an error.
func (l *AssetLoader) ResolveModID(name string) (string, error) {
	tag, err := l.ResolveModName(name)
	if err != nil || tag == "" {
		return "", err
	}
	if isNumeric(tag) {
		return tag, nil
	}
	id := l.resolver.IDFromName(tag)
	if id == "" {
		return "", &ModNotFoundError{Mod: tag}
	}
	return id, nil
}

func (l *AssetLoader) canonicalModTag(tag string) string {
	if canonical, ok := l.aliases[strings.ToLower(tag)]; ok {
		return canonical
	}
	return tag
}

// LoadRawAsset finds the container file for a canonical name and loads
// its bytes. Candidate extensions are tried in fixed order; the caller
// owns the returned buffer and must Release it.
func (l *AssetLoader) LoadRawAsset(name string) (*stream.Buffer, string, error) {
	name, err := l.NormalizeAssetName(name)
	if err != nil {
		return nil, "", err
	}
	for _, ext := range []string{ExtAsset, ExtMap} {
		path, err := l.ConvertNameToPath(name, false, ext, true)
		if err != nil {
			return nil, "", err
		}
		if path == "" {
			continue
		}
		buf, err := stream.LoadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
		return buf, ext, nil
	}
	return nil, "", &AssetNotFoundError{Asset: name}
}

// LoadAsset returns the fully parsed and linked asset for name, from
// cache when possible.
func (l *AssetLoader) LoadAsset(name string) (*ue.Asset, error) {
	return l.load(name, ue.ModeFull)
}

// PartiallyLoadAsset returns the asset parsed without reference linking
// or template selection. Cheaper when only raw tables are needed; a
// later full load transparently re-parses.
func (l *AssetLoader) PartiallyLoadAsset(name string) (*ue.Asset, error) {
	return l.load(name, ue.ModePartial)
}

func (l *AssetLoader) load(name string, mode ue.ParseMode) (*ue.Asset, error) {
	name, err := l.NormalizeAssetName(name)
	if err != nil {
		return nil, err
	}
	if asset := l.cache.Lookup(name, mode); asset != nil {
		return asset, nil
	}

	asset, err := l.parse(name, mode)
	if err != nil {
		return nil, err
	}
	l.cache.Add(name, asset)
	l.trackStats()
	return asset, nil
}

// parse runs the load pipeline on a normalized name. Failed parses are
// never cached.
func (l *AssetLoader) parse(name string, mode ue.ParseMode) (*ue.Asset, error) {
	l.log.Debug("Loading asset", zap.String("asset", name), zap.Stringer("mode", mode))

	buf, ext, err := l.LoadRawAsset(name)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	asset, err := ue.Deserialize(buf.Reader(), name, ext)
	if err != nil {
		return nil, &ParseError{Asset: name, Err: err}
	}
	if mode == ue.ModePartial {
		return asset, nil
	}
	if err := asset.Link(); err != nil {
		return nil, &ParseError{Asset: name, Err: err}
	}
	asset.SelectDefaultExport(l.log)
	return asset, nil
}

// LoadClass loads the asset named by the dotted fullname and returns
// the export the qualifier selects.
func (l *AssetLoader) LoadClass(fullname string) (*ue.Export, error) {
	dot := strings.LastIndexByte(fullname, '.')
	if dot < 0 {
		return nil, fmt.Errorf("class name %q has no export qualifier", fullname)
	}
	assetName, exportName := fullname[:dot], fullname[dot+1:]

	asset, err := l.LoadAsset(assetName)
	if err != nil {
		return nil, err
	}
	export := asset.FindExport(exportName)
	if export == nil {
		return nil, &ExportNotFoundError{Asset: asset.Name, Export: exportName}
	}
	return export, nil
}

// LoadRelated loads the container that defines the object behind a
// reference-shaped value: an import, a resolved reference or an object
// property value.
func (l *AssetLoader) LoadRelated(obj any) (*ue.Asset, error) {
	switch obj := obj.(type) {
	case *ue.Import:
		pkg := obj.PackageName()
		if pkg == "" {
			return nil, fmt.Errorf("import %q has no package outer", obj.Name)
		}
		return l.LoadAsset(pkg)
	case *ue.Reference:
		if obj.Import != nil {
			return l.LoadRelated(obj.Import)
		}
		if obj.Export != nil {
			return obj.Export.Asset, nil
		}
		return nil, fmt.Errorf("cannot load a null reference")
	case *ue.ObjectValue:
		if obj.Resolved == nil {
			return nil, fmt.Errorf("object value is not linked")
		}
		return l.LoadRelated(obj.Resolved)
	default:
		return nil, fmt.Errorf("cannot load related asset for %T", obj)
	}
}

// InstantiateProxy materializes a default-seeded proxy for the export's
// declared class, or nil when the class has no registered type.
func (l *AssetLoader) InstantiateProxy(export *ue.Export) *proxy.Proxy {
	return l.registry.FromExport(export)
}

// Remove drops a single asset from the cache.
func (l *AssetLoader) Remove(name string) error {
	name, err := l.NormalizeAssetName(name)
	if err != nil {
		return err
	}
	l.cache.Remove(name)
	return nil
}

// WipeCache clears the whole cache.
func (l *AssetLoader) WipeCache() {
	l.cache.Wipe("")
}

// WipeCachePrefix drops every cached asset under the given canonical
// name prefix, typically one mod's subtree.
func (l *AssetLoader) WipeCachePrefix(prefix string) {
	l.cache.Wipe(prefix)
}

// CachedCount returns the current number of cached assets.
func (l *AssetLoader) CachedCount() int {
	return l.cache.Count()
}

// Stats returns the high-water marks seen so far: heap bytes in use and
// cached asset count. Informational only.
func (l *AssetLoader) Stats() (heap uint64, cached int) {
	return l.maxHeapSeen, l.maxCacheSeen
}

func (l *AssetLoader) trackStats() {
	if n := l.cache.Count(); n > l.maxCacheSeen {
		l.maxCacheSeen = n
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapInuse > l.maxHeapSeen {
		l.maxHeapSeen = ms.HeapInuse
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
