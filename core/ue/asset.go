package ue

import (
	"fmt"
	"strings"

	"asset-extractor/core/stream"

	"go.uber.org/zap"
)

const (
	// PackageTag is the magic number opening every container.
	PackageTag = 0x9E2A83C1
	// SupportedVersion is the container layout version this deserializer
	// understands.
	SupportedVersion = 5

	// defaultExportPrefix marks blueprint-style template instances.
	defaultExportPrefix = "Default__"

	// classPackage is the class name of package-level imports; the outer
	// chain of every import terminates in one, and its object name is the
	// asset name of the container that defines the imported object.
	classPackage = "Package"
)

// Asset is one fully deserialized container: the name table, the import
// and export tables and every export's decoded properties. It is mutated
// only by the deserialize and link phases; afterwards consumers treat it
// as read-only.
type Asset struct {
	// Name is the canonical asset name this container was loaded under.
	Name string
	// LeafName is the final path segment of Name.
	LeafName string
	// FileExt is the container extension the bytes came from.
	FileExt string
	// Mode records whether the asset was linked (see ParseMode).
	Mode ParseMode

	Names   []string
	Imports []*Import
	Exports []*Export

	// DefaultExport is the template/default instance of the class this
	// container defines, when one exists.
	DefaultExport *Export
	// DefaultClass is the class of DefaultExport, when linked.
	DefaultClass *Reference

	// serialOffsets maps export table position to the byte offset its
	// property data was decoded from, for diagnostics.
	serialOffsets map[int]uint32
}

// Import is a reference to an object defined in another container. The
// loader resolves it lazily by loading that container on demand.
type Import struct {
	Index        int
	ClassPackage string
	ClassName    string
	OuterRef     PackedIndex
	Name         string

	// Outer is populated by the link phase for non-package imports.
	Outer *Import
}

// PackageName returns the asset name of the container that defines the
// imported object, by walking the outer chain to its package import.
// Works on unlinked assets only through the owning asset; prefer the
// linked Outer chain.
func (i *Import) PackageName() string {
	cur := i
	for cur.Outer != nil {
		cur = cur.Outer
	}
	if cur.ClassName == classPackage {
		return cur.Name
	}
	return ""
}

// Export is one serialized object defined in this container.
type Export struct {
	Asset *Asset
	Index int
	Name  string

	ClassRef PackedIndex
	SuperRef PackedIndex
	OuterRef PackedIndex

	SerialSize   uint32
	SerialOffset uint32

	Properties *PropertyTable

	// Extra holds type-specific trailing payload decoded after the
	// property table (for example instanced geometry placements).
	Extra any

	// Linked relationships.
	Class *Reference
	Super *Reference
	Outer *Export
}

// FullName returns the dotted object path of the export.
func (e *Export) FullName() string {
	return e.Asset.Name + "." + e.Name
}

// IsTopLevel reports whether the export has no namespace.
func (e *Export) IsTopLevel() bool {
	return e.OuterRef.IsNull()
}

// Reference is a resolved object reference: exactly one of Export or
// Import is set, or neither for a null reference.
type Reference struct {
	Export *Export
	Import *Import
}

// IsNull reports an unresolvable or null reference.
func (r *Reference) IsNull() bool {
	return r == nil || (r.Export == nil && r.Import == nil)
}

// Name returns the referenced object's name.
func (r *Reference) Name() string {
	switch {
	case r == nil:
		return ""
	case r.Export != nil:
		return r.Export.Name
	case r.Import != nil:
		return r.Import.Name
	default:
		return ""
	}
}

// FullName returns the dotted object path of the referenced object,
// crossing into the defining container for imports.
func (r *Reference) FullName() string {
	switch {
	case r == nil:
		return ""
	case r.Export != nil:
		return r.Export.FullName()
	case r.Import != nil:
		if pkg := r.Import.PackageName(); pkg != "" && pkg != r.Import.Name {
			return pkg + "." + r.Import.Name
		}
		return r.Import.Name
	default:
		return ""
	}
}

// Deserialize runs phase one over the buffer behind r: header, name table,
// import table, export table and every export's property data. It does not
// resolve references; call Link for that. A returned error means the asset
// is unusable and must be discarded.
func Deserialize(r *stream.Reader, name, ext string) (*Asset, error) {
	a := &Asset{
		Name:          name,
		LeafName:      leafOf(name),
		FileExt:       ext,
		Mode:          ModePartial,
		serialOffsets: make(map[int]uint32),
	}

	if err := a.readHeaderAndTables(r); err != nil {
		return nil, err
	}

	for _, export := range a.Exports {
		r.Seek(int(export.SerialOffset))
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("export %q: %w", export.Name, err)
		}
		a.serialOffsets[export.Index] = export.SerialOffset

		table, err := a.readPropertyTable(r)
		if err != nil {
			return nil, fmt.Errorf("export %q: %w", export.Name, err)
		}
		export.Properties = table

		// Some object types append a specialized binary payload after
		// their declared properties.
		if parse := afterPropertyTable[a.classNameOf(export.ClassRef)]; parse != nil {
			if err := parse(r, export); err != nil {
				return nil, fmt.Errorf("export %q: %w", export.Name, err)
			}
		}
	}

	return a, nil
}

func (a *Asset) readHeaderAndTables(r *stream.Reader) error {
	tag := r.UInt32()
	if err := r.Err(); err != nil {
		return err
	}
	if tag != PackageTag {
		return fmt.Errorf("not a package file: tag %#x", tag)
	}
	version := r.UInt32()
	if version != SupportedVersion {
		return fmt.Errorf("unsupported container version %d", version)
	}

	nameCount := int(r.UInt32())
	nameOffset := int(r.UInt32())
	importCount := int(r.UInt32())
	importOffset := int(r.UInt32())
	exportCount := int(r.UInt32())
	exportOffset := int(r.UInt32())
	if err := r.Err(); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	r.Seek(nameOffset)
	a.Names = make([]string, 0, nameCount)
	for i := 0; i < nameCount; i++ {
		a.Names = append(a.Names, r.String())
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("name table: %w", err)
	}

	r.Seek(importOffset)
	a.Imports = make([]*Import, 0, importCount)
	for i := 0; i < importCount; i++ {
		classPkg, err := a.readName(r)
		if err != nil {
			return fmt.Errorf("import %d: %w", i, err)
		}
		className, err := a.readName(r)
		if err != nil {
			return fmt.Errorf("import %d: %w", i, err)
		}
		outer := PackedIndex(r.Int32())
		objectName, err := a.readName(r)
		if err != nil {
			return fmt.Errorf("import %d: %w", i, err)
		}
		a.Imports = append(a.Imports, &Import{
			Index:        i,
			ClassPackage: classPkg,
			ClassName:    className,
			OuterRef:     outer,
			Name:         objectName,
		})
	}

	r.Seek(exportOffset)
	a.Exports = make([]*Export, 0, exportCount)
	for i := 0; i < exportCount; i++ {
		class := PackedIndex(r.Int32())
		super := PackedIndex(r.Int32())
		outer := PackedIndex(r.Int32())
		objectName, err := a.readName(r)
		if err != nil {
			return fmt.Errorf("export %d: %w", i, err)
		}
		size := r.UInt32()
		offset := r.UInt32()
		if err := r.Err(); err != nil {
			return fmt.Errorf("export %d: %w", i, err)
		}
		a.Exports = append(a.Exports, &Export{
			Asset:        a,
			Index:        i,
			Name:         objectName,
			ClassRef:     class,
			SuperRef:     super,
			OuterRef:     outer,
			SerialSize:   size,
			SerialOffset: offset,
		})
	}

	return nil
}

// readName reads a name table reference.
func (a *Asset) readName(r *stream.Reader) (string, error) {
	idx := int(r.UInt32())
	if err := r.Err(); err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(a.Names) {
		return "", fmt.Errorf("name index %d outside table of %d entries", idx, len(a.Names))
	}
	return a.Names[idx], nil
}

// classNameOf returns the name of the object a packed class reference
// points at, without requiring the asset to be linked.
func (a *Asset) classNameOf(ref PackedIndex) string {
	if i := ref.ImportIndex(); i >= 0 && i < len(a.Imports) {
		return a.Imports[i].Name
	}
	if i := ref.ExportIndex(); i >= 0 && i < len(a.Exports) {
		return a.Exports[i].Name
	}
	return ""
}

// Link runs phase two: every packed index in the import, export and
// property tables becomes a navigable relationship. Safe to call once,
// after Deserialize succeeded; no stream access happens here.
func (a *Asset) Link() error {
	for _, imp := range a.Imports {
		if i := imp.OuterRef.ImportIndex(); i >= 0 {
			if i >= len(a.Imports) {
				return fmt.Errorf("import %q: outer index %d out of range", imp.Name, i)
			}
			imp.Outer = a.Imports[i]
		}
	}

	for _, export := range a.Exports {
		var err error
		if export.Class, err = a.resolve(export.ClassRef); err != nil {
			return fmt.Errorf("export %q class: %w", export.Name, err)
		}
		if export.Super, err = a.resolve(export.SuperRef); err != nil {
			return fmt.Errorf("export %q super: %w", export.Name, err)
		}
		if i := export.OuterRef.ExportIndex(); i >= 0 {
			if i >= len(a.Exports) {
				return fmt.Errorf("export %q: outer index %d out of range", export.Name, i)
			}
			export.Outer = a.Exports[i]
		}
		if err := a.linkTable(export.Properties); err != nil {
			return fmt.Errorf("export %q: %w", export.Name, err)
		}
	}

	a.Mode = ModeFull
	return nil
}

func (a *Asset) resolve(ref PackedIndex) (*Reference, error) {
	if ref.IsNull() {
		return nil, nil
	}
	if i := ref.ExportIndex(); i >= 0 {
		if i >= len(a.Exports) {
			return nil, fmt.Errorf("export index %d out of range", i)
		}
		return &Reference{Export: a.Exports[i]}, nil
	}
	i := ref.ImportIndex()
	if i >= len(a.Imports) {
		return nil, fmt.Errorf("import index %d out of range", i)
	}
	return &Reference{Import: a.Imports[i]}, nil
}

func (a *Asset) linkTable(t *PropertyTable) error {
	if t == nil {
		return nil
	}
	for _, p := range t.Entries {
		if err := a.linkValue(p.Value); err != nil {
			return fmt.Errorf("property %q: %w", p.Name, err)
		}
	}
	return nil
}

func (a *Asset) linkValue(v Value) error {
	switch v := v.(type) {
	case *ObjectValue:
		ref, err := a.resolve(v.Ref)
		if err != nil {
			return err
		}
		v.Resolved = ref
	case *ArrayValue:
		for _, e := range v.Values {
			if err := a.linkValue(e); err != nil {
				return err
			}
		}
	case *StructValue:
		return a.linkTable(v.Fields)
	}
	return nil
}

// SelectDefaultExport applies the template selection rule: among top-level
// exports, prefer the Default__-prefixed one; fall back to the export named
// like the container itself, case-insensitively. Ambiguity is logged and
// resolved by table order. Absence is normal, not an error.
func (a *Asset) SelectDefaultExport(log *zap.Logger) {
	var topLevel []*Export
	for _, export := range a.Exports {
		if export.IsTopLevel() {
			topLevel = append(topLevel, export)
		}
	}

	var templates []*Export
	for _, export := range topLevel {
		if strings.HasPrefix(export.Name, defaultExportPrefix) {
			templates = append(templates, export)
		}
	}
	if len(templates) > 1 {
		log.Warn("Multiple template exports in asset", zap.String("asset", a.Name))
	}
	if len(templates) > 0 {
		a.DefaultExport = templates[0]
		a.DefaultClass = templates[0].Class
		return
	}

	var named []*Export
	for _, export := range topLevel {
		if strings.EqualFold(export.Name, a.LeafName) {
			named = append(named, export)
		}
	}
	if len(named) > 1 {
		log.Warn("Multiple exports named like the asset", zap.String("asset", a.Name))
	}
	if len(named) > 0 {
		a.DefaultExport = named[0]
		a.DefaultClass = named[0].Class
	}
}

// FindExport returns the first export with the given name, or nil.
func (a *Asset) FindExport(name string) *Export {
	for _, export := range a.Exports {
		if export.Name == name {
			return export
		}
	}
	return nil
}

func leafOf(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
