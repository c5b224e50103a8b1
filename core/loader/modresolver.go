package loader

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ModResolver translates between numeric mod ids (directory names on
// disk) and canonical mod tags (path segments in asset names). Lookups
// return the empty string on a miss; callers turn that into a
// ModNotFoundError.
type ModResolver interface {
	Initialise() error
	NameFromID(id string) string
	IDFromName(name string) string
}

// IniModResolver reads the id-to-tag map from the "ids" section of an
// ini file, the same file the game tooling ships.
type IniModResolver struct {
	path     string
	idToName map[string]string
	nameToID map[string]string
}

func NewIniModResolver(path string) *IniModResolver {
	return &IniModResolver{path: path}
}

func (r *IniModResolver) Initialise() error {
	v := viper.New()
	v.SetConfigFile(r.path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading mods file %s: %w", r.path, err)
	}

	ids := v.GetStringMapString("ids")
	r.idToName = make(map[string]string, len(ids))
	r.nameToID = make(map[string]string, len(ids))
	for id, name := range ids {
		r.idToName[id] = name
		r.nameToID[strings.ToLower(name)] = id
	}
	return nil
}

func (r *IniModResolver) NameFromID(id string) string {
	return r.idToName[id]
}

// IDFromName matches mod tags case-insensitively, as asset names are
// compared without case.
func (r *IniModResolver) IDFromName(name string) string {
	return r.nameToID[strings.ToLower(name)]
}

// StaticModResolver serves a fixed id-to-tag map. Used by tests and by
// embedding tools that already know their mod set.
type StaticModResolver struct {
	idToName map[string]string
	nameToID map[string]string
}

func NewStaticModResolver(idToName map[string]string) *StaticModResolver {
	r := &StaticModResolver{
		idToName: make(map[string]string, len(idToName)),
		nameToID: make(map[string]string, len(idToName)),
	}
	for id, name := range idToName {
		r.idToName[id] = name
		r.nameToID[strings.ToLower(name)] = id
	}
	return r
}

func (r *StaticModResolver) Initialise() error { return nil }

func (r *StaticModResolver) NameFromID(id string) string {
	return r.idToName[id]
}

func (r *StaticModResolver) IDFromName(name string) string {
	return r.nameToID[strings.ToLower(name)]
}
