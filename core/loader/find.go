package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// errStopWalk aborts the directory walk when the consumer stops pulling.
var errStopWalk = errors.New("walk stopped by consumer")

// FindOptions filter a recursive asset scan. Includes beat excludes:
// a name matching any include is yielded even if an exclude also
// matches it. Invert flips the final decision, yielding exactly the
// names a normal scan would skip.
type FindOptions struct {
	Includes   []string
	Excludes   []string
	Extensions []string
	Invert     bool
}

// FindAssetNames walks the filesystem subtree behind the given
// canonical name prefix and lazily yields the canonical names of every
// matching container file, in directory-walk order. Filter regexes are
// anchored at the start of the name. Nothing is parsed or cached.
func (l *AssetLoader) FindAssetNames(root string, opts FindOptions) (iter.Seq[string], error) {
	includes, err := compileAnchored(opts.Includes)
	if err != nil {
		return nil, err
	}
	excludes, err := compileAnchored(opts.Excludes)
	if err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{ExtAsset}
	}
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	top, err := l.ConvertNameToPath(root, true, "", true)
	if err != nil {
		return nil, err
	}
	if top == "" {
		return nil, &AssetNotFoundError{Asset: root}
	}

	return func(yield func(string) bool) {
		filepath.WalkDir(top, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			ext := filepath.Ext(path)
			if !wanted[strings.ToLower(ext)] {
				return nil
			}

			name, err := l.nameFromPath(strings.TrimSuffix(path, ext))
			if err != nil {
				// An unregistered mod directory poisons every name under
				// it; skip the entries rather than abort the whole scan.
				l.log.Warn("Skipping unresolvable path during scan",
					zap.String("path", path), zap.Error(err))
				return nil
			}

			keep := keepDecision(includes, excludes, name)
			if opts.Invert {
				keep = !keep
			}
			if !keep {
				return nil
			}
			if !yield(name) {
				return errStopWalk
			}
			return nil
		})
	}, nil
}

// keepDecision applies the include-beats-exclude rule.
func keepDecision(includes, excludes []*regexp.Regexp, name string) bool {
	if matchesAny(includes, name) {
		return true
	}
	if matchesAny(excludes, name) {
		return false
	}
	return true
}

// nameFromPath converts an extension-less filesystem path under the
// asset root back to a canonical asset name, undoing any path rewrites.
func (l *AssetLoader) nameFromPath(path string) (string, error) {
	rel, err := filepath.Rel(l.assetPath, path)
	if err != nil {
		return "", err
	}
	name, err := l.NormalizeAssetName(filepath.ToSlash(rel))
	if err != nil {
		return "", err
	}
	for _, rw := range l.rewrites {
		if strings.HasPrefix(name, rw.To) {
			name = rw.From + name[len(rw.To):]
			break
		}
	}
	return name, nil
}

func compileAnchored(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")")
		if err != nil {
			return nil, fmt.Errorf("bad filter pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(res []*regexp.Regexp, name string) bool {
	for _, re := range res {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
