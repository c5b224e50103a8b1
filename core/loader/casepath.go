package loader

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// pathMatch is one memoized case-insensitive resolution step. Negative
// results are cached too, so repeated probes for a missing path never
// rescan the directory.
type pathMatch struct {
	path string
	ok   bool
}

// findCaseInsensitive resolves the given path segments under base one
// segment at a time, falling back to a case-insensitive directory scan
// when the exact-case candidate does not exist.
func (l *AssetLoader) findCaseInsensitive(base string, parts []string) (string, bool) {
	current := base
	for _, part := range parts {
		resolved, ok := l.matchSegment(filepath.Join(current, part))
		if !ok {
			return "", false
		}
		current = resolved
	}
	return current, true
}

// matchSegment resolves one candidate path against the filesystem,
// memoizing both hits and misses.
func (l *AssetLoader) matchSegment(candidate string) (string, bool) {
	if m, seen := l.pathMatches[candidate]; seen {
		return m.path, m.ok
	}

	if _, err := os.Stat(candidate); err == nil {
		l.pathMatches[candidate] = pathMatch{path: candidate, ok: true}
		return candidate, true
	}

	l.log.Debug("Performing case-insensitive scan", zap.String("path", candidate))

	parent := filepath.Dir(candidate)
	target := strings.ToLower(filepath.Base(candidate))
	entries, err := os.ReadDir(parent)
	if err == nil {
		for _, entry := range entries {
			if strings.ToLower(entry.Name()) == target {
				resolved := filepath.Join(parent, entry.Name())
				l.pathMatches[candidate] = pathMatch{path: resolved, ok: true}
				return resolved, true
			}
		}
	}

	l.pathMatches[candidate] = pathMatch{}
	return "", false
}
