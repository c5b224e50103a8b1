package resultcache

// Config holds configuration for the extraction result cache.
type Config struct {
	// Path is the sqlite database file backing the cache.
	Path string `mapstructure:"path" default:"resultcache.db"`
}
