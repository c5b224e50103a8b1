// Package config provides configuration management for the asset
// extractor.
//
// It utilizes Viper for loading configuration from environment
// variables and an optional .env file, with defaults declared as struct
// tags on each section's Config type.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Assets: content root and mod map location
//   - Cache: in-memory asset cache bounds
//   - ResultCache: persistent extraction result cache
//   - Log: logging level and format
//   - Server: HTTP inspection server settings
//   - Storage: S3/MinIO credentials for export publishing
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Assets.Root)
package config
