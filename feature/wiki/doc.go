// Package wiki derives publishable game data from parsed assets.
//
// It turns proxied species, structures and drop inventories into stable
// JSON documents: cloning costs, drop tables and per-asset summaries.
// Derived documents flow through the persistent result cache so reruns
// over unchanged inputs are free, and can be published to object
// storage for downstream consumers.
//
// # Components
//
//   - Cloning and drop table decoding over proxy field sets.
//   - Exporter: versioned generate-if-changed export and publishing.
//   - Service and Handler: the HTTP inspection API.
package wiki
