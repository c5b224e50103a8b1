// Package ue implements the binary container format: the two-phase
// parse-and-link pipeline that turns a raw asset buffer into a navigable
// object graph.
//
// # Two phases
//
// Deserialize reads the fixed header, the name table, the import and
// export tables and every export's property table sequentially from the
// byte stream. References between objects stay as packed numeric indices.
//
// Link resolves those indices into direct relationships (export to class,
// export to namespace, import to outer chain) without touching the stream
// again. The split matters because containers reference exports that
// appear later in the file, and because imports can only be followed by
// loading other containers; resolving eagerly during the byte pass would
// recurse unboundedly and leave broken state behind on failure.
//
// Callers that only need coarse structure can stop after Deserialize; the
// asset's ParseMode records this so the cache layer can tell a partial
// result from a full one.
package ue
