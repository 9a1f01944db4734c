// Package vfs models the origin-private sandbox store as a graph of live
// directory and file handles, and provides the path navigation, tree
// materialization, and stats aggregation that the bridge operations are
// built on.
//
// Handles are scoped to a single operation: callers resolve from the sandbox
// root on every call and never retain a handle across operations, so an
// external mutation can never leave a stale reference behind.
package vfs
