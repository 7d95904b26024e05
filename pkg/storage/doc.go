// Package storage defines the persistence surface of the authorization
// subsystem and provides an in-memory implementation of it.
//
// The Store interface is the union of every per-package persistence
// contract (identity.UserStore, identity.RoleStore, authz.PermissionStore,
// authz.RolePermissionReader, orgunits.Store, features.ValueStore) plus the
// Writer provisioning operations. One backend serves all of them, so any
// Store passed as the evaluator's user store also satisfies the
// PermissionStore capability the evaluator asserts at construction.
//
// Memory is the reference implementation: a map-backed store for tests and
// single-node embeddings. The production PostgreSQL implementation lives in
// the postgres subpackage and shares this package's semantics, including the
// raw code-prefix descendant matching of organization units.
package storage
