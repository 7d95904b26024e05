// Package features provides per-tenant feature definitions, value
// resolution and the feature dependencies that gate permissions on tenant
// feature state.
//
// Features are defined once at startup in a Catalog. A Checker resolves the
// effective value for a tenant: the stored tenant value when one exists,
// otherwise the feature's default. Permissions reference features through a
// Dependency, evaluated by the authorization evaluator on the tenant side
// only.
package features
