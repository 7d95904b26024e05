package authz

import "errors"

var (
	// ErrPermissionNotFound is returned when a permission name is not defined
	// in the catalog.
	ErrPermissionNotFound = errors.New("authz: permission not found")

	// ErrDuplicatePermission is returned when a permission name is defined
	// twice in one catalog.
	ErrDuplicatePermission = errors.New("authz: permission already defined")

	// ErrPermissionStoreRequired is returned by NewEvaluator when the
	// configured user store does not implement PermissionStore. This is a
	// wiring bug, not a runtime condition; fail fast and fix the store.
	ErrPermissionStoreRequired = errors.New("authz: user store does not implement PermissionStore")
)
