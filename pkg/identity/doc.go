// Package identity defines the user and role model shared by the
// authorization packages, the store contracts that back it, and the guards
// (duplicate detection, protected-account rules, aggregated validation) that
// account-management operations run before mutating the store.
//
// Authorization code depends only on the UserIdentity and RoleIdentity
// interfaces and the UserStore/RoleStore contracts; concrete persistence
// lives in pkg/storage.
package identity
