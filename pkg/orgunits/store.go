package orgunits

import "context"

// Store is the persistence contract for organization units and their
// memberships. Unit lookups for a missing unit fail with ErrUnitNotFound.
type Store interface {
	// FindUnitByID loads a unit by id within a tenant.
	FindUnitByID(ctx context.Context, tenantID, unitID int64) (*OrganizationUnit, error)

	// FindUnitsByCodePrefix returns every unit whose code starts with prefix
	// as a raw string (SQL `code LIKE prefix || '%'`), including the unit
	// owning the prefix itself.
	FindUnitsByCodePrefix(ctx context.Context, tenantID int64, prefix string) ([]*OrganizationUnit, error)

	// GetUserUnitIDs returns the ids of every unit the user is a direct
	// member of.
	GetUserUnitIDs(ctx context.Context, tenantID, userID int64) ([]int64, error)

	// CountUserMemberships returns the user's direct membership count.
	CountUserMemberships(ctx context.Context, tenantID, userID int64) (int, error)

	// GetMemberIDs returns the user ids directly in the unit.
	GetMemberIDs(ctx context.Context, tenantID, unitID int64) ([]int64, error)

	// AddMember inserts a membership. An existing pair is a no-op
	// (ON CONFLICT DO NOTHING).
	AddMember(ctx context.Context, tenantID, userID, unitID int64) error

	// RemoveMember deletes a membership. Zero matches is a no-op.
	RemoveMember(ctx context.Context, tenantID, userID, unitID int64) error
}
