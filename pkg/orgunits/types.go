package orgunits

import "time"

// OrganizationUnit is one node of a tenant's unit hierarchy. The hierarchy
// is encoded in Code (see code.go): a unit's descendants are exactly the
// units whose code starts with its own.
type OrganizationUnit struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	ParentID *int64 `json:"parent_id,omitempty"`

	// Code is the hierarchical path code, e.g. "00001.00002".
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDescendantOf reports whether u sits strictly below other in the
// hierarchy, by raw code prefix.
func (u *OrganizationUnit) IsDescendantOf(other *OrganizationUnit) bool {
	return u.Code != other.Code && hasCodePrefix(u.Code, other.Code)
}
