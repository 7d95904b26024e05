package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType categorizes an authorization audit event.
type EventType string

const (
	// Permission mutation events
	EventPermissionGranted    EventType = "authz.permission_granted"
	EventPermissionProhibited EventType = "authz.permission_prohibited"
	EventPermissionsReset     EventType = "authz.permissions_reset"
	EventPermissionsSet       EventType = "authz.permissions_set"

	// Role synchronization events
	EventRoleAssigned   EventType = "authz.role_assigned"
	EventRoleUnassigned EventType = "authz.role_unassigned"

	// Organization unit membership events
	EventUnitMemberAdded   EventType = "orgunits.member_added"
	EventUnitMemberRemoved EventType = "orgunits.member_removed"
)

// EventStatus is the outcome of the audited operation.
type EventStatus string

const (
	StatusSuccess EventStatus = "success"
	StatusFailure EventStatus = "failure"
	StatusDenied  EventStatus = "denied"
)

// Event is a single audit trail entry.
type Event struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Status    EventStatus `json:"status"`

	TenantID int64 `json:"tenant_id"`
	UserID   int64 `json:"user_id"`

	// Subject of the event, depending on type.
	Permission string `json:"permission,omitempty"`
	Role       string `json:"role,omitempty"`
	UnitID     int64  `json:"unit_id,omitempty"`

	Message  string                 `json:"message,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// New creates an event with a fresh id and the current UTC timestamp.
func New(eventType EventType, tenantID, userID int64) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Status:    StatusSuccess,
		TenantID:  tenantID,
		UserID:    userID,
	}
}

// WithPermission sets the permission subject.
func (e *Event) WithPermission(name string) *Event {
	e.Permission = name
	return e
}

// WithRole sets the role subject.
func (e *Event) WithRole(name string) *Event {
	e.Role = name
	return e
}

// WithUnit sets the organization unit subject.
func (e *Event) WithUnit(unitID int64) *Event {
	e.UnitID = unitID
	return e
}

// WithStatus overrides the default success status.
func (e *Event) WithStatus(status EventStatus) *Event {
	e.Status = status
	return e
}

// WithMessage sets a human-readable message.
func (e *Event) WithMessage(msg string) *Event {
	e.Message = msg
	return e
}

// SearchFilter narrows a Search call. Zero values mean "no constraint".
type SearchFilter struct {
	TenantID   *int64
	UserID     *int64
	Types      []EventType
	Status     *EventStatus
	Permission string
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

// Stats aggregates event counts over a time window.
type Stats struct {
	TotalEvents   int64               `json:"total_events"`
	ByType        map[EventType]int64 `json:"by_type"`
	ByStatus      map[EventStatus]int64 `json:"by_status"`
	UniqueUsers   int64               `json:"unique_users"`
	UniqueTenants int64               `json:"unique_tenants"`
}

// ExportFormat selects the serialization of an export.
type ExportFormat string

const (
	ExportJSON   ExportFormat = "json"
	ExportNDJSON ExportFormat = "ndjson"
	ExportCSV    ExportFormat = "csv"
)
