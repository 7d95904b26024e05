package tenancy

import "context"

// HostTenantID is the sentinel tenant id for host-side operation. Real
// tenants use positive ids.
const HostTenantID int64 = 0

// TenantContext names the tenant and side a single operation runs under.
// Resolve it once (see Resolver) and pass it explicitly through the call
// chain; it must not change mid-operation.
type TenantContext struct {
	TenantID int64
	Side     Sides
}

// Host returns the host-side tenant context.
func Host() TenantContext {
	return TenantContext{TenantID: HostTenantID, Side: SideHost}
}

// ForTenant returns a tenant-side context for the given tenant id.
func ForTenant(tenantID int64) TenantContext {
	return TenantContext{TenantID: tenantID, Side: SideTenant}
}

// IsHost reports whether the context runs on the host side.
func (tc TenantContext) IsHost() bool {
	return tc.Side == SideHost
}

// UnitOfWork is an explicit tenant binding for a logical unit of work. A nil
// TenantID means the work runs in host scope.
type UnitOfWork struct {
	TenantID *int64
}

// key is the type for context keys to prevent collisions.
type key string

const unitOfWorkKey key = "tenancy_unit_of_work"

// WithUnitOfWork binds a unit of work to the context. It takes precedence
// over the session when resolving the tenant context.
func WithUnitOfWork(ctx context.Context, uow *UnitOfWork) context.Context {
	return context.WithValue(ctx, unitOfWorkKey, uow)
}

// UnitOfWorkFrom retrieves the active unit of work, if any.
func UnitOfWorkFrom(ctx context.Context) (*UnitOfWork, bool) {
	uow, ok := ctx.Value(unitOfWorkKey).(*UnitOfWork)
	if !ok || uow == nil {
		return nil, false
	}
	return uow, true
}

// Session exposes the ambient tenant binding of the calling principal. A nil
// tenant id means the principal operates above all tenants.
type Session interface {
	TenantID() *int64
}

// StaticSession is a fixed Session, useful for tests and single-tenant
// embeddings.
type StaticSession struct {
	Tenant *int64
}

func (s StaticSession) TenantID() *int64 {
	return s.Tenant
}

// HostSession returns a session with no tenant bound.
func HostSession() StaticSession {
	return StaticSession{}
}

// TenantSession returns a session bound to the given tenant.
func TenantSession(tenantID int64) StaticSession {
	return StaticSession{Tenant: &tenantID}
}
