package tenancy

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Resolver determines the current tenant id and multi-tenancy side for an
// operation. An active unit of work on the context wins over the ambient
// session.
type Resolver struct {
	multiTenancyEnabled bool
	session             Session
	log                 *logrus.Logger
}

// NewResolver creates a resolver. session may be nil when callers always bind
// a unit of work; log may be nil.
func NewResolver(multiTenancyEnabled bool, session Session, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{
		multiTenancyEnabled: multiTenancyEnabled,
		session:             session,
		log:                 log,
	}
}

// Resolve computes the TenantContext for the current operation. The side is
// Host exactly when multi-tenancy is enabled and no tenant id is bound; with
// multi-tenancy disabled the deployment always runs as a single tenant.
//
// Call Resolve once per operation and reuse the returned value for every step
// of that operation.
func (r *Resolver) Resolve(ctx context.Context) TenantContext {
	var tenantID *int64
	source := "default"

	if uow, ok := UnitOfWorkFrom(ctx); ok {
		tenantID = uow.TenantID
		source = "unit_of_work"
	} else if r.session != nil {
		tenantID = r.session.TenantID()
		source = "session"
	}

	if r.multiTenancyEnabled && tenantID == nil {
		r.log.WithFields(logrus.Fields{
			"source": source,
			"side":   SideHost.String(),
		}).Debug("resolved host-side tenant context")
		return Host()
	}

	id := HostTenantID
	if tenantID != nil {
		id = *tenantID
	}

	r.log.WithFields(logrus.Fields{
		"source":    source,
		"side":      SideTenant.String(),
		"tenant_id": id,
	}).Debug("resolved tenant-side tenant context")

	return TenantContext{TenantID: id, Side: SideTenant}
}
