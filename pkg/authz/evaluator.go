package authz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/gatehouse/pkg/cache"
	"github.com/platinummonkey/gatehouse/pkg/features"
	"github.com/platinummonkey/gatehouse/pkg/identity"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/tenancy"
)

var tracer = otel.Tracer("github.com/platinummonkey/gatehouse/pkg/authz")

// DefaultWarmConcurrency bounds how many users Warm loads in parallel.
const DefaultWarmConcurrency = 8

// EvaluatorConfig wires an Evaluator.
type EvaluatorConfig struct {
	// Catalog holds every permission definition. Required.
	Catalog *Catalog

	// Users loads users and their role memberships. It must also implement
	// PermissionStore; NewEvaluator fails otherwise. Required.
	Users identity.UserStore

	// Roles resolves role names to role records. Required.
	Roles identity.RoleStore

	// RoleGrants answers role-level permission grants. Required.
	RoleGrants RolePermissionReader

	// Cache holds permission snapshots per user and tenant. Required.
	Cache cache.Cache[*CacheItem]

	// Features evaluates permission feature dependencies. Optional; when nil,
	// feature-gated permissions are denied on the tenant side.
	Features features.Checker

	// Metrics records evaluation counters. Optional.
	Metrics *observability.Metrics

	// Log may be nil.
	Log *logrus.Logger

	// WarmConcurrency bounds Warm's parallelism; 0 means
	// DefaultWarmConcurrency.
	WarmConcurrency int
}

// Evaluator answers permission checks with the precedence
//
//	user grant > user prohibition > role grant > deny
//
// backed by a single-flight permission snapshot cache.
type Evaluator struct {
	catalog    *Catalog
	users      identity.UserStore
	perms      PermissionStore
	roles      identity.RoleStore
	roleGrants RolePermissionReader
	cache      cache.Cache[*CacheItem]
	features   features.Checker
	metrics    *observability.Metrics
	log        *logrus.Logger
	warmLimit  int
}

// NewEvaluator creates an evaluator. The user store must implement
// PermissionStore; a store without that capability fails with
// ErrPermissionStoreRequired.
func NewEvaluator(cfg EvaluatorConfig) (*Evaluator, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("authz: catalog is required")
	}
	if cfg.Users == nil {
		return nil, fmt.Errorf("authz: user store is required")
	}
	if cfg.Roles == nil {
		return nil, fmt.Errorf("authz: role store is required")
	}
	if cfg.RoleGrants == nil {
		return nil, fmt.Errorf("authz: role permission reader is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("authz: cache is required")
	}

	perms, ok := cfg.Users.(PermissionStore)
	if !ok {
		return nil, fmt.Errorf("user store %T: %w", cfg.Users, ErrPermissionStoreRequired)
	}

	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	warmLimit := cfg.WarmConcurrency
	if warmLimit <= 0 {
		warmLimit = DefaultWarmConcurrency
	}

	return &Evaluator{
		catalog:    cfg.Catalog,
		users:      cfg.Users,
		perms:      perms,
		roles:      cfg.Roles,
		roleGrants: cfg.RoleGrants,
		cache:      cfg.Cache,
		features:   cfg.Features,
		metrics:    cfg.Metrics,
		log:        log,
		warmLimit:  warmLimit,
	}, nil
}

// IsGranted reports whether the user holds the named permission under the
// given tenant context. A user that does not exist evaluates to false, not
// an error. Unknown permission names fail with ErrPermissionNotFound.
func (e *Evaluator) IsGranted(ctx context.Context, tc tenancy.TenantContext, userID int64, permissionName string) (granted bool, err error) {
	ctx, span := tracer.Start(ctx, "authz.IsGranted", trace.WithAttributes(
		attribute.String("authz.permission", permissionName),
		attribute.Int64("authz.user_id", userID),
		attribute.Int64("authz.tenant_id", tc.TenantID),
		attribute.String("authz.side", tc.Side.String()),
	))
	start := time.Now()
	defer func() {
		span.SetAttributes(attribute.Bool("authz.granted", granted))
		span.End()
		if err == nil && e.metrics != nil {
			e.metrics.RecordEvaluation(tc.Side.String(), granted, time.Since(start).Seconds())
		}
	}()

	perm, err := e.catalog.Get(permissionName)
	if err != nil {
		return false, err
	}

	// Side check: a permission scoped to the other side is never granted.
	if !perm.Sides.Includes(tc.Side) {
		e.logDecision(tc, userID, permissionName, false, "side mismatch")
		return false, nil
	}

	// Feature check, tenant side only.
	if tc.Side == tenancy.SideTenant && perm.Feature != nil {
		satisfied, err := e.featureSatisfied(ctx, perm, tc.TenantID)
		if err != nil {
			return false, err
		}
		if !satisfied {
			e.logDecision(tc, userID, permissionName, false, "feature dependency unsatisfied")
			return false, nil
		}
	}

	item, err := e.GetCacheItem(ctx, tc, userID)
	if err != nil {
		return false, err
	}
	if item == nil {
		// Missing user: deny without error.
		e.logDecision(tc, userID, permissionName, false, "user not found")
		return false, nil
	}

	if item.IsGranted(permissionName) {
		e.logDecision(tc, userID, permissionName, true, "user grant")
		return true, nil
	}

	// A user-level prohibition beats every role grant.
	if item.IsProhibited(permissionName) {
		e.logDecision(tc, userID, permissionName, false, "user prohibition")
		return false, nil
	}

	for _, roleID := range item.RoleIDs {
		roleGranted, err := e.roleGrants.IsRoleGranted(ctx, tc.TenantID, roleID, permissionName)
		if err != nil {
			return false, fmt.Errorf("failed to check role %d grant for %q: %w", roleID, permissionName, err)
		}
		if roleGranted {
			e.logDecision(tc, userID, permissionName, true, "role grant")
			return true, nil
		}
	}

	e.logDecision(tc, userID, permissionName, false, "default deny")
	return false, nil
}

func (e *Evaluator) featureSatisfied(ctx context.Context, perm Permission, tenantID int64) (bool, error) {
	if e.features == nil {
		e.log.WithField("permission", perm.Name).
			Warn("Permission has a feature dependency but no feature checker is configured; denying")
		return false, nil
	}
	satisfied, err := perm.Feature.IsSatisfied(ctx, e.features, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate feature dependency of %q: %w", perm.Name, err)
	}
	return satisfied, nil
}

// GetCacheItem returns the user's permission snapshot, populating the cache
// on a miss. A missing user returns (nil, nil).
func (e *Evaluator) GetCacheItem(ctx context.Context, tc tenancy.TenantContext, userID int64) (*CacheItem, error) {
	key := CacheKey(userID, tc.TenantID)
	item, err := e.cache.GetOrLoad(ctx, key, func(ctx context.Context) (*CacheItem, error) {
		return e.buildCacheItem(ctx, tc.TenantID, userID)
	})
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if e.metrics != nil {
		stats := e.cache.Stats()
		e.metrics.UpdateCacheStats(stats.Hits, stats.Misses, stats.Invalidations, stats.ItemCount)
	}
	return item, nil
}

// buildCacheItem loads the snapshot from the stores. Errors are never
// cached, so a missing user stays uncached and is retried on the next check.
func (e *Evaluator) buildCacheItem(ctx context.Context, tenantID, userID int64) (*CacheItem, error) {
	user, err := e.users.FindUserByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	roleNames, err := e.users.GetUserRoleNames(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles of user %d: %w", userID, err)
	}

	roleIDs := make([]int64, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := e.roles.FindRoleByName(ctx, tenantID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve role %q: %w", name, err)
		}
		roleIDs = append(roleIDs, role.ID)
	}

	grants, err := e.perms.GetPermissionGrants(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission grants of user %d: %w", userID, err)
	}

	item := &CacheItem{
		UserID:   user.ID,
		TenantID: tenantID,
		RoleIDs:  roleIDs,
	}

	seenGranted := make(map[string]struct{})
	seenProhibited := make(map[string]struct{})
	for _, g := range grants {
		if g.IsGranted {
			if _, dup := seenGranted[g.Name]; dup {
				continue
			}
			seenGranted[g.Name] = struct{}{}
			item.Granted = append(item.Granted, g.Name)
		} else {
			if _, dup := seenProhibited[g.Name]; dup {
				continue
			}
			seenProhibited[g.Name] = struct{}{}
			item.Prohibited = append(item.Prohibited, g.Name)
		}
	}
	sort.Strings(item.Granted)
	sort.Strings(item.Prohibited)

	return item, nil
}

// GetGrantedPermissions returns every catalog permission the user currently
// holds under the tenant context, in definition order.
func (e *Evaluator) GetGrantedPermissions(ctx context.Context, tc tenancy.TenantContext, userID int64) ([]Permission, error) {
	ctx, span := tracer.Start(ctx, "authz.GetGrantedPermissions", trace.WithAttributes(
		attribute.Int64("authz.user_id", userID),
		attribute.Int64("authz.tenant_id", tc.TenantID),
	))
	defer span.End()

	var granted []Permission
	for _, perm := range e.catalog.All() {
		ok, err := e.IsGranted(ctx, tc, userID, perm.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, perm)
		}
	}
	return granted, nil
}

// Invalidate evicts the cached snapshot for one user.
func (e *Evaluator) Invalidate(ctx context.Context, tc tenancy.TenantContext, userID int64) error {
	if err := e.cache.Invalidate(ctx, CacheKey(userID, tc.TenantID)); err != nil {
		return fmt.Errorf("failed to invalidate permission cache for user %d: %w", userID, err)
	}
	return nil
}

// Warm pre-populates the cache for a set of users, bounding parallelism.
// Missing users are skipped; the first store failure aborts the warm.
func (e *Evaluator) Warm(ctx context.Context, tc tenancy.TenantContext, userIDs []int64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.warmLimit)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			_, err := e.GetCacheItem(ctx, tc, userID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to warm permission cache: %w", err)
	}
	return nil
}

func (e *Evaluator) logDecision(tc tenancy.TenantContext, userID int64, permission string, granted bool, reason string) {
	e.log.WithFields(logrus.Fields{
		"permission": permission,
		"user_id":    userID,
		"tenant_id":  tc.TenantID,
		"side":       tc.Side.String(),
		"granted":    granted,
		"reason":     reason,
	}).Debug("Permission evaluated")
}
