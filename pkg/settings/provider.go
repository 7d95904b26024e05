package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrSettingNotFound is returned when a setting is defined neither for the
// tenant nor at application level.
var ErrSettingNotFound = errors.New("settings: setting not defined")

// Provider answers setting lookups. GetForTenant falls back to the
// application-level value when the tenant has no override.
type Provider interface {
	// Get returns the application-level value for name.
	Get(ctx context.Context, name string) (string, error)

	// GetForTenant returns the value for name scoped to tenantID, falling
	// back to the application-level value.
	GetForTenant(ctx context.Context, tenantID int64, name string) (string, error)
}

// Int fetches an application-level setting and parses it as an integer.
func Int(ctx context.Context, p Provider, name string) (int, error) {
	raw, err := p.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse setting %q as int: %w", name, err)
	}
	return v, nil
}

// Bool fetches an application-level setting and parses it as a boolean.
func Bool(ctx context.Context, p Provider, name string) (bool, error) {
	raw, err := p.Get(ctx, name)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse setting %q as bool: %w", name, err)
	}
	return v, nil
}

// IntForTenant fetches a tenant-scoped setting and parses it as an integer.
func IntForTenant(ctx context.Context, p Provider, tenantID int64, name string) (int, error) {
	raw, err := p.GetForTenant(ctx, tenantID, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse setting %q as int: %w", name, err)
	}
	return v, nil
}

// BoolForTenant fetches a tenant-scoped setting and parses it as a boolean.
func BoolForTenant(ctx context.Context, p Provider, tenantID int64, name string) (bool, error) {
	raw, err := p.GetForTenant(ctx, tenantID, name)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse setting %q as bool: %w", name, err)
	}
	return v, nil
}

// StaticProvider serves fixed in-memory values. Safe for concurrent use.
type StaticProvider struct {
	mu     sync.RWMutex
	app    map[string]string
	tenant map[int64]map[string]string
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		app:    make(map[string]string),
		tenant: make(map[int64]map[string]string),
	}
}

// Set stores an application-level value.
func (p *StaticProvider) Set(name, value string) *StaticProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.app[name] = value
	return p
}

// SetForTenant stores a tenant-level override.
func (p *StaticProvider) SetForTenant(tenantID int64, name, value string) *StaticProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tenant[tenantID] == nil {
		p.tenant[tenantID] = make(map[string]string)
	}
	p.tenant[tenantID][name] = value
	return p
}

func (p *StaticProvider) Get(_ context.Context, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.app[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("setting %q: %w", name, ErrSettingNotFound)
}

func (p *StaticProvider) GetForTenant(_ context.Context, tenantID int64, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if overrides, ok := p.tenant[tenantID]; ok {
		if v, ok := overrides[name]; ok {
			return v, nil
		}
	}
	if v, ok := p.app[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("setting %q for tenant %d: %w", name, tenantID, ErrSettingNotFound)
}

// ChainProvider consults providers in order and returns the first defined
// value.
type ChainProvider struct {
	providers []Provider
}

// NewChainProvider builds a provider chain. Earlier providers win.
func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

func (c *ChainProvider) Get(ctx context.Context, name string) (string, error) {
	for _, p := range c.providers {
		v, err := p.Get(ctx, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrSettingNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("setting %q: %w", name, ErrSettingNotFound)
}

func (c *ChainProvider) GetForTenant(ctx context.Context, tenantID int64, name string) (string, error) {
	for _, p := range c.providers {
		v, err := p.GetForTenant(ctx, tenantID, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrSettingNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("setting %q for tenant %d: %w", name, tenantID, ErrSettingNotFound)
}
