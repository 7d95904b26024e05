package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// settingsFile mirrors the YAML layout on disk.
type settingsFile struct {
	Settings map[string]string           `yaml:"settings"`
	Tenants  map[int64]map[string]string `yaml:"tenants"`
}

// FileProvider serves settings from a YAML file and hot-reloads it whenever
// the file changes on disk. Safe for concurrent use.
type FileProvider struct {
	path string
	log  *logrus.Logger

	mu      sync.RWMutex
	current settingsFile

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewFileProvider loads the file at path and starts watching it for changes.
// log may be nil. Callers must Close the provider to stop the watcher.
func NewFileProvider(path string, log *logrus.Logger) (*FileProvider, error) {
	if log == nil {
		log = logrus.New()
	}

	p := &FileProvider{
		path: path,
		log:  log,
		done: make(chan struct{}),
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}

	// Watch the parent directory; editors commonly replace the file on save,
	// which a direct file watch would lose track of.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch settings directory: %w", err)
	}

	p.watcher = watcher
	go p.watch()

	return p, nil
}

func (p *FileProvider) watch() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && filepath.Clean(event.Name) == filepath.Clean(p.path) {
				if err := p.Reload(); err != nil {
					p.log.WithError(err).Warn("Failed to reload settings file")
				}
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.WithError(err).Warn("Settings watcher error")
		case <-p.done:
			return
		}
	}
}

// Reload re-reads the file. A parse failure leaves the previously loaded
// values in place.
func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", p.path, err)
	}

	var parsed settingsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.current = parsed
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"path":     p.path,
		"settings": len(parsed.Settings),
		"tenants":  len(parsed.Tenants),
	}).Debug("Settings file loaded")

	return nil
}

// Close stops the file watcher.
func (p *FileProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}

func (p *FileProvider) Get(_ context.Context, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.current.Settings[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("setting %q: %w", name, ErrSettingNotFound)
}

func (p *FileProvider) GetForTenant(_ context.Context, tenantID int64, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if overrides, ok := p.current.Tenants[tenantID]; ok {
		if v, ok := overrides[name]; ok {
			return v, nil
		}
	}
	if v, ok := p.current.Settings[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("setting %q for tenant %d: %w", name, tenantID, ErrSettingNotFound)
}
