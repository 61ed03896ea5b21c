// Package plugin lets external packages extend the conformance
// framework at startup: registering contract packs, adding
// custom member resolvers, or hooking framework components.
package plugin

import (
	"fmt"
	"sync"

	"digital.vasic.conformance/pkg/inspect"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/registry"
)

// Plugin is the extension interface. Implementations register
// whatever they contribute during Init.
type Plugin interface {
	// Name returns the plugin's unique name.
	Name() string

	// Version returns the plugin's version string.
	Version() string

	// Init wires the plugin into the framework components
	// carried by the context.
	Init(ctx *Context) error
}

// Context hands a plugin the framework components it may extend
// during initialization.
type Context struct {
	// Registry receives contracts the plugin contributes.
	Registry registry.Registry

	// Inspector receives custom member resolvers.
	Inspector inspect.Inspector

	// Logger is the framework logger plugins should log through.
	Logger logging.Logger

	// Config carries free-form plugin settings.
	Config map[string]any
}

// NewContext creates a Context wired to the package-level
// contract registry, a fresh inspector, and a silent logger.
func NewContext() *Context {
	return &Context{
		Registry:  registry.Default,
		Inspector: inspect.NewInspector(),
		Logger:    logging.NullLogger{},
		Config:    make(map[string]any),
	}
}

// Registry manages plugin registration and one-shot
// initialization.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	loaded  map[string]bool
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		loaded:  make(map[string]bool),
	}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q already registered", name)
	}

	r.plugins[name] = p
	return nil
}

// Get retrieves a registered plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// InitAll initializes every registered plugin that has not been
// initialized yet. Initialization order is not defined.
func (r *Registry) InitAll(ctx *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, p := range r.plugins {
		if r.loaded[name] {
			continue
		}
		if err := p.Init(ctx); err != nil {
			return fmt.Errorf("init plugin %q: %w", name, err)
		}
		r.loaded[name] = true
	}
	return nil
}

// Init initializes one plugin by name. Initializing an already
// initialized plugin is a no-op.
func (r *Registry) Init(name string, ctx *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[name]
	if !ok {
		return fmt.Errorf("plugin %q not found", name)
	}
	if r.loaded[name] {
		return nil
	}
	if err := p.Init(ctx); err != nil {
		return fmt.Errorf("init plugin %q: %w", name, err)
	}
	r.loaded[name] = true
	return nil
}

// List returns all registered plugin names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}

// IsLoaded reports whether a plugin has been initialized.
func (r *Registry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded[name]
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}
