package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/normalize"
	"github.com/rutvikdhakate/sports-calendar/internal/providers/apisports"
	"github.com/rutvikdhakate/sports-calendar/internal/providers/espn"
	"github.com/rutvikdhakate/sports-calendar/internal/providers/thesportsdb"
	"github.com/rutvikdhakate/sports-calendar/pkg/contracts"
)

// Registry manages upstream adapters keyed by provider kind
type Registry struct {
	adapters map[config.ProviderKind]contracts.SportAdapter
	mu       sync.RWMutex
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		adapters: make(map[config.ProviderKind]contracts.SportAdapter),
	}
}

// NewFromConfig registers one adapter per supported provider kind.
// leagueCache may be nil.
func NewFromConfig(cfg *config.Config, rules normalize.Rules, leagueCache contracts.LeagueCache, logger *slog.Logger) (*Registry, error) {
	r := New()

	tsdb := thesportsdb.NewAdapter(thesportsdb.NewClient(cfg.Providers.TheSportsDB), rules, leagueCache, logger)
	fixtures := apisports.NewAdapter(apisports.NewClient(cfg.Providers.APISports), rules, logger)
	scoreboard := espn.NewAdapter(espn.NewClient(cfg.Providers.ESPN), rules, logger)

	for _, a := range []contracts.SportAdapter{tsdb, fixtures, scoreboard} {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an adapter to the registry
func (r *Registry) Register(adapter contracts.SportAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := adapter.Kind()
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", config.ErrUnknownProvider, kind)
	}
	if _, exists := r.adapters[kind]; exists {
		return fmt.Errorf("adapter for provider %s is already registered", kind)
	}

	r.adapters[kind] = adapter
	return nil
}

// Get retrieves an adapter by provider kind
func (r *Registry) Get(kind config.ProviderKind) (contracts.SportAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %q", config.ErrUnknownProvider, kind)
	}
	return adapter, nil
}

// Kinds returns all registered provider kinds, sorted
func (r *Registry) Kinds() []config.ProviderKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]config.ProviderKind, 0, len(r.adapters))
	for kind := range r.adapters {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
