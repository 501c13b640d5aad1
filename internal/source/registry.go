package source

import (
	"fmt"
	"strings"

	"github.com/padraigk/jobradar/internal/config"
	"github.com/padraigk/jobradar/internal/jobs"
)

// entry pairs an adapter with its enablement. Adapters that need credentials
// are registered either way so status reporting can show what is missing.
type entry struct {
	Source  jobs.Source
	Enabled bool
}

// Registry holds every adapter in a fixed order. Merge order downstream
// follows registration order, which keeps run output stable across runs.
type Registry struct {
	entries []entry
}

// NewRegistry wires all adapters from configuration. Scraping sources are
// always enabled; API sources are enabled when their credentials are set.
func NewRegistry(cfg config.Config, deps Deps) *Registry {
	adzuna := NewAdzuna(cfg.Sources.Adzuna.AppID, cfg.Sources.Adzuna.AppKey, deps)
	reed := NewReed(cfg.Sources.Reed.APIKey, deps)
	linkedin := NewLinkedIn(cfg.Sources.SerpAPI.APIKey, deps)

	return &Registry{entries: []entry{
		{Source: adzuna, Enabled: adzuna.Configured()},
		{Source: NewIndeed(cfg.Sources.SerpAPI.APIKey, deps), Enabled: true},
		{Source: linkedin, Enabled: linkedin.Configured()},
		{Source: reed, Enabled: reed.Configured()},
		{Source: NewJaabz(deps), Enabled: true},
		{Source: NewTelegram(deps), Enabled: true},
	}}
}

// Enabled returns the adapters that will participate in a full run, in
// registration order.
func (r *Registry) Enabled() []jobs.Source {
	var out []jobs.Source
	for _, e := range r.entries {
		if e.Enabled {
			out = append(out, e.Source)
		}
	}
	return out
}

// Find resolves a single adapter by name, case-insensitively. It returns an
// error for unknown names and for adapters missing credentials.
func (r *Registry) Find(name string) (jobs.Source, error) {
	for _, e := range r.entries {
		if strings.EqualFold(e.Source.Name(), name) {
			if !e.Enabled {
				return nil, fmt.Errorf("source %q is not configured", e.Source.Name())
			}
			return e.Source, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", name)
}

// Status reports enablement per source name, for the status endpoint.
func (r *Registry) Status() map[string]bool {
	out := make(map[string]bool, len(r.entries))
	for _, e := range r.entries {
		out[e.Source.Name()] = e.Enabled
	}
	return out
}
