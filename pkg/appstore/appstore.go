// Package appstore assembles the catalogue of editor apps and stax
// (preset tool bundles) from registered providers. The catalogue is a
// pure function of the current providers: nothing is cached between
// requests.
package appstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// DefaultProviderTimeout bounds each provider invocation so one hung
// plugin cannot stall the whole request.
const DefaultProviderTimeout = 2 * time.Second

// Mapping holds provider contributions keyed by provider-defined keys.
type Mapping map[string]any

// Provider contributes entries to one of the two catalogues. Contribute
// must be side-effect free; it may be called on every aggregation.
type Provider struct {
	Name       string
	Contribute func(ctx context.Context) (Mapping, error)
}

// Filter post-processes a merged mapping. Filters run in registration
// order and may add, remove, or mutate entries.
type Filter struct {
	Name  string
	Apply func(Mapping) Mapping
}

// Catalog is the aggregated result returned to the editor.
type Catalog struct {
	Apps Mapping `json:"apps"`
	Stax Mapping `json:"stax"`
}

// Registry holds the ordered providers and filters for both catalogues.
// Registration order is the merge order: a later provider overwrites an
// earlier one on a key collision.
type Registry struct {
	mu sync.RWMutex

	appProviders  []Provider
	appFilters    []Filter
	staxProviders []Provider
	staxFilters   []Filter

	timeout time.Duration
	log     hclog.Logger
}

func NewRegistry(log hclog.Logger) *Registry {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Registry{
		timeout: DefaultProviderTimeout,
		log:     log.Named("appstore"),
	}
}

// SetProviderTimeout overrides the per-provider invocation bound.
func (r *Registry) SetProviderTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d > 0 {
		r.timeout = d
	}
}

func (r *Registry) RegisterAppProvider(p Provider)  { r.register(&r.appProviders, p) }
func (r *Registry) RegisterStaxProvider(p Provider) { r.register(&r.staxProviders, p) }

func (r *Registry) RegisterAppFilter(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appFilters = append(r.appFilters, f)
}

func (r *Registry) RegisterStaxFilter(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staxFilters = append(r.staxFilters, f)
}

func (r *Registry) register(list *[]Provider, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, p)
}

// Aggregate computes both catalogues independently: merge all provider
// contributions in registration order, then run the ordered filter chain.
// A failing provider is isolated; its error is logged and collected into
// the returned report, and every other provider's contribution still
// lands. The report error is informational, never fatal to the catalogue.
func (r *Registry) Aggregate(ctx context.Context) (*Catalog, error) {
	r.mu.RLock()
	appProviders := append([]Provider(nil), r.appProviders...)
	appFilters := append([]Filter(nil), r.appFilters...)
	staxProviders := append([]Provider(nil), r.staxProviders...)
	staxFilters := append([]Filter(nil), r.staxFilters...)
	timeout := r.timeout
	r.mu.RUnlock()

	var report *multierror.Error

	apps, err := r.collect(ctx, appProviders, appFilters, timeout)
	report = multierror.Append(report, err)
	stax, err := r.collect(ctx, staxProviders, staxFilters, timeout)
	report = multierror.Append(report, err)

	return &Catalog{Apps: apps, Stax: stax}, report.ErrorOrNil()
}

func (r *Registry) collect(ctx context.Context, providers []Provider, filters []Filter, timeout time.Duration) (Mapping, error) {
	merged := Mapping{}
	var report *multierror.Error

	for _, p := range providers {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		contrib, err := invoke(pctx, p)
		cancel()
		if err != nil {
			r.log.Warn("provider failed, skipping its contribution",
				"provider", p.Name,
				"error", err,
			)
			report = multierror.Append(report,
				fmt.Errorf("provider %q: %w", p.Name, err))
			continue
		}
		for k, v := range contrib {
			merged[k] = v
		}
	}

	for _, f := range filters {
		if out := f.Apply(merged); out != nil {
			merged = out
		} else {
			merged = Mapping{}
		}
	}
	return merged, report.ErrorOrNil()
}

// invoke runs one provider, converting a panic into an error so a
// misbehaving plugin cannot take the request down.
func invoke(ctx context.Context, p Provider) (m Mapping, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		m   Mapping
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		m, err := p.Contribute(ctx)
		ch <- result{m: m, err: err}
	}()

	select {
	case res := <-ch:
		return res.m, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
