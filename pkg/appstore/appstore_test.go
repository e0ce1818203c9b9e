package appstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticProvider(name string, m Mapping) Provider {
	return Provider{
		Name:       name,
		Contribute: func(context.Context) (Mapping, error) { return m, nil },
	}
}

func TestAggregateMergeOrder(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterAppProvider(staticProvider("one", Mapping{"a": 1}))
	r.RegisterAppProvider(staticProvider("two", Mapping{"b": 2}))
	r.RegisterAppProvider(staticProvider("three", Mapping{"a": 3}))

	cat, err := r.Aggregate(context.Background())
	require.NoError(t, err)
	// Last registrant wins key collisions.
	assert.Equal(t, Mapping{"a": 3, "b": 2}, cat.Apps)
	assert.Equal(t, Mapping{}, cat.Stax)
}

func TestAggregateFilters(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterAppProvider(staticProvider("one", Mapping{"a": 1}))
	r.RegisterAppProvider(staticProvider("two", Mapping{"b": 2}))
	r.RegisterAppProvider(staticProvider("three", Mapping{"a": 3}))
	r.RegisterAppFilter(Filter{
		Name: "drop-b",
		Apply: func(m Mapping) Mapping {
			delete(m, "b")
			return m
		},
	})

	cat, err := r.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Mapping{"a": 3}, cat.Apps)

	t.Run("NilFilterResultEmptiesMapping", func(t *testing.T) {
		r.RegisterAppFilter(Filter{Name: "nil", Apply: func(Mapping) Mapping { return nil }})
		cat, err := r.Aggregate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Mapping{}, cat.Apps)
	})
}

func TestAggregateIndependentCatalogues(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterAppProvider(staticProvider("apps", Mapping{"video": "x"}))
	r.RegisterStaxProvider(staticProvider("stax", Mapping{"hero": "y"}))
	r.RegisterStaxFilter(Filter{
		Name: "rename",
		Apply: func(m Mapping) Mapping {
			m["hero2"] = m["hero"]
			return m
		},
	})

	cat, err := r.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Mapping{"video": "x"}, cat.Apps)
	assert.Equal(t, Mapping{"hero": "y", "hero2": "y"}, cat.Stax)
}

func TestAggregateIsolatesProviderFailures(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		r := NewRegistry(nil)
		r.RegisterAppProvider(staticProvider("good", Mapping{"a": 1}))
		r.RegisterAppProvider(Provider{
			Name: "bad",
			Contribute: func(context.Context) (Mapping, error) {
				return nil, errors.New("boom")
			},
		})
		r.RegisterAppProvider(staticProvider("also-good", Mapping{"b": 2}))

		cat, err := r.Aggregate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `provider "bad"`)
		assert.Equal(t, Mapping{"a": 1, "b": 2}, cat.Apps)
	})

	t.Run("Panic", func(t *testing.T) {
		r := NewRegistry(nil)
		r.RegisterAppProvider(staticProvider("good", Mapping{"a": 1}))
		r.RegisterAppProvider(Provider{
			Name:       "panics",
			Contribute: func(context.Context) (Mapping, error) { panic("ouch") },
		})

		cat, err := r.Aggregate(context.Background())
		require.Error(t, err)
		assert.Equal(t, Mapping{"a": 1}, cat.Apps)
	})

	t.Run("Timeout", func(t *testing.T) {
		r := NewRegistry(nil)
		r.SetProviderTimeout(20 * time.Millisecond)
		r.RegisterAppProvider(Provider{
			Name: "hangs",
			Contribute: func(ctx context.Context) (Mapping, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		})
		r.RegisterAppProvider(staticProvider("good", Mapping{"a": 1}))

		start := time.Now()
		cat, err := r.Aggregate(context.Background())
		require.Error(t, err)
		assert.Equal(t, Mapping{"a": 1}, cat.Apps)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestBaseAppsProvider(t *testing.T) {
	p := BaseAppsProvider(map[string]string{
		"youtube": "yt-key",
		"giphy":   "",
	})

	m, err := p.Contribute(context.Background())
	require.NoError(t, err)

	// Only services with a configured key appear.
	require.Contains(t, m, "youtube")
	assert.NotContains(t, m, "giphy")
	assert.NotContains(t, m, "vimeo")

	app := m["youtube"].(map[string]any)
	assert.Equal(t, "YouTube", app["name"])
	assert.Equal(t, "yt-key", app["apiKey"])
	assert.NotEmpty(t, app["docsUrl"])
}

func TestBaseAppKeys(t *testing.T) {
	keys := BaseAppKeys()
	assert.Contains(t, keys, "youtube")
	assert.Contains(t, keys, "unsplash")
}
