package gfactory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstgnz/gfactory"
)

const appManifest = `
components:
  - service: Database
    implementation: App
    method: NewDatabase
  - service: Repository
    implementation: App
    method: NewRepository
    lifestyle: transient
  - service: Greeter
    implementation: Greeters
    parameters:
      name: manifest
`

func appCatalog() *gfactory.Catalog {
	greeters := gfactory.NewFactoryType("Greeters").
		Func("NewGreeter", func(name string, db *Database) *Greeter {
			return &Greeter{greeting: "hello " + name + " via " + db.connection}
		}, gfactory.WithParamNames("name", "db"))

	cat := gfactory.NewCatalog().
		AddFactoryType(appFactories()).
		AddFactoryType(greeters)
	gfactory.CatalogService[*Database](cat, "Database")
	gfactory.CatalogService[*Repository](cat, "Repository")
	gfactory.CatalogService[*Greeter](cat, "Greeter")
	return cat
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	m, err := gfactory.LoadManifest(strings.NewReader(appManifest))
	require.NoError(t, err)
	require.Len(t, m.Components, 3)

	assert.Equal(t, "Repository", m.Components[1].Service)
	assert.Equal(t, "NewRepository", m.Components[1].Method)
	assert.Equal(t, "transient", m.Components[1].Lifestyle)
	assert.Empty(t, m.Components[2].Method)
	assert.Equal(t, map[string]any{"name": "manifest"}, m.Components[2].Parameters)
}

func TestLoadManifest_Empty(t *testing.T) {
	t.Parallel()

	m, err := gfactory.LoadManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Components)
}

func TestLoadManifest_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := gfactory.LoadManifest(strings.NewReader("components:\n  - service: Database\n    constructor: NewDatabase\n"))
	assert.ErrorIs(t, err, gfactory.ErrInvalidManifest)
}

func TestContainer_Install(t *testing.T) {
	t.Parallel()

	m, err := gfactory.LoadManifest(strings.NewReader(appManifest))
	require.NoError(t, err)

	c := newContainer(t)
	require.NoError(t, c.Install(m, appCatalog()))
	assert.Equal(t, 3, c.ComponentCount())

	repo1 := gfactory.MustResolve[*Repository](c)
	repo2 := gfactory.MustResolve[*Repository](c)
	assert.NotSame(t, repo1, repo2)
	assert.Same(t, repo1.db, repo2.db)

	g := gfactory.MustResolve[*Greeter](c)
	assert.Equal(t, "hello manifest via localhost:5432", g.greeting)
}

func TestContainer_InstallErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown service":        "components:\n  - service: Cache\n    implementation: App\n",
		"unknown implementation": "components:\n  - service: Database\n    implementation: Caches\n",
		"bad lifestyle":          "components:\n  - service: Database\n    implementation: App\n    method: NewDatabase\n    lifestyle: pooled\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := gfactory.LoadManifest(strings.NewReader(doc))
			require.NoError(t, err)

			c := newContainer(t)
			assert.ErrorIs(t, c.Install(m, appCatalog()), gfactory.ErrInvalidManifest)
			assert.Equal(t, 0, c.ComponentCount())
		})
	}

	t.Run("invalid registration", func(t *testing.T) {
		m, err := gfactory.LoadManifest(strings.NewReader("components:\n  - service: Database\n    implementation: App\n"))
		require.NoError(t, err)

		c := newContainer(t)
		assert.ErrorIs(t, c.Install(m, appCatalog()), gfactory.ErrInvalidRegistration)
	})
}

func TestParseLifestyle(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]gfactory.Lifestyle{
		"":           gfactory.Singleton,
		"singleton":  gfactory.Singleton,
		" Transient": gfactory.Transient,
		"SCOPED":     gfactory.Scoped,
	} {
		got, err := gfactory.ParseLifestyle(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
		if input != "" {
			assert.Equal(t, strings.ToLower(strings.TrimSpace(input)), got.String())
		}
	}

	_, err := gfactory.ParseLifestyle("pooled")
	assert.Error(t, err)
}

type Limit struct{ max int8 }

func TestContainer_InstallRejectsLossyNumbers(t *testing.T) {
	t.Parallel()

	limits := gfactory.NewFactoryType("Limits").
		Func("NewLimit", func(ceiling int8) *Limit { return &Limit{max: ceiling} }, gfactory.WithParamNames("ceiling"))
	cat := gfactory.NewCatalog().AddFactoryType(limits)
	gfactory.CatalogService[*Limit](cat, "Limit")

	for doc, want := range map[string]int8{
		"components:\n  - service: Limit\n    implementation: Limits\n    parameters: {ceiling: 100}\n": 100,
		"components:\n  - service: Limit\n    implementation: Limits\n    parameters: {ceiling: 300}\n": 0,
		"components:\n  - service: Limit\n    implementation: Limits\n    parameters: {ceiling: 1.9}\n": 0,
	} {
		m, err := gfactory.LoadManifest(strings.NewReader(doc))
		require.NoError(t, err)

		c := newContainer(t)
		require.NoError(t, c.Install(m, cat))

		limit, err := gfactory.Resolve[*Limit](c)
		if want == 0 {
			var actErr *gfactory.ActivatorError
			require.True(t, errors.As(err, &actErr), doc)
			assert.ErrorContains(t, err, "does not fit")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, want, limit.max)
	}
}
