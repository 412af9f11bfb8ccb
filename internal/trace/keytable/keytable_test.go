package keytable_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/keytable"
)

func TestInternReturnsStableKeyForSameName(t *testing.T) {
	t.Parallel()

	table := keytable.New()

	k1 := table.Intern("foo")
	k2 := table.Intern("foo")

	assert.Equal(t, k1, k2)
	assert.True(t, k1.Valid())
}

func TestInternDistinctNamesGetDistinctKeys(t *testing.T) {
	t.Parallel()

	table := keytable.New()

	k1 := table.Intern("foo")
	k2 := table.Intern("bar")

	assert.NotEqual(t, k1, k2)
}

func TestNameRoundTrips(t *testing.T) {
	t.Parallel()

	table := keytable.New()

	k := table.Intern("widget.render")
	assert.Equal(t, "widget.render", table.Name(k))
}

func TestUnknownKeyNameIsEmpty(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	other := keytable.New()

	k := other.Intern("elsewhere")
	assert.Empty(t, table.Name(k))
}

func TestInternConcurrentSameNameConverges(t *testing.T) {
	t.Parallel()

	table := keytable.New()

	var wg sync.WaitGroup

	keys := make([]keytable.Key, 64)
	for i := range keys {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			keys[idx] = table.Intern("shared")
		}(i)
	}

	wg.Wait()

	for _, k := range keys {
		assert.Equal(t, keys[0], k)
	}

	assert.Equal(t, 1, table.Len())
}

func TestStaticKeyResolvesOnceAndCaches(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	sk := keytable.NewStaticKeyIn(table, "hot.path")

	k1 := sk.Key()
	k2 := sk.Key()

	require.True(t, k1.Valid())
	assert.Equal(t, k1, k2)
	assert.Equal(t, "hot.path", sk.Name())
	assert.Equal(t, k1, table.Intern("hot.path"))
}

func TestStaticKeyPrettyFallsBackToName(t *testing.T) {
	t.Parallel()

	sk := keytable.NewStaticKey("raw.name")
	assert.Equal(t, "raw.name", sk.Pretty())
	assert.Empty(t, sk.Scope())
}

func TestStaticKeyFullCarriesPrettyAndScope(t *testing.T) {
	t.Parallel()

	sk := keytable.NewStaticKeyFull("widget.render", "Render Widget", "widget")

	assert.Equal(t, "widget.render", sk.Name())
	assert.Equal(t, "Render Widget", sk.Pretty())
	assert.Equal(t, "widget", sk.Scope())
}
