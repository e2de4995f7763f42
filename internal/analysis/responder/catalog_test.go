package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	require.NoError(t, catalog.Validate())

	for _, pool := range RequiredPools() {
		assert.NotEmpty(t, catalog.Templates(pool), "pool %s", pool)
	}
	assert.Len(t, catalog.Templates(Crisis.Pool()), 1)
}

func TestNewCatalogRejectsMissingPool(t *testing.T) {
	pools := make(map[Pool][]string, len(defaultPools))
	for key, templates := range defaultPools {
		pools[key] = templates
	}
	delete(pools, FollowupPool(TopicAngry, IntentEncourage))

	_, err := NewCatalog(pools)
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "context_followup/angry/encourage")
}

func TestNewCatalogRejectsRandomizedCrisisPool(t *testing.T) {
	pools := make(map[Pool][]string, len(defaultPools))
	for key, templates := range defaultPools {
		pools[key] = templates
	}
	pools[Crisis.Pool()] = []string{"one", "two"}

	_, err := NewCatalog(pools)
	require.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCatalogIsNotAffectedByCallerMutation(t *testing.T) {
	pools := make(map[Pool][]string, len(defaultPools))
	for key, templates := range defaultPools {
		pools[key] = append([]string(nil), templates...)
	}
	catalog, err := NewCatalog(pools)
	require.NoError(t, err)

	pools[Greeting.Pool()][0] = "mutated"
	assert.NotContains(t, catalog.Templates(Greeting.Pool()), "mutated")

	templates := catalog.Templates(Greeting.Pool())
	templates[0] = "mutated again"
	assert.NotContains(t, catalog.Templates(Greeting.Pool()), "mutated again")
}

func TestFollowupPoolNames(t *testing.T) {
	assert.Equal(t, Pool("context_followup/sad/deepen"), FollowupPool(TopicSad, IntentDeepen))
	assert.Len(t, RequiredPools(), len(Categories())-1+6)
}
