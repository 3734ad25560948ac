package realty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSearch(t *testing.T) {
	catalog := NewCatalog()

	t.Run("no filter returns all available", func(t *testing.T) {
		assert.Len(t, catalog.Search(SearchFilter{}), 4)
	})

	t.Run("by location substring", func(t *testing.T) {
		results := catalog.Search(SearchFilter{Location: "down"})
		require.Len(t, results, 2)
		assert.Equal(t, "PROP001", results[0].ID)
		assert.Equal(t, "PROP004", results[1].ID)
	})

	t.Run("by type and price ceiling", func(t *testing.T) {
		results := catalog.Search(SearchFilter{PropertyType: "Condo", MaxPrice: 400000})
		require.Len(t, results, 1)
		assert.Equal(t, "PROP003", results[0].ID)
	})

	t.Run("bedrooms is a minimum", func(t *testing.T) {
		results := catalog.Search(SearchFilter{Bedrooms: 4})
		require.Len(t, results, 2)
	})

	t.Run("unavailable listings are hidden", func(t *testing.T) {
		c := NewCatalog(Property{ID: "X1", Type: "house", Location: "Downtown", Price: 100000})
		assert.Empty(t, c.Search(SearchFilter{}))
	})
}

func TestCatalogGet(t *testing.T) {
	catalog := NewCatalog()

	p, ok := catalog.Get("PROP002")
	require.True(t, ok)
	assert.Equal(t, "Luxury 4BR House with Garden", p.Title)

	_, ok = catalog.Get("PROP999")
	assert.False(t, ok)
}

func TestCatalogSimilar(t *testing.T) {
	catalog := NewCatalog()

	similar, ok := catalog.Similar("PROP001", 3)
	require.True(t, ok)
	require.NotEmpty(t, similar)
	for _, s := range similar {
		assert.NotEqual(t, "PROP001", s.ID)
		assert.GreaterOrEqual(t, s.SimilarityScore, 3)
	}
	// Ranked best first.
	for i := 1; i < len(similar); i++ {
		assert.LessOrEqual(t, similar[i].SimilarityScore, similar[i-1].SimilarityScore)
	}

	_, ok = catalog.Similar("PROP999", 3)
	assert.False(t, ok)
}

func TestEstimateValue(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("downtown apartment", func(t *testing.T) {
		v := EstimateValue(ValuationInput{
			PropertyType: "apartment",
			Bedrooms:     3,
			Bathrooms:    2,
			AreaSqft:     1200,
			Location:     "Downtown",
			YearBuilt:    2020,
		}, now)

		// 350*1200 * 1.1 * 1.05 * 1.3 * (1 - 6*0.01)
		base := 350.0 * 1200
		expected := base * 1.1 * 1.05 * 1.3 * 0.94
		assert.InDelta(t, expected, v.EstimatedValue, 0.01)
		assert.InDelta(t, expected/1200, v.PricePerSqft, 0.01)
		assert.Equal(t, "1.30x", v.Breakdown.LocationAdjustment)
		assert.Equal(t, "0.94x", v.Breakdown.AgeAdjustment)
	})

	t.Run("unknown type and location use defaults", func(t *testing.T) {
		v := EstimateValue(ValuationInput{
			PropertyType: "castle",
			Bedrooms:     2,
			Bathrooms:    1,
			AreaSqft:     1000,
			Location:     "Nowhere",
		}, now)
		assert.InDelta(t, 350.0*1000, v.EstimatedValue, 0.01)
		assert.Equal(t, "1.00x", v.Breakdown.LocationAdjustment)
		assert.Equal(t, "1.00x", v.Breakdown.AgeAdjustment)
	})

	t.Run("age depreciation floors at 0.7", func(t *testing.T) {
		v := EstimateValue(ValuationInput{
			PropertyType: "house",
			Bedrooms:     2,
			Bathrooms:    1,
			AreaSqft:     1000,
			Location:     "Suburbs",
			YearBuilt:    1950,
		}, now)
		assert.Equal(t, "0.70x", v.Breakdown.AgeAdjustment)
	})
}
