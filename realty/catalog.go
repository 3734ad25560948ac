package realty

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Property is a single listing in the catalog.
type Property struct {
	ID          string   `json:"property_id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	AreaSqft    float64  `json:"area_sqft"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	YearBuilt   int      `json:"year_built"`
	Available   bool     `json:"available"`
}

// SearchFilter narrows a catalog search. Zero values mean "no constraint".
type SearchFilter struct {
	Location     string
	PropertyType string
	MinPrice     float64
	MaxPrice     float64
	Bedrooms     int
	Bathrooms    int
	MinArea      float64
	MaxArea      float64
}

// ScoredProperty is a listing ranked against a reference property.
type ScoredProperty struct {
	Property
	SimilarityScore int `json:"similarity_score"`
}

// Catalog is an in-memory listing inventory. Safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	properties []Property
}

// NewCatalog builds a catalog from the given listings; with none given it
// loads the demo inventory.
func NewCatalog(properties ...Property) *Catalog {
	if len(properties) == 0 {
		properties = DemoListings()
	}
	return &Catalog{properties: properties}
}

// DemoListings is the built-in inventory used when no real listing feed is
// configured.
func DemoListings() []Property {
	return []Property{
		{
			ID:          "PROP001",
			Title:       "Modern 3BR Apartment in Downtown",
			Type:        "apartment",
			Bedrooms:    3,
			Bathrooms:   2,
			AreaSqft:    1200,
			Price:       450000,
			Location:    "Downtown",
			Address:     "123 Main St, Downtown",
			Description: "Beautiful modern apartment with city views",
			Amenities:   []string{"parking", "gym", "pool", "elevator"},
			YearBuilt:   2020,
			Available:   true,
		},
		{
			ID:          "PROP002",
			Title:       "Luxury 4BR House with Garden",
			Type:        "house",
			Bedrooms:    4,
			Bathrooms:   3,
			AreaSqft:    2500,
			Price:       850000,
			Location:    "Suburbs",
			Address:     "456 Oak Ave, Suburbs",
			Description: "Spacious family home with large garden",
			Amenities:   []string{"garage", "garden", "fireplace"},
			YearBuilt:   2015,
			Available:   true,
		},
		{
			ID:          "PROP003",
			Title:       "Cozy 2BR Condo Near Beach",
			Type:        "condo",
			Bedrooms:    2,
			Bathrooms:   1,
			AreaSqft:    900,
			Price:       320000,
			Location:    "Beachfront",
			Address:     "789 Beach Blvd, Beachfront",
			Description: "Charming condo steps from the beach",
			Amenities:   []string{"balcony", "parking"},
			YearBuilt:   2018,
			Available:   true,
		},
		{
			ID:          "PROP004",
			Title:       "Penthouse 5BR with Rooftop",
			Type:        "penthouse",
			Bedrooms:    5,
			Bathrooms:   4,
			AreaSqft:    4000,
			Price:       2500000,
			Location:    "Downtown",
			Address:     "321 Sky Tower, Downtown",
			Description: "Luxury penthouse with panoramic views",
			Amenities:   []string{"rooftop", "concierge", "gym", "parking"},
			YearBuilt:   2022,
			Available:   true,
		},
	}
}

// Search returns available listings matching every set filter field.
func (c *Catalog) Search(f SearchFilter) []Property {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]Property, 0, len(c.properties))
	for _, p := range c.properties {
		if !p.Available {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.PropertyType != "" && !strings.EqualFold(p.Type, f.PropertyType) {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.Bedrooms > 0 && p.Bedrooms < f.Bedrooms {
			continue
		}
		if f.Bathrooms > 0 && p.Bathrooms < f.Bathrooms {
			continue
		}
		if f.MinArea > 0 && p.AreaSqft < f.MinArea {
			continue
		}
		if f.MaxArea > 0 && p.AreaSqft > f.MaxArea {
			continue
		}
		results = append(results, p)
	}
	return results
}

// Get looks up a listing by id.
func (c *Catalog) Get(id string) (Property, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// Similar ranks other listings against the given one by type, location,
// price band and bedroom count, keeping those scoring at least 3. The second
// return reports whether the reference listing exists.
func (c *Catalog) Similar(id string, limit int) ([]ScoredProperty, bool) {
	ref, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	if limit <= 0 {
		limit = 3
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var similar []ScoredProperty
	for _, p := range c.properties {
		if p.ID == id {
			continue
		}
		score := 0
		if p.Type == ref.Type {
			score += 3
		}
		if p.Location == ref.Location {
			score += 2
		}
		if math.Abs(p.Price-ref.Price)/ref.Price < 0.2 {
			score += 2
		}
		if p.Bedrooms == ref.Bedrooms {
			score++
		}
		if score >= 3 {
			similar = append(similar, ScoredProperty{Property: p, SimilarityScore: score})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].SimilarityScore > similar[j].SimilarityScore
	})
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, true
}

// ValuationInput describes a property to estimate a market value for.
type ValuationInput struct {
	PropertyType string
	Bedrooms     int
	Bathrooms    int
	AreaSqft     float64
	Location     string
	YearBuilt    int
}

// Valuation is an estimated market value with the adjustment breakdown.
type Valuation struct {
	EstimatedValue float64            `json:"estimated_value"`
	PricePerSqft   float64            `json:"price_per_sqft"`
	Breakdown      ValuationBreakdown `json:"breakdown"`
}

// ValuationBreakdown itemizes the factors behind an estimate.
type ValuationBreakdown struct {
	BasePrice          float64 `json:"base_price"`
	BedroomAdjustment  string  `json:"bedroom_adjustment"`
	BathroomAdjustment string  `json:"bathroom_adjustment"`
	LocationAdjustment string  `json:"location_adjustment"`
	AgeAdjustment      string  `json:"age_adjustment"`
}

var basePricePerSqft = map[string]float64{
	"apartment": 350,
	"house":     400,
	"condo":     300,
	"penthouse": 600,
}

var locationMultipliers = map[string]float64{
	"downtown":   1.3,
	"suburbs":    1.0,
	"beachfront": 1.5,
}

// EstimateValue prices a property from its features. Uses fixed per-type and
// per-location factors; age depreciates 1% per year, floored at 0.7.
func EstimateValue(in ValuationInput, now time.Time) Valuation {
	perSqft, ok := basePricePerSqft[strings.ToLower(in.PropertyType)]
	if !ok {
		perSqft = 350
	}
	basePrice := perSqft * in.AreaSqft

	bedroomMult := 1 + float64(in.Bedrooms-2)*0.1
	bathroomMult := 1 + float64(in.Bathrooms-1)*0.05

	locationMult, ok := locationMultipliers[strings.ToLower(in.Location)]
	if !ok {
		locationMult = 1.0
	}

	ageMult := 1.0
	if in.YearBuilt > 0 {
		age := now.Year() - in.YearBuilt
		ageMult = math.Max(0.7, 1-float64(age)*0.01)
	}

	estimated := basePrice * bedroomMult * bathroomMult * locationMult * ageMult
	pricePerSqft := 0.0
	if in.AreaSqft > 0 {
		pricePerSqft = estimated / in.AreaSqft
	}

	return Valuation{
		EstimatedValue: round2(estimated),
		PricePerSqft:   round2(pricePerSqft),
		Breakdown: ValuationBreakdown{
			BasePrice:          round2(basePrice),
			BedroomAdjustment:  multiplierLabel(bedroomMult),
			BathroomAdjustment: multiplierLabel(bathroomMult),
			LocationAdjustment: multiplierLabel(locationMult),
			AgeAdjustment:      multiplierLabel(ageMult),
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func multiplierLabel(m float64) string {
	return fmt.Sprintf("%.2fx", m)
}
