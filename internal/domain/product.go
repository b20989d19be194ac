package domain

// ProductRecord represents one ski in the catalog. Records are loaded once at
// startup and never mutated afterwards, so they can be shared across concurrent
// queries without locking.
//
// Numeric specs are pointers: nil means the measurement is genuinely unknown.
// Catalog loaders are responsible for nulling out sentinel fill values (see
// SentinelFilter) before a record reaches this layer, so a non-nil value can
// always be quoted as fact.
type ProductRecord struct {
	ID           string   `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	Brand        string   `json:"brand" db:"brand"`
	Category     string   `json:"category" db:"category"`
	Tags         []string `json:"tags"`
	WaistWidthMM *float64 `json:"waistWidthMm,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	SalePrice    *float64 `json:"salePrice,omitempty"`
	WeightGrams  *float64 `json:"weightGrams,omitempty"`
	TurnRadiusM  *float64 `json:"turnRadiusM,omitempty"`
	LengthsCM    []int    `json:"lengthsCm,omitempty"`
	TwinTip      *bool    `json:"twinTip,omitempty"`
}

// CurrentPrice returns the effective price: the sale price when one is set,
// otherwise the regular price. Returns nil when neither is known.
func (p *ProductRecord) CurrentPrice() *float64 {
	if p.SalePrice != nil {
		return p.SalePrice
	}
	return p.Price
}

// HasDiscount reports whether the record carries a sale price lower than the
// regular price.
func (p *ProductRecord) HasDiscount() bool {
	return p.SalePrice != nil && p.Price != nil && *p.SalePrice < *p.Price
}

// MatchResult pairs a catalog record with the score the matcher assigned to it
// for one query. Scores are unbounded non-negative floats; an exact title match
// scores ScoreExactTitle. Results are created fresh per query and never stored.
type MatchResult struct {
	Product    ProductRecord `json:"product"`
	MatchScore float64       `json:"matchScore"`
}

// Match score ceilings for title equality. Everything below these is additive
// per-signal scoring.
const (
	ScoreExactTitle      = 10.0
	ScoreNormalizedTitle = 9.5
)

// SentinelFilter nulls out numeric spec values that are known dataset fill
// values rather than real measurements. The sentinel lists come from
// configuration because they are artifacts of a particular catalog export, not
// business constants.
type SentinelFilter struct {
	WeightGrams []float64
	TurnRadiusM []float64
}

// Apply returns a copy of the record with sentinel-valued specs removed.
func (f SentinelFilter) Apply(p ProductRecord) ProductRecord {
	if p.WeightGrams != nil && containsValue(f.WeightGrams, *p.WeightGrams) {
		p.WeightGrams = nil
	}
	if p.TurnRadiusM != nil && containsValue(f.TurnRadiusM, *p.TurnRadiusM) {
		p.TurnRadiusM = nil
	}
	return p
}

func containsValue(values []float64, v float64) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Float64 returns a pointer to v. Convenience for building records in loaders
// and tests.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
