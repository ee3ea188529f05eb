package providers

// RawPlayerRow is one scraped projection row as the scrapers publish it.
// Stat names are source-native and translated through a ColumnMap.
type RawPlayerRow struct {
	Name     string             `json:"name"`
	Position string             `json:"pos"`
	Team     string             `json:"team"`
	Stats    map[string]float64 `json:"stats"`
	Advanced map[string]float64 `json:"advanced,omitempty"`
}

// Row kinds a feed can carry; each is cached separately.
const (
	KindProjections = "projections"
	KindADP         = "adp"
)

// ADP scoring formats.
const (
	FormatStandard = "std"
	FormatHalfPPR  = "half_ppr"
	FormatPPR      = "ppr"
)

// RawADPRow is one row of an ADP list for a single scoring format.
type RawADPRow struct {
	Name     string  `json:"name"`
	Position string  `json:"pos"`
	Team     string  `json:"team"`
	Bye      int     `json:"bye"`
	Format   string  `json:"format"`
	ADP      float64 `json:"adp"`
}
