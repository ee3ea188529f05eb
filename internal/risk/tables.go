package risk

import "github.com/stitts-dev/ffdata/internal/models"

// Tables are the position, age and status weights behind the injury score.
type Tables struct {
	// AgeThresholds is the age after which each position starts declining.
	AgeThresholds       map[string]int
	DefaultAgeThreshold int

	// PositionRisk is the relative injury exposure of each position, 0-1.
	PositionRisk        map[string]float64
	DefaultPositionRisk float64

	StatusRisk map[models.InjuryStatus]float64
}

func DefaultTables() Tables {
	return Tables{
		AgeThresholds: map[string]int{
			"QB":  35,
			"RB":  27,
			"WR":  30,
			"TE":  30,
			"K":   38,
			"DST": 99,
		},
		DefaultAgeThreshold: 30,
		PositionRisk: map[string]float64{
			"QB":  0.2,
			"RB":  0.7,
			"WR":  0.4,
			"TE":  0.5,
			"K":   0.1,
			"DST": 0.1,
		},
		DefaultPositionRisk: 0.3,
		StatusRisk: map[models.InjuryStatus]float64{
			models.StatusHealthy:      0.0,
			models.StatusQuestionable: 0.3,
			models.StatusOut:          0.5,
			models.StatusInjured:      0.5,
			models.StatusIR:           0.8,
		},
	}
}
