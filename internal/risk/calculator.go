package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

const (
	gamesPerSeason  = 17
	seasonsTracked  = 3
	maxGamesTracked = gamesPerSeason * seasonsTracked

	missedGamesWeight = 50.0
	positionWeight    = 20.0
	statusWeight      = 15.0
	ageYearPenalty    = 3
	maxAgePenalty     = 15

	fallbackVarianceShare = 0.3
)

// Calculator derives injury, consistency and range-of-outcome metrics.
type Calculator struct {
	tables Tables
}

func NewCalculator(tables Tables) *Calculator {
	return &Calculator{tables: tables}
}

func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultTables())
}

// InjuryScore rates injury risk from 0 to 100, higher being riskier. It sums
// missed games over the last three seasons (up to 50), position exposure (up
// to 20), years past the position's age threshold (up to 15) and current
// status (up to 15).
func (c *Calculator) InjuryScore(gamesPlayed [3]int, age *int, position string, status models.InjuryStatus) int {
	total := 0
	for _, g := range gamesPlayed {
		total += g
	}
	missed := utils.Clamp(1-float64(total)/maxGamesTracked, 0, 1)
	score := missed * missedGamesWeight

	posRisk, ok := c.tables.PositionRisk[position]
	if !ok {
		posRisk = c.tables.DefaultPositionRisk
	}
	score += posRisk * positionWeight

	if age != nil {
		threshold, ok := c.tables.AgeThresholds[position]
		if !ok {
			threshold = c.tables.DefaultAgeThreshold
		}
		if over := *age - threshold; over > 0 {
			score += float64(min(over*ageYearPenalty, maxAgePenalty))
		}
	}

	score += c.tables.StatusRisk[status] * statusWeight

	return int(utils.Clamp(math.Trunc(score), 0, 100))
}

// ConsistencyScore is 1 minus the coefficient of variation of the weeks the
// player actually scored, bounded to [0, 1]. Players with no games or fewer
// than two scoring weeks get the neutral 0.5.
func (c *Calculator) ConsistencyScore(weeklyPoints []float64, gamesPlayed int) float64 {
	if gamesPlayed == 0 {
		return models.DefaultConsistencyScore
	}
	active := activeWeeks(weeklyPoints)
	if len(active) < 2 {
		return models.DefaultConsistencyScore
	}

	mean, std := stat.PopMeanStdDev(active, nil)
	if mean == 0 {
		return models.DefaultConsistencyScore
	}
	return utils.RoundTo(utils.Clamp(1-std/mean, 0, 1), 3)
}

// FloorCeiling returns the low and high season outcomes around a projection.
// Inconsistent players get a wider band and injury risk trims the upside. At
// extreme injury scores the trimmed ceiling would drop to the floor; it is
// then held one tenth above it.
func (c *Calculator) FloorCeiling(projectedPoints, consistency float64, injuryScore int) (float64, float64) {
	if projectedPoints <= 0 {
		return 0, 0
	}

	varianceFactor := 0.1 + (1-consistency)*0.25
	injuryFactor := 1 - (float64(injuryScore)/100)*0.2

	floor := utils.RoundTo(projectedPoints*(1-varianceFactor), 1)
	ceiling := utils.RoundTo(projectedPoints*(1+varianceFactor)*injuryFactor, 1)
	if ceiling <= floor {
		ceiling = utils.RoundTo(floor+0.1, 1)
	}
	return floor, ceiling
}

// ProfileInput is the historical record a risk profile is built from.
type ProfileInput struct {
	GamesPlayed     [3]int // most recent season first
	Age             *int
	Position        string
	Status          models.InjuryStatus
	WeeklyPoints    []float64
	ProjectedPoints float64
}

// Profile composes every metric into one RiskProfile.
func (c *Calculator) Profile(in ProfileInput) models.RiskProfile {
	status := in.Status
	if status == "" {
		status = models.StatusHealthy
	}

	injury := c.InjuryScore(in.GamesPlayed, in.Age, in.Position, status)
	consistency := c.ConsistencyScore(in.WeeklyPoints, in.GamesPlayed[0]+in.GamesPlayed[1]+in.GamesPlayed[2])
	floor, ceiling := c.FloorCeiling(in.ProjectedPoints, consistency, injury)

	return models.RiskProfile{
		InjuryScore:        injury,
		ConsistencyScore:   consistency,
		Floor:              floor,
		Ceiling:            ceiling,
		WeeklyVariance:     weeklyVariance(in.WeeklyPoints, in.ProjectedPoints),
		GamesPlayedHistory: in.GamesPlayed,
		CurrentStatus:      status,
		Age:                in.Age,
	}
}

func weeklyVariance(weeklyPoints []float64, projectedPoints float64) float64 {
	active := activeWeeks(weeklyPoints)
	if len(active) < 2 {
		return utils.RoundTo(math.Max(projectedPoints, 0)*fallbackVarianceShare, 2)
	}
	_, std := stat.PopMeanStdDev(active, nil)
	return utils.RoundTo(std, 2)
}

func activeWeeks(weeklyPoints []float64) []float64 {
	active := make([]float64, 0, len(weeklyPoints))
	for _, p := range weeklyPoints {
		if p > 0 {
			active = append(active, p)
		}
	}
	return active
}
