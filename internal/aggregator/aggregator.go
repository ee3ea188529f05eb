package aggregator

import (
	"sort"
	"strings"

	"github.com/stitts-dev/ffdata/internal/models"
)

// SourceProjections is one source's projections in the order it was
// processed.
type SourceProjections struct {
	Source      string
	Projections []models.PlayerProjection
}

// Aggregator merges per-source projections into consensus players.
// An Aggregator holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	weights map[string]float64
}

// New creates an aggregator with the given source weights. Source names are
// matched case-insensitively; unknown sources weigh 1.0.
func New(weights map[string]float64) *Aggregator {
	return &Aggregator{weights: normalizeWeights(weights)}
}

func NewDefault() *Aggregator {
	return New(DefaultSourceWeights())
}

// SourceWeight returns the reliability weight of a source.
func (a *Aggregator) SourceWeight(source string) float64 {
	if w, ok := a.weights[strings.ToLower(source)]; ok {
		return w
	}
	return defaultSourceWeight
}

type sourcedProjection struct {
	source string
	proj   *models.PlayerProjection
}

// Aggregate joins every projected player with its ADP entry and averages
// stats across sources by weight. Players without ADP are dropped. Risk
// profiles are matched by key and schedule scores by team; either map may be
// nil. The result is ordered by standard ADP, ties keeping source order.
func (a *Aggregator) Aggregate(
	sources []SourceProjections,
	adp []models.ADPData,
	riskProfiles map[string]models.RiskProfile,
	scheduleScores map[string]models.ScheduleScore,
) []models.EnhancedPlayer {
	adpByKey := make(map[string]models.ADPData, len(adp))
	for _, entry := range adp {
		if _, exists := adpByKey[entry.Key]; !exists {
			adpByKey[entry.Key] = entry
		}
	}

	var order []string
	groups := make(map[string][]sourcedProjection)
	for _, src := range sources {
		for i := range src.Projections {
			proj := &src.Projections[i]
			if _, seen := groups[proj.Key]; !seen {
				order = append(order, proj.Key)
			}
			groups[proj.Key] = append(groups[proj.Key], sourcedProjection{source: src.Source, proj: proj})
		}
	}

	players := make([]models.EnhancedPlayer, 0, len(order))
	for _, key := range order {
		entry, ok := adpByKey[key]
		if !ok {
			continue
		}
		group := groups[key]
		first := group[0].proj

		player := models.NewEnhancedPlayer(key, first.Name, first.Position, first.Team, entry)
		a.mergeStats(&player, group)
		mergeAdvanced(&player, group)

		if risk, ok := riskProfiles[key]; ok {
			player.InjuryScore = risk.InjuryScore
			player.ConsistencyScore = risk.ConsistencyScore
			player.Floor = risk.Floor
			player.Ceiling = risk.Ceiling
			player.WeeklyVariance = risk.WeeklyVariance
		}
		if sched, ok := scheduleScores[first.Team]; ok {
			player.SOSOverall = sched.SOSOverall
			player.SOSPlayoffs = sched.SOSPlayoffs
			player.ScheduleAdjustment = sched.Adjustment()
		}

		players = append(players, player)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].ADPStd < players[j].ADPStd
	})
	return players
}

// mergeStats averages each stat over the sources that reported it. A value
// of zero or less means the source did not project that stat.
func (a *Aggregator) mergeStats(player *models.EnhancedPlayer, group []sourcedProjection) {
	values := make([]WeightedValue, 0, len(group))
	for _, field := range models.StatFields {
		values = values[:0]
		for _, sp := range group {
			if v := *field.Ptr(&sp.proj.Stats); v > 0 {
				values = append(values, WeightedValue{Value: v, Weight: a.SourceWeight(sp.source)})
			}
		}
		if len(values) > 0 {
			*field.Ptr(&player.Stats) = WeightedAverage(values)
		}
	}
}

// mergeAdvanced takes the first known value of each advanced stat.
func mergeAdvanced(player *models.EnhancedPlayer, group []sourcedProjection) {
	for _, field := range models.AdvancedFields {
		for _, sp := range group {
			if v := *field.Ptr(&sp.proj.Advanced); v != nil {
				copied := *v
				*field.Ptr(&player.Advanced) = &copied
				break
			}
		}
	}
}
