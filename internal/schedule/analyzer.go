package schedule

import (
	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

const (
	RegularSeasonWeeks = 17
	playoffStartWeek   = 14
	playoffEndWeek     = 17
)

// DefaultWeekWeights weights fantasy playoff weeks 14-17 above the rest of
// the season and the opening month below it.
func DefaultWeekWeights() map[int]float64 {
	weights := make(map[int]float64, RegularSeasonWeeks)
	for week := 1; week <= RegularSeasonWeeks; week++ {
		switch {
		case week <= 4:
			weights[week] = 0.8
		case week < playoffStartWeek:
			weights[week] = 1.0
		default:
			weights[week] = 1.5
		}
	}
	return weights
}

// Analyzer scores schedule difficulty. Weeks missing from the weight table
// count with weight 1.
type Analyzer struct {
	weekWeights map[int]float64
}

func NewAnalyzer(weekWeights map[int]float64) *Analyzer {
	return &Analyzer{weekWeights: weekWeights}
}

func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultWeekWeights())
}

// MatchupRating converts an opponent's defensive rank (1 = best) into a
// difficulty rating from 1 (easy) to 5 (hard). Dome games are one step easier.
func MatchupRating(defensiveRank int, dome bool) int {
	var rating int
	switch {
	case defensiveRank <= 6:
		rating = 5
	case defensiveRank <= 12:
		rating = 4
	case defensiveRank <= 20:
		rating = 3
	case defensiveRank <= 26:
		rating = 2
	default:
		rating = 1
	}
	if dome && rating > 1 {
		rating--
	}
	return rating
}

func normalize(rating float64) float64 {
	return (rating - 3) / 2
}

// SOS is the week-weighted strength of schedule in [-1, 1]. Ratings are
// indexed from week 1.
func (a *Analyzer) SOS(weeklyRatings []int) float64 {
	if len(weeklyRatings) == 0 {
		return 0
	}

	var weightedSum, totalWeight float64
	for i, rating := range weeklyRatings {
		weight, ok := a.weekWeights[i+1]
		if !ok {
			weight = 1.0
		}
		weightedSum += normalize(float64(rating)) * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return utils.RoundTo(utils.Clamp(weightedSum/totalWeight, -1, 1), 3)
}

// PlayoffSOS averages weeks 14-17. A schedule shorter than a full regular
// season scores 0.
func (a *Analyzer) PlayoffSOS(weeklyRatings []int) float64 {
	if len(weeklyRatings) < RegularSeasonWeeks {
		return 0
	}

	playoffs := weeklyRatings[playoffStartWeek-1 : playoffEndWeek]
	sum := 0
	for _, rating := range playoffs {
		sum += rating
	}
	avg := float64(sum) / float64(len(playoffs))
	return utils.RoundTo(utils.Clamp(normalize(avg), -1, 1), 3)
}

// Score builds a team's ScheduleScore from its weekly ratings.
func (a *Analyzer) Score(team string, weeklyRatings []int, byeWeek, domeGames int) models.ScheduleScore {
	return models.ScheduleScore{
		Team:           team,
		SOSOverall:     a.SOS(weeklyRatings),
		SOSPlayoffs:    a.PlayoffSOS(weeklyRatings),
		WeeklyMatchups: weeklyRatings,
		ByeWeek:        byeWeek,
		DomeGames:      domeGames,
	}
}

// Matchup is one scheduled game as seen from the offense.
type Matchup struct {
	OpponentRank int  `yaml:"opponent_rank" json:"opponent_rank"`
	Dome         bool `yaml:"dome" json:"dome"`
}

// ScoreFromMatchups rates every game and counts dome games before scoring.
func (a *Analyzer) ScoreFromMatchups(team string, games []Matchup, byeWeek int) models.ScheduleScore {
	ratings := make([]int, 0, len(games))
	domes := 0
	for _, g := range games {
		ratings = append(ratings, MatchupRating(g.OpponentRank, g.Dome))
		if g.Dome {
			domes++
		}
	}
	return a.Score(team, ratings, byeWeek, domes)
}
