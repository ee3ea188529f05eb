package inputs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/ffdata/internal/identity"
	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/internal/risk"
	"github.com/stitts-dev/ffdata/internal/schedule"
)

// PlayerHistory is the hand-maintained durability record of one player.
type PlayerHistory struct {
	Name         string    `yaml:"name"`
	Position     string    `yaml:"position"`
	Team         string    `yaml:"team"`
	GamesPlayed  []int     `yaml:"games_played"` // most recent season first
	Age          *int      `yaml:"age"`
	Status       string    `yaml:"status"`
	WeeklyPoints []float64 `yaml:"weekly_points"`
}

type RiskFile struct {
	Players []PlayerHistory `yaml:"players"`
}

type TeamSchedule struct {
	Team    string             `yaml:"team"`
	ByeWeek int                `yaml:"bye_week"`
	Weeks   []schedule.Matchup `yaml:"weeks"`
}

type ScheduleFile struct {
	Teams []TeamSchedule `yaml:"teams"`
}

func LoadRiskFile(path string) (*RiskFile, error) {
	var f RiskFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadScheduleFile(path string) (*ScheduleFile, error) {
	var f ScheduleFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func readYAML(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// BuildScheduleScores scores every team in the file. Teams that do not
// normalize are counted as skipped.
func BuildScheduleScores(f *ScheduleFile, analyzer *schedule.Analyzer, normalizer *identity.Normalizer) (map[string]models.ScheduleScore, int) {
	scores := make(map[string]models.ScheduleScore, len(f.Teams))
	skipped := 0
	for _, ts := range f.Teams {
		team, err := normalizer.NormalizeTeam(ts.Team)
		if err != nil {
			skipped++
			continue
		}
		scores[team] = analyzer.ScoreFromMatchups(team, ts.Weeks, ts.ByeWeek)
	}
	return scores, skipped
}

// BuildRiskProfiles computes a profile for every player in the file. Season
// projections come from players, the consensus list of a prior aggregation,
// matched by key; players absent from it are profiled with no projection.
func BuildRiskProfiles(
	f *RiskFile,
	players []models.EnhancedPlayer,
	calc *risk.Calculator,
	normalizer *identity.Normalizer,
	keys identity.KeyResolver,
) (map[string]models.RiskProfile, int) {
	projected := make(map[string]float64, len(players))
	for _, p := range players {
		projected[p.Key] = risk.ProjectedPoints(p)
	}

	profiles := make(map[string]models.RiskProfile, len(f.Players))
	skipped := 0
	for _, h := range f.Players {
		pos, err := normalizer.NormalizePosition(h.Position)
		if err != nil {
			skipped++
			continue
		}
		team, err := normalizer.NormalizeTeam(h.Team)
		if err != nil {
			skipped++
			continue
		}
		key := identity.ResolveKey(keys, h.Name, pos, team)

		var games [3]int
		copy(games[:], h.GamesPlayed)

		profiles[key] = calc.Profile(risk.ProfileInput{
			GamesPlayed:     games,
			Age:             h.Age,
			Position:        pos,
			Status:          models.ParseInjuryStatus(h.Status),
			WeeklyPoints:    h.WeeklyPoints,
			ProjectedPoints: projected[key],
		})
	}
	return profiles, skipped
}
