package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stitts-dev/ffdata/internal/models"
)

const (
	DefaultADPMinPlayers       = 100
	DefaultAggregateMinPlayers = 200

	maxValidADP           = 500
	maxInvalidADPNames    = 5
	minStatsCoverage      = 0.9
	relaxedMinimumDivisor = 3
)

// Position is a required position and the strict minimum number of projected
// players at it.
type Position struct {
	Code      string
	MinStrict int
}

// DefaultPositions lists the position minimums for a full-league scrape.
func DefaultPositions() []Position {
	return []Position{
		{Code: "QB", MinStrict: 32},
		{Code: "RB", MinStrict: 64},
		{Code: "WR", MinStrict: 64},
		{Code: "TE", MinStrict: 28},
		{Code: "K", MinStrict: 15},
		{Code: "DST", MinStrict: 32},
	}
}

// TeamChecker reports whether a team code is canonical.
type TeamChecker interface {
	IsKnownTeam(code string) bool
}

// Validator runs data quality checks. Checks never fail; problems are
// reported through the returned ValidationResult.
type Validator struct {
	positions []Position
	teams     TeamChecker
}

func New(positions []Position, teams TeamChecker) *Validator {
	return &Validator{positions: positions, teams: teams}
}

func (v *Validator) minimum(pos Position, strict bool) int {
	if strict {
		return pos.MinStrict
	}
	return pos.MinStrict / relaxedMinimumDivisor
}

func (v *Validator) knownPosition(code string) bool {
	for _, p := range v.positions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Projections checks one source's projections for positional depth. A strict
// check turns shortfalls into errors; a relaxed check warns against a third
// of the strict minimum. Unknown teams and positions only warn.
func (v *Validator) Projections(projections []models.PlayerProjection, strict bool) models.ValidationResult {
	result := models.NewValidationResult()
	result.Stats["total"] = len(projections)
	result.Stats["by_position"] = map[string]int{}

	if len(projections) == 0 {
		result.AddError("No projections provided")
		return result
	}

	counts := make(map[string]int)
	invalidTeams := make(map[string]bool)
	invalidPositions := make(map[string]bool)
	for _, p := range projections {
		counts[p.Position]++
		if !v.teams.IsKnownTeam(p.Team) {
			invalidTeams[p.Team] = true
		}
		if !v.knownPosition(p.Position) {
			invalidPositions[p.Position] = true
		}
	}
	result.Stats["by_position"] = counts

	for _, pos := range v.positions {
		required := v.minimum(pos, strict)
		actual := counts[pos.Code]
		if actual >= required {
			continue
		}
		if strict {
			result.AddError(fmt.Sprintf("Insufficient %s: %d < %d", pos.Code, actual, required))
		} else {
			result.AddWarning(fmt.Sprintf("Low %s count: %d < %d", pos.Code, actual, required))
		}
	}

	if len(invalidTeams) > 0 {
		result.AddWarning("Unknown teams: " + strings.Join(sortedKeys(invalidTeams), ", "))
	}
	if len(invalidPositions) > 0 {
		result.AddWarning("Unknown positions: " + strings.Join(sortedKeys(invalidPositions), ", "))
	}
	return result
}

// ADP checks the draft position list the whole run depends on.
func (v *Validator) ADP(adp []models.ADPData, minPlayers int) models.ValidationResult {
	result := models.NewValidationResult()
	result.Stats["total"] = len(adp)

	if len(adp) == 0 {
		result.AddError("No ADP data provided")
		return result
	}
	if len(adp) < minPlayers {
		result.AddError(fmt.Sprintf("Insufficient ADP data: %d < %d", len(adp), minPlayers))
	}

	var invalid []string
	seen := make(map[string]bool)
	counts := make(map[string]int)
	for _, entry := range adp {
		counts[entry.Position]++
		if validADP(entry.Std) && validADP(entry.HalfPPR) && validADP(entry.PPR) {
			continue
		}
		if !seen[entry.Name] {
			seen[entry.Name] = true
			invalid = append(invalid, entry.Name)
		}
	}
	if len(invalid) > 0 {
		if len(invalid) > maxInvalidADPNames {
			invalid = invalid[:maxInvalidADPNames]
		}
		result.AddWarning("Players with invalid ADP: " + strings.Join(invalid, ", "))
	}
	result.Stats["by_position"] = counts
	return result
}

func validADP(v float64) bool {
	return v > 0 && v <= maxValidADP
}

// Aggregated checks the final consensus list.
func (v *Validator) Aggregated(players []models.EnhancedPlayer, minPlayers int) models.ValidationResult {
	result := models.NewValidationResult()
	result.Stats["total"] = len(players)

	if len(players) == 0 {
		result.AddError("No aggregated player data")
		return result
	}
	if len(players) < minPlayers {
		result.AddWarning(fmt.Sprintf("Low player count: %d < %d", len(players), minPlayers))
	}

	counts := make(map[string]int)
	withStats := 0
	for _, p := range players {
		counts[p.Position]++
		if p.HasCoreStats() {
			withStats++
		}
	}
	result.Stats["by_position"] = counts
	result.Stats["players_with_stats"] = withStats

	if float64(withStats) < float64(len(players))*minStatsCoverage {
		result.AddWarning(fmt.Sprintf("Many players without stats: %d", len(players)-withStats))
	}
	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
