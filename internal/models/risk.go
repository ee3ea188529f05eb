package models

import "strings"

// InjuryStatus is a player's current availability designation.
type InjuryStatus string

const (
	StatusHealthy      InjuryStatus = "healthy"
	StatusQuestionable InjuryStatus = "questionable"
	StatusOut          InjuryStatus = "out"
	StatusInjured      InjuryStatus = "injured"
	StatusIR           InjuryStatus = "ir"
)

// ParseInjuryStatus maps free text onto a known status. Unrecognized or empty
// values are treated as healthy.
func ParseInjuryStatus(raw string) InjuryStatus {
	switch s := InjuryStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusQuestionable, StatusOut, StatusInjured, StatusIR:
		return s
	case "injured reserve", "injured_reserve":
		return StatusIR
	default:
		return StatusHealthy
	}
}

// RiskProfile is the derived injury and volatility assessment of one player.
type RiskProfile struct {
	InjuryScore        int          `json:"injury_score"`      // 0-100, higher = riskier
	ConsistencyScore   float64      `json:"consistency_score"` // 0-1, higher = steadier
	Floor              float64      `json:"floor"`
	Ceiling            float64      `json:"ceiling"`
	WeeklyVariance     float64      `json:"weekly_variance"`
	GamesPlayedHistory [3]int       `json:"games_played_history"` // most recent season first
	CurrentStatus      InjuryStatus `json:"current_status"`
	Age                *int         `json:"age"`
}
