package models

import "github.com/stitts-dev/ffdata/pkg/utils"

// ScheduleScore summarizes a team's season matchup difficulty.
type ScheduleScore struct {
	Team           string  `json:"team"`
	SOSOverall     float64 `json:"sos_overall"`  // -1 (easy) to 1 (hard)
	SOSPlayoffs    float64 `json:"sos_playoffs"` // weeks 14-17
	WeeklyMatchups []int   `json:"weekly_matchups"`
	ByeWeek        int     `json:"bye_week"`
	DomeGames      int     `json:"dome_games"`
}

// Adjustment converts schedule strength into a valuation adjustment in
// [-15, 15]. Harder schedules are negative.
func (s ScheduleScore) Adjustment() float64 {
	combined := s.SOSOverall*0.4 + s.SOSPlayoffs*0.6
	return utils.RoundTo(-combined*15, 1)
}
