package providers

import "strings"

// ColumnMap translates source-native stat column names to canonical
// field names. Canonical names are always accepted as-is.
type ColumnMap map[string]string

var ESPNColumns = ColumnMap{
	"Passing_Yards":   "pass_yds",
	"TD_Pass":         "pass_tds",
	"Interceptions":   "pass_ints",
	"Rushing_Yards":   "rush_yds",
	"TD_Rush":         "rush_tds",
	"Receptions":      "receptions",
	"Receiving_Yards": "rec_yds",
	"TD_Rec":          "rec_tds",
	"Fumbles":         "fumbles",
	"2PT":             "two_pts",
	"FG_0-19":         "kick_0_19",
	"FG_20-29":        "kick_20_29",
	"FG_30-39":        "kick_30_39",
	"FG_40-49":        "kick_40_49",
	"FG_50+":          "kick_50",
	"XP":              "kick_xp",
	"Sacks":           "dst_sacks",
	"INT":             "dst_ints",
	"FR":              "dst_fumbles",
	"TD":              "dst_tds",
	"Safety":          "dst_safeties",
	"PA/G":            "dst_pa_per_game",
}

var CBSColumns = ColumnMap{
	"passing_yards":        "pass_yds",
	"touchdowns_passes":    "pass_tds",
	"interceptions_thrown": "pass_ints",
	"rushing_yards":        "rush_yds",
	"rushing_touchdowns":   "rush_tds",
	"receptions":           "receptions",
	"receiving_yards":      "rec_yds",
	"receiving_touchdowns": "rec_tds",
	"fumbles_lost":         "fumbles",
	"2_pt_conversions":     "two_pts",
	"field_goals_0_19":     "kick_0_19",
	"field_goals_20_29":    "kick_20_29",
	"field_goals_30_39":    "kick_30_39",
	"field_goals_40_49":    "kick_40_49",
	"field_goals_50":       "kick_50",
	"extra_points_made":    "kick_xp",
	"sacks":                "dst_sacks",
	"interceptions":        "dst_ints",
	"fumbles_recovered":    "dst_fumbles",
	"touchdowns":           "dst_tds",
	"safeties":             "dst_safeties",
	"points_allowed":       "dst_pa_per_game",
}

// NFL.com columns already use canonical names.
var NFLColumns = ColumnMap{}

// ColumnsFor returns the column map of a known source, or an empty map.
func ColumnsFor(source string) ColumnMap {
	switch strings.ToUpper(source) {
	case "ESPN":
		return ESPNColumns
	case "CBS":
		return CBSColumns
	default:
		return NFLColumns
	}
}

// Canonical resolves a source column to its canonical name.
func (m ColumnMap) Canonical(column string) string {
	if name, ok := m[column]; ok {
		return name
	}
	return column
}
