package identity

// Tables holds the lookup data the normalizer resolves against. All keys are
// upper-case.
type Tables struct {
	Teams           map[string]bool
	LegacyTeams     map[string]string
	TeamNames       map[string]string
	Positions       map[string]bool
	PositionAliases map[string]string
}

// DefaultTables returns the current NFL team and position tables.
func DefaultTables() Tables {
	return Tables{
		Teams: setOf(
			"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
			"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
			"LAC", "LAR", "LV", "MIA", "MIN", "NE", "NO", "NYG",
			"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WSH",
		),
		LegacyTeams: map[string]string{
			"WAS": "WSH",
			"JAC": "JAX",
			"LA":  "LAR",
		},
		TeamNames: map[string]string{
			"CARDINALS": "ARI", "ARIZONA": "ARI",
			"FALCONS": "ATL", "ATLANTA": "ATL",
			"RAVENS": "BAL", "BALTIMORE": "BAL",
			"BILLS": "BUF", "BUFFALO": "BUF",
			"PANTHERS": "CAR", "CAROLINA": "CAR",
			"BEARS": "CHI", "CHICAGO": "CHI",
			"BENGALS": "CIN", "CINCINNATI": "CIN",
			"BROWNS": "CLE", "CLEVELAND": "CLE",
			"COWBOYS": "DAL", "DALLAS": "DAL",
			"BRONCOS": "DEN", "DENVER": "DEN",
			"LIONS": "DET", "DETROIT": "DET",
			"PACKERS": "GB", "GREEN BAY": "GB",
			"TEXANS": "HOU", "HOUSTON": "HOU",
			"COLTS": "IND", "INDIANAPOLIS": "IND",
			"JAGUARS": "JAX", "JACKSONVILLE": "JAX",
			"CHIEFS": "KC", "KANSAS CITY": "KC",
			"CHARGERS": "LAC", "L.A. CHARGERS": "LAC", "LOS ANGELES CHARGERS": "LAC",
			"RAMS": "LAR", "L.A. RAMS": "LAR", "LOS ANGELES RAMS": "LAR",
			"RAIDERS": "LV", "LAS VEGAS": "LV",
			"DOLPHINS": "MIA", "MIAMI": "MIA",
			"VIKINGS": "MIN", "MINNESOTA": "MIN",
			"PATRIOTS": "NE", "NEW ENGLAND": "NE",
			"SAINTS": "NO", "NEW ORLEANS": "NO",
			"GIANTS": "NYG", "N.Y. GIANTS": "NYG", "NEW YORK GIANTS": "NYG",
			"JETS": "NYJ", "N.Y. JETS": "NYJ", "NEW YORK JETS": "NYJ",
			"EAGLES": "PHI", "PHILADELPHIA": "PHI",
			"STEELERS": "PIT", "PITTSBURGH": "PIT",
			"SEAHAWKS": "SEA", "SEATTLE": "SEA",
			"49ERS": "SF", "SAN FRANCISCO": "SF",
			"BUCCANEERS": "TB", "TAMPA BAY": "TB",
			"TITANS": "TEN", "TENNESSEE": "TEN",
			"COMMANDERS": "WSH", "WASHINGTON": "WSH",
		},
		Positions: setOf("QB", "RB", "WR", "TE", "K", "DST"),
		PositionAliases: map[string]string{
			"FB":   "RB",
			"D/ST": "DST",
			"DEF":  "DST",
		},
	}
}

func setOf(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
