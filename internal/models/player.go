package models

// Stats holds the projected season totals shared by per-source projections
// and the aggregated player. Zero means "not reported".
type Stats struct {
	PassYds    float64 `json:"pass_yds"`
	PassTds    float64 `json:"pass_tds"`
	PassInts   float64 `json:"pass_ints"`
	RushYds    float64 `json:"rush_yds"`
	RushTds    float64 `json:"rush_tds"`
	Receptions float64 `json:"receptions"`
	RecYds     float64 `json:"rec_yds"`
	RecTds     float64 `json:"rec_tds"`
	Fumbles    float64 `json:"fumbles"`
	TwoPts     float64 `json:"two_pts"`

	// Kicker
	Kick0to19  float64 `json:"kick_0_19"`
	Kick20to29 float64 `json:"kick_20_29"`
	Kick30to39 float64 `json:"kick_30_39"`
	Kick40to49 float64 `json:"kick_40_49"`
	Kick50     float64 `json:"kick_50"`
	KickXP     float64 `json:"kick_xp"`

	// Team defense
	DSTSacks     float64 `json:"dst_sacks"`
	DSTInts      float64 `json:"dst_ints"`
	DSTFumbles   float64 `json:"dst_fumbles"`
	DSTTds       float64 `json:"dst_tds"`
	DSTSafeties  float64 `json:"dst_safeties"`
	DSTPAPerGame float64 `json:"dst_pa_per_game"`
}

// StatField gives name-based access to one Stats field.
type StatField struct {
	Name string
	Ptr  func(*Stats) *float64
}

// StatFields lists every Stats field in output order.
var StatFields = []StatField{
	{"pass_yds", func(s *Stats) *float64 { return &s.PassYds }},
	{"pass_tds", func(s *Stats) *float64 { return &s.PassTds }},
	{"pass_ints", func(s *Stats) *float64 { return &s.PassInts }},
	{"rush_yds", func(s *Stats) *float64 { return &s.RushYds }},
	{"rush_tds", func(s *Stats) *float64 { return &s.RushTds }},
	{"receptions", func(s *Stats) *float64 { return &s.Receptions }},
	{"rec_yds", func(s *Stats) *float64 { return &s.RecYds }},
	{"rec_tds", func(s *Stats) *float64 { return &s.RecTds }},
	{"fumbles", func(s *Stats) *float64 { return &s.Fumbles }},
	{"two_pts", func(s *Stats) *float64 { return &s.TwoPts }},
	{"kick_0_19", func(s *Stats) *float64 { return &s.Kick0to19 }},
	{"kick_20_29", func(s *Stats) *float64 { return &s.Kick20to29 }},
	{"kick_30_39", func(s *Stats) *float64 { return &s.Kick30to39 }},
	{"kick_40_49", func(s *Stats) *float64 { return &s.Kick40to49 }},
	{"kick_50", func(s *Stats) *float64 { return &s.Kick50 }},
	{"kick_xp", func(s *Stats) *float64 { return &s.KickXP }},
	{"dst_sacks", func(s *Stats) *float64 { return &s.DSTSacks }},
	{"dst_ints", func(s *Stats) *float64 { return &s.DSTInts }},
	{"dst_fumbles", func(s *Stats) *float64 { return &s.DSTFumbles }},
	{"dst_tds", func(s *Stats) *float64 { return &s.DSTTds }},
	{"dst_safeties", func(s *Stats) *float64 { return &s.DSTSafeties }},
	{"dst_pa_per_game", func(s *Stats) *float64 { return &s.DSTPAPerGame }},
}

// LookupStatField finds a stat field by its canonical name.
func LookupStatField(name string) (StatField, bool) {
	for _, f := range StatFields {
		if f.Name == name {
			return f, true
		}
	}
	return StatField{}, false
}

// Advanced holds supplementary usage signals. Nil means unknown.
type Advanced struct {
	TargetShare       *float64 `json:"target_share"`
	SnapPct           *float64 `json:"snap_pct"`
	RedZoneTargets    *float64 `json:"red_zone_targets"`
	RedZoneCarries    *float64 `json:"red_zone_carries"`
	AirYards          *float64 `json:"air_yards"`
	YardsAfterContact *float64 `json:"yards_after_contact"`
}

// AdvancedField gives name-based access to one Advanced field.
type AdvancedField struct {
	Name string
	Ptr  func(*Advanced) **float64
}

var AdvancedFields = []AdvancedField{
	{"target_share", func(a *Advanced) **float64 { return &a.TargetShare }},
	{"snap_pct", func(a *Advanced) **float64 { return &a.SnapPct }},
	{"red_zone_targets", func(a *Advanced) **float64 { return &a.RedZoneTargets }},
	{"red_zone_carries", func(a *Advanced) **float64 { return &a.RedZoneCarries }},
	{"air_yards", func(a *Advanced) **float64 { return &a.AirYards }},
	{"yards_after_contact", func(a *Advanced) **float64 { return &a.YardsAfterContact }},
}

// LookupAdvancedField finds an advanced field by its canonical name.
func LookupAdvancedField(name string) (AdvancedField, bool) {
	for _, f := range AdvancedFields {
		if f.Name == name {
			return f, true
		}
	}
	return AdvancedField{}, false
}

// PlayerProjection is one source's projection for one player.
type PlayerProjection struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Position string `json:"pos"`
	Team     string `json:"team"`

	Stats
	Advanced
}

// ADPData is the market draft position of a player in three scoring formats.
type ADPData struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Position string  `json:"pos"`
	Team     string  `json:"team"`
	Bye      int     `json:"bye"`
	Std      float64 `json:"std"`
	HalfPPR  float64 `json:"half_ppr"`
	PPR      float64 `json:"ppr"`
}

const (
	DefaultInjuryScore      = 30
	DefaultConsistencyScore = 0.5
)

// EnhancedPlayer is the consensus record exported per player.
type EnhancedPlayer struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Position string `json:"pos"`
	Team     string `json:"team"`
	Bye      int    `json:"bye"`

	ADPStd     float64 `json:"adp_std"`
	ADPHalfPPR float64 `json:"adp_half_ppr"`
	ADPPPR     float64 `json:"adp_ppr"`

	Stats
	Advanced

	// Risk profile
	InjuryScore      int     `json:"injury_score"`
	ConsistencyScore float64 `json:"consistency_score"`
	Floor            float64 `json:"floor"`
	Ceiling          float64 `json:"ceiling"`
	WeeklyVariance   float64 `json:"weekly_variance"`

	// Schedule analysis
	SOSOverall         float64 `json:"sos_overall"`
	SOSPlayoffs        float64 `json:"sos_playoffs"`
	ScheduleAdjustment float64 `json:"schedule_adjustment"`
}

// NewEnhancedPlayer seeds an output record from its ADP entry with the
// documented risk defaults.
func NewEnhancedPlayer(key, name, position, team string, adp ADPData) EnhancedPlayer {
	return EnhancedPlayer{
		Key:              key,
		Name:             name,
		Position:         position,
		Team:             team,
		Bye:              adp.Bye,
		ADPStd:           adp.Std,
		ADPHalfPPR:       adp.HalfPPR,
		ADPPPR:           adp.PPR,
		InjuryScore:      DefaultInjuryScore,
		ConsistencyScore: DefaultConsistencyScore,
	}
}

// HasCoreStats reports whether any headline stat is projected.
func (p EnhancedPlayer) HasCoreStats() bool {
	return p.PassYds > 0 || p.RushYds > 0 || p.RecYds > 0 || p.DSTSacks > 0 || p.KickXP > 0
}
