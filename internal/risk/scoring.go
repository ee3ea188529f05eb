package risk

import (
	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

// Scoring assigns fantasy points to each projected stat.
type Scoring struct {
	PassYd, PassTD, PassInt     float64
	RushYd, RushTD              float64
	Reception, RecYd, RecTD     float64
	Fumble, TwoPt               float64
	FGShort, FG40to49, FG50, XP float64
	Sack, DefInt, DefFumble     float64
	DefTD, Safety               float64
}

// HalfPPR is the scoring used to value projections for floor and ceiling.
var HalfPPR = Scoring{
	PassYd: 0.04, PassTD: 4, PassInt: -2,
	RushYd: 0.1, RushTD: 6,
	Reception: 0.5, RecYd: 0.1, RecTD: 6,
	Fumble: -2, TwoPt: 2,
	FGShort: 3, FG40to49: 4, FG50: 5, XP: 1,
	Sack: 1, DefInt: 2, DefFumble: 2,
	DefTD: 6, Safety: 2,
}

// Points scores a season stat line, rounded to one decimal.
func (s Scoring) Points(st models.Stats) float64 {
	pts := st.PassYds*s.PassYd + st.PassTds*s.PassTD + st.PassInts*s.PassInt +
		st.RushYds*s.RushYd + st.RushTds*s.RushTD +
		st.Receptions*s.Reception + st.RecYds*s.RecYd + st.RecTds*s.RecTD +
		st.Fumbles*s.Fumble + st.TwoPts*s.TwoPt +
		(st.Kick0to19+st.Kick20to29+st.Kick30to39)*s.FGShort +
		st.Kick40to49*s.FG40to49 + st.Kick50*s.FG50 + st.KickXP*s.XP +
		st.DSTSacks*s.Sack + st.DSTInts*s.DefInt + st.DSTFumbles*s.DefFumble +
		st.DSTTds*s.DefTD + st.DSTSafeties*s.Safety
	return utils.RoundTo(pts, 1)
}

// ProjectedPoints values a consensus player in half-PPR.
func ProjectedPoints(p models.EnhancedPlayer) float64 {
	return HalfPPR.Points(p.Stats)
}
