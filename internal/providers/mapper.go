package providers

import (
	"errors"
	"strings"

	"github.com/stitts-dev/ffdata/internal/identity"
	"github.com/stitts-dev/ffdata/internal/models"
)

// ErrFreeAgent marks rows for players without a team; they are skipped.
var ErrFreeAgent = errors.New("free agent")

var defenseSuffixes = []string{"D/ST", "DST", "Defense"}

// Mapper turns raw scraped rows into keyed projections.
type Mapper struct {
	normalizer *identity.Normalizer
	keys       identity.KeyResolver
}

func NewMapper(normalizer *identity.Normalizer, keys identity.KeyResolver) *Mapper {
	return &Mapper{normalizer: normalizer, keys: keys}
}

// identify resolves position, team and key for a row. Team defenses may
// carry the franchise only in the name ("Eagles D/ST", "Eagles Defense");
// their key is derived from the team code so every source agrees on it.
func (m *Mapper) identify(name, rawPos, rawTeam string) (pos, team, key string, err error) {
	if franchise, ok := defenseFranchise(name); ok && (rawPos == "" || isDefenseLabel(rawPos)) {
		team, err = m.normalizer.NormalizeTeam(franchise)
		if err != nil && rawTeam != "" {
			team, err = m.normalizer.NormalizeTeam(rawTeam)
		}
		if err != nil {
			return "", "", "", err
		}
		return "DST", team, identity.ResolveKey(m.keys, name, "DST", team), nil
	}

	if t := strings.TrimSpace(rawTeam); t == "" || strings.EqualFold(t, "FA") {
		return "", "", "", ErrFreeAgent
	}
	if pos, err = m.normalizer.NormalizePosition(rawPos); err != nil {
		return "", "", "", err
	}
	if team, err = m.normalizer.NormalizeTeam(rawTeam); err != nil {
		return "", "", "", err
	}
	return pos, team, identity.ResolveKey(m.keys, name, pos, team), nil
}

// MapProjection converts one row. Unknown teams or positions return an
// identity error and free agents return ErrFreeAgent; callers skip the row.
func (m *Mapper) MapProjection(row RawPlayerRow, columns ColumnMap) (models.PlayerProjection, error) {
	name := strings.TrimSpace(row.Name)
	pos, team, key, err := m.identify(name, row.Position, row.Team)
	if err != nil {
		return models.PlayerProjection{}, err
	}

	proj := models.PlayerProjection{Key: key, Name: name, Position: pos, Team: team}
	for column, value := range row.Stats {
		if field, ok := models.LookupStatField(columns.Canonical(column)); ok {
			*field.Ptr(&proj.Stats) = value
		}
	}
	for column, value := range row.Advanced {
		if field, ok := models.LookupAdvancedField(column); ok {
			v := value
			*field.Ptr(&proj.Advanced) = &v
		}
	}
	return proj, nil
}

// MapProjections converts a source's rows, keeping the first row per key.
// It returns the number of rows skipped.
func (m *Mapper) MapProjections(rows []RawPlayerRow, columns ColumnMap) ([]models.PlayerProjection, int) {
	out := make([]models.PlayerProjection, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	skipped := 0
	for _, row := range rows {
		proj, err := m.MapProjection(row, columns)
		if err != nil || seen[proj.Key] {
			skipped++
			continue
		}
		seen[proj.Key] = true
		out = append(out, proj)
	}
	return out, skipped
}

// MergeADP folds per-format ADP rows into one record per player, in the
// order players first appear. Formats missing for a player stay 0.
func (m *Mapper) MergeADP(rows []RawADPRow) ([]models.ADPData, int) {
	var order []string
	byKey := make(map[string]*models.ADPData)
	skipped := 0

	for _, row := range rows {
		format := strings.ToLower(strings.TrimSpace(row.Format))
		if format == "" {
			format = FormatStandard
		}
		if format != FormatStandard && format != FormatHalfPPR && format != FormatPPR {
			skipped++
			continue
		}

		name := strings.TrimSpace(row.Name)
		pos, team, key, err := m.identify(name, row.Position, row.Team)
		if err != nil {
			skipped++
			continue
		}

		entry, ok := byKey[key]
		if !ok {
			entry = &models.ADPData{Key: key, Name: name, Position: pos, Team: team}
			byKey[key] = entry
			order = append(order, key)
		}
		if entry.Bye == 0 {
			entry.Bye = row.Bye
		}

		switch format {
		case FormatStandard:
			entry.Std = row.ADP
		case FormatHalfPPR:
			entry.HalfPPR = row.ADP
		case FormatPPR:
			entry.PPR = row.ADP
		}
	}

	out := make([]models.ADPData, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out, skipped
}

func isDefenseLabel(pos string) bool {
	switch strings.ToUpper(strings.TrimSpace(pos)) {
	case "DST", "D/ST", "DEF":
		return true
	}
	return false
}

// defenseFranchise extracts "Eagles" from "Eagles D/ST" or "Eagles Defense".
func defenseFranchise(name string) (string, bool) {
	for _, suffix := range defenseSuffixes {
		if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			return strings.TrimSpace(name[:len(name)-len(suffix)]), true
		}
	}
	return "", false
}
