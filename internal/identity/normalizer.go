package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stitts-dev/ffdata/pkg/utils"
)

// KeyResolver derives the cross-source key for a player. Implementations must
// return the same key for the same person regardless of source.
type KeyResolver interface {
	ResolvePlayerKey(name, position, team string) string
}

// Normalizer canonicalizes team and position labels against injected tables.
type Normalizer struct {
	tables Tables
}

// NewNormalizer creates a normalizer over the given tables.
func NewNormalizer(tables Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// NewDefaultNormalizer creates a normalizer over DefaultTables.
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultTables())
}

// NormalizeTeam resolves an abbreviation, legacy code, franchise name or city
// to a canonical team code.
func (n *Normalizer) NormalizeTeam(raw string) (string, error) {
	team := strings.ToUpper(strings.TrimSpace(raw))
	if n.tables.Teams[team] {
		return team, nil
	}
	if code, ok := n.tables.LegacyTeams[team]; ok {
		return code, nil
	}
	if code, ok := n.tables.TeamNames[team]; ok {
		return code, nil
	}
	return "", utils.NewAppError(utils.ErrCodeUnknownIdentifier, "unknown team", fmt.Sprintf("%q", raw))
}

// NormalizePosition resolves a position label to QB, RB, WR, TE, K or DST.
func (n *Normalizer) NormalizePosition(raw string) (string, error) {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	if n.tables.Positions[pos] {
		return pos, nil
	}
	if canonical, ok := n.tables.PositionAliases[pos]; ok {
		return canonical, nil
	}
	return "", utils.NewAppError(utils.ErrCodeUnknownIdentifier, "unknown position", fmt.Sprintf("%q", raw))
}

// IsKnownTeam reports whether code is a canonical team code.
func (n *Normalizer) IsKnownTeam(code string) bool {
	return n.tables.Teams[code]
}

// IsKnownPosition reports whether pos is a canonical position.
func (n *Normalizer) IsKnownPosition(pos string) bool {
	return n.tables.Positions[pos]
}

// ResolvePlayerKey implements KeyResolver with PlayerKey.
func (n *Normalizer) ResolvePlayerKey(name, position, team string) string {
	return PlayerKey(name, position, team)
}

// ResolveKey keys a player whose position and team are already canonical.
// Team defenses are keyed on the team code, whatever the source calls them.
func ResolveKey(keys KeyResolver, name, position, team string) string {
	if position == "DST" {
		return keys.ResolvePlayerKey(team+" D/ST", position, team)
	}
	return keys.ResolvePlayerKey(name, position, team)
}

var nonLetters = regexp.MustCompile(`[^a-z ]+`)

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// PlayerKey builds "<surname>_<pos>_<team>" in lower case. Generational
// suffixes are dropped so "Odell Beckham Jr." and "Odell Beckham" collide.
func PlayerKey(name, position, team string) string {
	clean := strings.ReplaceAll(strings.ToLower(name), ".", "")
	clean = nonLetters.ReplaceAllString(clean, "")
	parts := strings.Fields(clean)
	for len(parts) > 1 && nameSuffixes[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}

	last := ""
	if len(parts) > 0 {
		last = parts[len(parts)-1]
	}
	return last + "_" + strings.ToLower(position) + "_" + strings.ToLower(team)
}
