package aggregator

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/ffdata/pkg/utils"
)

const defaultSourceWeight = 1.0

// DefaultSourceWeights are the reliability weights of the known sources.
func DefaultSourceWeights() map[string]float64 {
	return map[string]float64{
		"FantasyPros": 1.2,
		"ESPN":        1.0,
		"CBS":         0.9,
		"NFL":         0.8,
	}
}

// WeightedValue is one source's value for a stat and that source's weight.
type WeightedValue struct {
	Value  float64
	Weight float64
}

// WeightedAverage returns sum(value*weight)/sum(weight) rounded to two
// decimals. Entries with a non-positive weight are ignored; with nothing
// left the result is 0.
func WeightedAverage(values []WeightedValue) float64 {
	xs := make([]float64, 0, len(values))
	ws := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Weight > 0 {
			xs = append(xs, v.Value)
			ws = append(ws, v.Weight)
		}
	}
	if len(xs) == 0 {
		return 0
	}
	return utils.RoundTo(stat.Mean(xs, ws), 2)
}

// normalizeWeights keys a weight table by lower-case source name.
func normalizeWeights(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	for name, w := range weights {
		out[strings.ToLower(name)] = w
	}
	return out
}
