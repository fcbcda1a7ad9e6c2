// Package scoring classifies a forecast against a confirmed result and
// assigns rating points. Pure functions, no I/O.
package scoring

// Rating points per classification.
const (
	ExactPoints       = 3
	DirectionalPoints = 1
	MissPoints        = 0
)

// Classification is the three-way accuracy verdict for one forecast.
type Classification int

const (
	// Exact means the predicted score matches the final score exactly.
	Exact Classification = iota
	// Directional means the score was wrong but the predicted winner
	// (or draw) matches.
	Directional
	// Miss means neither the score nor the outcome category matches.
	Miss
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case Exact:
		return "exact"
	case Directional:
		return "directional"
	default:
		return "miss"
	}
}

// Points returns the rating contribution of the classification.
func (c Classification) Points() int {
	switch c {
	case Exact:
		return ExactPoints
	case Directional:
		return DirectionalPoints
	default:
		return MissPoints
	}
}

// Classify compares a predicted score against the confirmed final score.
// A draw prediction against a different draw score (1:1 vs 2:2) counts as
// Directional: both sides predicted the same outcome category.
func Classify(predHome, predAway, finalHome, finalAway int) Classification {
	if predHome == finalHome && predAway == finalAway {
		return Exact
	}
	if sign(predHome-predAway) == sign(finalHome-finalAway) {
		return Directional
	}
	return Miss
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
