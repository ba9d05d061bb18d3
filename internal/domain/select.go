package domain

import "errors"

// ErrNoOutcomes indicates an empty slate: there is nothing to pick from and
// nothing to send. It is not a provider failure.
var ErrNoOutcomes = errors.New("no outcomes available")

// BestOutcome returns the most favored outcome across the day's slate: the one
// with the minimum American-odds price. Ties keep the first occurrence in
// provider order.
func BestOutcome(outcomes []Outcome) (Outcome, error) {
	if len(outcomes) == 0 {
		return Outcome{}, ErrNoOutcomes
	}
	best := outcomes[0]
	for _, o := range outcomes[1:] {
		if o.Price < best.Price {
			best = o
		}
	}
	return best, nil
}
