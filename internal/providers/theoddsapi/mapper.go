package theoddsapi

import "mlb-odds-mailer/internal/domain"

// flattenOutcomes combines every game's outcomes into one sequence, preserving
// provider order. Only the first listed bookmaker and its first market are
// used; games with neither are skipped.
func flattenOutcomes(games []gameOdds) []domain.Outcome {
	combined := make([]domain.Outcome, 0, len(games)*2)
	for _, g := range games {
		if len(g.Bookmakers) == 0 || len(g.Bookmakers[0].Markets) == 0 {
			continue
		}
		for _, o := range g.Bookmakers[0].Markets[0].Outcomes {
			combined = append(combined, domain.Outcome{
				Name:  o.Name,
				Price: o.Price,
				Point: o.Point,
			})
		}
	}
	return combined
}
