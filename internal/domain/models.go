package domain

import "fmt"

// Outcome is one selectable betting line for one game: a team name, its
// American-odds price, and an optional point spread.
type Outcome struct {
	Name  string
	Price int
	Point *float64
}

// FormatPrice renders an American-odds price with its sign ("+130", "-150").
func FormatPrice(price int) string {
	if price > 0 {
		return fmt.Sprintf("+%d", price)
	}
	return fmt.Sprintf("%d", price)
}

func (o Outcome) String() string {
	if o.Point != nil {
		return fmt.Sprintf("%s %s (%+.1f)", o.Name, FormatPrice(o.Price), *o.Point)
	}
	return fmt.Sprintf("%s %s", o.Name, FormatPrice(o.Price))
}
