package network

import (
	"math"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

// Summary holds aggregate figures over a set of grants.
type Summary struct {
	Count  int
	Total  float64
	Mean   float64
	StdDev float64
}

// ComputeStats aggregates grant amounts. Count is the number of grants; NaN and
// infinite amounts are left out of Total, Mean and StdDev. StdDev is the population
// standard deviation (divides by N).
func ComputeStats(grants []domain.Grant) Summary {
	s := Summary{Count: len(grants)}

	amounts := make([]float64, 0, len(grants))
	for _, g := range grants {
		if math.IsNaN(g.Amount) || math.IsInf(g.Amount, 0) {
			continue
		}
		amounts = append(amounts, g.Amount)
	}
	if len(amounts) == 0 {
		return s
	}

	for _, a := range amounts {
		s.Total += a
	}
	n := float64(len(amounts))
	s.Mean = s.Total / n

	var squares float64
	for _, a := range amounts {
		d := a - s.Mean
		squares += d * d
	}
	s.StdDev = math.Sqrt(squares / n)
	return s
}
