package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name   string
		grants []domain.Grant
		want   Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name:   "single grant has no spread",
			grants: []domain.Grant{edge("A", "B", 42)},
			want:   Summary{Count: 1, Total: 42, Mean: 42},
		},
		{
			name:   "population deviation",
			grants: []domain.Grant{edge("A", "B", 2), edge("A", "C", 4), edge("A", "D", 4), edge("A", "E", 4), edge("B", "C", 5), edge("B", "D", 5), edge("B", "E", 7), edge("C", "D", 9)},
			want:   Summary{Count: 8, Total: 40, Mean: 5, StdDev: 2},
		},
		{
			name:   "non-finite amounts are counted but not aggregated",
			grants: []domain.Grant{edge("A", "B", 10), edge("A", "C", math.NaN()), edge("A", "D", math.Inf(1)), edge("A", "E", 20)},
			want:   Summary{Count: 4, Total: 30, Mean: 15, StdDev: 5},
		},
		{
			name:   "only non-finite amounts",
			grants: []domain.Grant{edge("A", "B", math.NaN())},
			want:   Summary{Count: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.grants)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-9)
		})
	}
}
