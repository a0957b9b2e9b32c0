package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

func TestBuildView(t *testing.T) {
	t.Run("nodes accumulate touching amounts", func(t *testing.T) {
		ds := chainDataset(t)
		res, err := Filter(ds, Params{OrgFilter: "A", Depth: 2, SelectedYears: []int{2023}})
		require.NoError(t, err)

		view := BuildView(ds, res.NetworkResult)
		assert.Equal(t, []domain.NetworkNode{
			{ID: "A", Name: "Org A", Value: 100, Depth: 0},
			{ID: "B", Name: "Org B", Value: 150, Depth: 1},
			{ID: "C", Name: "Org C", Value: 50, Depth: 2},
		}, view.Nodes)
		assert.Equal(t, []domain.NetworkLink{
			{Source: "A", Target: "B", Value: 100, TaxYear: 2023},
			{Source: "B", Target: "C", Value: 50, TaxYear: 2023},
		}, view.Links)
	})

	t.Run("root only view sizes the root by its loops", func(t *testing.T) {
		ds := buildDataset(t, []string{"A"}, grant("A", "A", 30, 2023))
		res, err := Filter(ds, Params{OrgFilter: "A", Depth: 0, SelectedYears: []int{2023}})
		require.NoError(t, err)

		view := BuildView(ds, res.NetworkResult)
		require.Len(t, view.Nodes, 1)
		assert.Equal(t, 30.0, view.Nodes[0].Value)
		require.Len(t, view.Links, 1)
		assert.True(t, view.Links[0].IsSelf)
	})

	t.Run("empty root view has unit value", func(t *testing.T) {
		ds := chainDataset(t)
		res, err := Filter(ds, Params{OrgFilter: "C", Depth: 2, SelectedYears: []int{1999}})
		require.NoError(t, err)

		view := BuildView(ds, res.NetworkResult)
		assert.Equal(t, []domain.NetworkNode{{ID: "C", Name: "Org C", Value: 1}}, view.Nodes)
		assert.Empty(t, view.Links)
	})

	t.Run("unknown root renders nothing", func(t *testing.T) {
		ds := chainDataset(t)
		res, err := Filter(ds, Params{OrgFilter: "Z"})
		require.NoError(t, err)
		assert.Empty(t, BuildView(ds, res.NetworkResult).Nodes)
	})
}
