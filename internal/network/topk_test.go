package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

func edge(filer, grantee string, amount float64) domain.Grant {
	return domain.Grant{FilerEIN: filer, GrantEIN: grantee, Amount: amount, TaxYear: 2023}
}

func TestLimitToTopOrgs(t *testing.T) {
	t.Run("drops grants whose endpoint did not survive", func(t *testing.T) {
		grants := []domain.Grant{edge("A", "B", 100), edge("B", "C", 50)}
		// B accumulates 150, C only 50.
		kept, orgs := LimitToTopOrgs(grants, 1, "A")

		assert.Equal(t, []string{"A", "B"}, orgs)
		assert.Equal(t, []domain.Grant{edge("A", "B", 100)}, kept)
	})

	t.Run("breaks volume ties by identifier", func(t *testing.T) {
		grants := []domain.Grant{edge("A", "Z", 40), edge("A", "M", 40), edge("A", "C", 40)}
		kept, orgs := LimitToTopOrgs(grants, 2, "A")

		assert.Equal(t, []string{"A", "C", "M"}, orgs)
		assert.Equal(t, []domain.Grant{edge("A", "M", 40), edge("A", "C", 40)}, kept)
	})

	t.Run("zero slots keeps only root self loops", func(t *testing.T) {
		grants := []domain.Grant{edge("A", "B", 10), edge("A", "A", 5)}
		kept, orgs := LimitToTopOrgs(grants, 0, "A")

		assert.Equal(t, []string{"A"}, orgs)
		assert.Equal(t, []domain.Grant{edge("A", "A", 5)}, kept)
	})

	t.Run("negative slots behave like zero", func(t *testing.T) {
		_, orgs := LimitToTopOrgs([]domain.Grant{edge("A", "B", 10)}, -3, "A")
		assert.Equal(t, []string{"A"}, orgs)
	})

	t.Run("ignores non-finite amounts when ranking", func(t *testing.T) {
		grants := []domain.Grant{edge("A", "B", math.NaN()), edge("A", "C", 1)}
		_, orgs := LimitToTopOrgs(grants, 1, "A")
		assert.Equal(t, []string{"A", "C"}, orgs)
	})

	t.Run("self loops count toward volume", func(t *testing.T) {
		grants := []domain.Grant{edge("A", "B", 10), edge("C", "C", 6), edge("A", "C", 0)}
		_, orgs := LimitToTopOrgs(grants, 1, "A")
		assert.Equal(t, []string{"A", "C"}, orgs)
	})
}
