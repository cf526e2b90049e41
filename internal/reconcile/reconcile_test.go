package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-engine/internal/model"
)

func result(id, value string, weight float64, fetchedAt time.Time) model.SourceResult {
	return model.SourceResult{
		SourceID:          id,
		Value:             value,
		ReliabilityWeight: weight,
		FetchedAt:         fetchedAt,
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1987", Normalize("1987."))
	assert.Equal(t, "1987", Normalize(" 1987 "))
	assert.Equal(t, "acme corp", Normalize("Acme, Corp."))
	assert.Equal(t, "san francisco california", Normalize("San Francisco,  California"))
	assert.Equal(t, Normalize("ACME CORP"), Normalize("acme corp"))
}

func TestReconcile_Agreement(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("wikipedia", "1987", 0.9, now),
		result("websearch", "1987.", 0.6, now),
	}

	answer, err := Reconcile(results)
	require.NoError(t, err)

	assert.Equal(t, "1987", answer.Value)
	assert.Equal(t, []string{"websearch", "wikipedia"}, answer.SupportingSources)
	assert.Empty(t, answer.ConflictingSources)
}

func TestReconcile_ConflictHigherWeightWins(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("wikipedia", "1987", 0.9, now),
		result("websearch", "1991", 0.6, now),
	}

	answer, err := Reconcile(results)
	require.NoError(t, err)

	assert.Equal(t, "1987", answer.Value)
	assert.Equal(t, []string{"wikipedia"}, answer.SupportingSources)
	assert.Equal(t, []string{"websearch"}, answer.ConflictingSources)
}

func TestReconcile_OrderIndependent(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("a", "Alpha", 0.5, now),
		result("b", "alpha.", 0.4, now.Add(time.Second)),
		result("c", "Beta", 0.7, now),
	}

	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	first, err := Reconcile(results)
	require.NoError(t, err)

	for _, p := range perms {
		permuted := []model.SourceResult{results[p[0]], results[p[1]], results[p[2]]}
		answer, err := Reconcile(permuted)
		require.NoError(t, err)
		assert.Equal(t, first, answer, "permutation %v", p)
	}
}

func TestReconcile_TieBreakByRecency(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("old", "1987", 0.5, now.Add(-time.Hour)),
		result("new", "1991", 0.5, now),
	}

	answer, err := Reconcile(results)
	require.NoError(t, err)

	assert.Equal(t, "1991", answer.Value)
	assert.Equal(t, []string{"new"}, answer.SupportingSources)
}

func TestReconcile_TieBreakBySourceID(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("zeta", "1991", 0.5, now),
		result("alpha", "1987", 0.5, now),
	}

	answer, err := Reconcile(results)
	require.NoError(t, err)

	assert.Equal(t, "1987", answer.Value)
	assert.Equal(t, []string{"alpha"}, answer.SupportingSources)
}

func TestReconcile_SkipsAbsentResults(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		result("wikipedia", "1987", 0.9, now),
		{SourceID: "websearch", ReliabilityWeight: 0.6, FetchedAt: now, Error: model.SourceTimeout},
		{SourceID: "empty", ReliabilityWeight: 0.3, FetchedAt: now},
	}

	answer, err := Reconcile(results)
	require.NoError(t, err)

	assert.Equal(t, "1987", answer.Value)
	assert.Equal(t, []string{"wikipedia"}, answer.SupportingSources)
	assert.Empty(t, answer.ConflictingSources)
}

func TestReconcile_AllAbsent(t *testing.T) {
	now := time.Now()
	results := []model.SourceResult{
		{SourceID: "wikipedia", ReliabilityWeight: 0.9, FetchedAt: now, Error: model.SourceError},
		{SourceID: "websearch", ReliabilityWeight: 0.6, FetchedAt: now, Error: model.SourceTimeout},
	}

	_, err := Reconcile(results)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestReconcile_EmptyInput(t *testing.T) {
	_, err := Reconcile(nil)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestReconcile_RepresentativeValueDeterministic(t *testing.T) {
	now := time.Now()
	a := result("alpha", "Acme Corp", 0.5, now)
	b := result("beta", "ACME CORP", 0.5, now)

	first, err := Reconcile([]model.SourceResult{a, b})
	require.NoError(t, err)
	second, err := Reconcile([]model.SourceResult{b, a})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", first.Value)
	assert.Equal(t, first, second)
}
